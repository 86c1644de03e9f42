package plagiarism

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterner_FileEndIsAlwaysZero(t *testing.T) {
	in := NewInterner()
	assert.Equal(t, int32(0), in.ValueOf(FileEnd))
}

func TestInterner_SameTypeAlwaysReturnsSameValue(t *testing.T) {
	in := NewInterner()
	first := in.ValueOf("IDENTIFIER")
	second := in.ValueOf("IDENTIFIER")
	assert.Equal(t, first, second)
}

func TestInterner_DistinctTypesGetDistinctValues(t *testing.T) {
	in := NewInterner()
	a := in.ValueOf("A")
	b := in.ValueOf("B")
	assert.NotEqual(t, a, b)
}

func TestInterner_ConcurrentFirstSightIsStableAndDeduplicated(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	results := make([]int32, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = in.ValueOf("SHARED")
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, results[0], v)
	}
}

func TestInterner_ValueListOfPreservesOrder(t *testing.T) {
	in := NewInterner()
	tokens := []Token{{Type: "A"}, {Type: "B"}, {Type: "A"}}
	values := in.ValueListOf(tokens)

	assert.Len(t, values, 3)
	assert.Equal(t, values[0], values[2])
	assert.NotEqual(t, values[0], values[1])
}
