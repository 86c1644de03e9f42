package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorthyThreshold_ScalesWithDifficulty(t *testing.T) {
	assert.InDelta(t, 0.15, WorthyThreshold("easy"), 0.0001)
	assert.InDelta(t, 0.05, WorthyThreshold("hard"), 0.0001)
	assert.InDelta(t, 0.10, WorthyThreshold("medium"), 0.0001)
	assert.InDelta(t, 0.10, WorthyThreshold(""), 0.0001)
}

func TestBuildGII_KeepsOnlyHashesSharedByTwoOrMoreSubmissions(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "C", "D")}
	b := &Submission{Name: "b", Tokens: toks("A", "B", "C", "D")}
	c := &Submission{Name: "c", Tokens: toks("X", "Y", "Z", "W")}

	m := NewMatcher(2, 0, nil)
	gii := m.BuildGII([]*Submission{a, b, c})

	require.NotEmpty(t, gii)
	for _, ids := range gii {
		assert.GreaterOrEqual(t, len(ids), 2)
	}
}

func TestGetWorthyPairs_FindsIdenticalSubmissionsAboveThreshold(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "C", "D")}
	b := &Submission{Name: "b", Tokens: toks("A", "B", "C", "D")}
	c := &Submission{Name: "c", Tokens: toks("X", "Y", "Z", "W")}

	m := NewMatcher(2, 0, nil)
	subs := []*Submission{a, b, c}
	gii := m.BuildGII(subs)

	pairs := m.GetWorthyPairs(gii, subs, 0.5)

	require.Len(t, pairs, 1)
	names := map[string]bool{pairs[0].A.Name: true, pairs[0].B.Name: true}
	assert.True(t, names["a"] && names["b"])
}

func TestGetWorthyPairs_DeduplicatesAcrossSharedBuckets(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "C", "D", "E")}
	b := &Submission{Name: "b", Tokens: toks("A", "B", "C", "D", "E")}

	m := NewMatcher(2, 0, nil)
	subs := []*Submission{a, b}
	gii := m.BuildGII(subs)

	pairs := m.GetWorthyPairs(gii, subs, 0.1)

	assert.Len(t, pairs, 1)
}
