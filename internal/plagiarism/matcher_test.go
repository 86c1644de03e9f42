package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toks(types ...TokenType) []Token {
	tokens := make([]Token, 0, len(types)+1)
	for _, t := range types {
		tokens = append(tokens, Token{Type: t})
	}
	tokens = append(tokens, NewFileEnd("a"))
	return tokens
}

func TestCompare_IdenticalSubmissionsMatchEveryTokenButFileEnd(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "C", "D", "E")}
	b := &Submission{Name: "b", Tokens: toks("A", "B", "C", "D", "E")}

	m := NewMatcher(3, 0, nil)
	cmp := m.Compare(a, b)

	assert.Equal(t, 5, cmp.NumberOfMatchedTokens())
}

func TestCompare_NoCommonSubsequenceProducesNoMatches(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "C")}
	b := &Submission{Name: "b", Tokens: toks("X", "Y", "Z")}

	m := NewMatcher(2, 0, nil)
	cmp := m.Compare(a, b)

	assert.Empty(t, cmp.Matches)
}

func TestCompare_MatchesBelowMinimumTokenMatchAreIgnoredNotDropped(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B", "X", "Y", "Z")}
	b := &Submission{Name: "b", Tokens: toks("A", "B", "P", "Q", "R")}

	// minimumTokenMatch=5, mergeBuffer=3 -> minimumMatchLength=2, so the
	// two-token "A B" prefix is found but stays below the accept bar.
	m := NewMatcher(5, 3, nil)
	cmp := m.Compare(a, b)

	require.Empty(t, cmp.Matches)
	require.Len(t, cmp.IgnoredMatches, 1)
	assert.Equal(t, 2, cmp.IgnoredMatches[0].Length)
}

func TestCompare_OrdersFirstAsSmallerSubmissionByTokenCount(t *testing.T) {
	small := &Submission{Name: "small", Tokens: toks("A", "B")}
	large := &Submission{Name: "large", Tokens: toks("A", "B", "C", "D")}

	m := NewMatcher(2, 0, nil)
	cmp := m.Compare(large, small)

	assert.Same(t, small, cmp.First)
	assert.Same(t, large, cmp.Second)
}

func TestCompare_TiesBrokenByName(t *testing.T) {
	a := &Submission{Name: "a", Tokens: toks("A", "B")}
	z := &Submission{Name: "z", Tokens: toks("A", "B")}

	m := NewMatcher(2, 0, nil)
	cmp := m.Compare(z, a)

	assert.Same(t, a, cmp.First)
	assert.Same(t, z, cmp.Second)
}

func TestCompare_ExcludedTokenTypesNeverAppearInMatches(t *testing.T) {
	excluded := func(tt TokenType) bool { return tt == "COMMENT" }

	a := &Submission{Name: "a", Tokens: toks("A", "COMMENT", "B", "C")}
	b := &Submission{Name: "b", Tokens: toks("A", "COMMENT", "B", "C")}

	m := NewMatcher(2, 0, excluded)
	cmp := m.Compare(a, b)

	for _, match := range cmp.Matches {
		for k := 0; k < match.Length; k++ {
			assert.NotEqual(t, TokenType("COMMENT"), a.Tokens[match.StartInFirst+k].Type)
		}
	}
}

func TestGenerateBaseCodeMarking_IdempotentAcrossRepeatedCalls(t *testing.T) {
	base := &Submission{Name: "base", Tokens: toks("A", "B", "C", "D")}
	s := &Submission{Name: "s", Tokens: toks("A", "B", "C", "D", "E")}

	m := NewMatcher(2, 0, nil)
	m.GenerateBaseCodeMarking(s, base)
	afterFirst := m.baseMaskFor(s)
	m.GenerateBaseCodeMarking(s, base)
	afterSecond := m.baseMaskFor(s)

	assert.Equal(t, afterFirst, afterSecond)
}
