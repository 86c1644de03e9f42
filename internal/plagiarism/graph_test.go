package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTok(name string, line int, writes ...string) Token {
	return Token{Type: TokenType(name), Line: line, Semantics: NewSemantics(false, false, nil, writes)}
}

func readTok(name string, line int, reads ...string) Token {
	return Token{Type: TokenType(name), Line: line, Semantics: NewSemantics(false, false, reads, nil)}
}

func controlTok(name string, line int, reads ...string) Token {
	return Token{Type: TokenType(name), Line: line, Semantics: NewSemantics(false, true, reads, nil)}
}

func criticalTok(name string, line int, reads ...string) Token {
	return Token{Type: TokenType(name), Line: line, Semantics: NewSemantics(true, false, reads, nil)}
}

func plainTok(name string, line int) Token {
	return Token{Type: TokenType(name), Line: line}
}

func withFileEnd(tokens ...Token) []Token {
	out := append([]Token(nil), tokens...)
	return append(out, NewFileEnd("f"))
}

// A chain of three dependent statements (write x; read x, write y; control
// reads y) must come out in source order: every statement is reachable
// from the kept control statement via VAR_FLOW, and the VAR_FLOW edges
// only ever point forward, so the only valid topological order is the
// original one.
func dependentChain() []Token {
	return withFileEnd(
		writeTok("ASSIGN_X", 1, "x"),
		readTok("USE_X_ASSIGN_Y", 2, "x"), // also writes y via a second token below
		writeTok("WRITE_Y", 2, "y"),
		controlTok("IF_Y", 3, "y"),
	)
}

func TestNormalize_IdempotentAcrossRepeatedCalls(t *testing.T) {
	ordinalOf := NewInterner().ValueOf
	tokens := dependentChain()

	first := Normalize(tokens, ordinalOf)
	second := Normalize(first, ordinalOf)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type, "token %d diverged on re-normalization", i)
	}
}

func TestNormalize_DeadCodeInsertionDoesNotChangeSurvivingTokens(t *testing.T) {
	ordinalOf := NewInterner().ValueOf

	baseline := Normalize(dependentChain(), ordinalOf)

	withDeadCode := withFileEnd(
		writeTok("ASSIGN_X", 1, "x"),
		writeTok("DEAD_WRITE_Z", 2, "z"), // never read, not critical/control: unreachable, dropped
		readTok("USE_X_ASSIGN_Y", 3, "x"),
		writeTok("WRITE_Y", 3, "y"),
		controlTok("IF_Y", 4, "y"),
	)
	withDead := Normalize(withDeadCode, NewInterner().ValueOf)

	require.Equal(t, len(baseline), len(withDead))
	for i := range baseline {
		assert.Equal(t, baseline[i].Type, withDead[i].Type, "dead code insertion changed surviving token %d", i)
	}
}

func TestNormalize_DropsUnreachableDeadStatement(t *testing.T) {
	tokens := withFileEnd(
		controlTok("IF_X", 1, "x"),
		writeTok("DEAD_WRITE_Z", 2, "z"),
	)

	result := Normalize(tokens, NewInterner().ValueOf)

	for _, tok := range result {
		assert.NotEqual(t, TokenType("DEAD_WRITE_Z"), tok.Type, "dead statement's token survived normalization")
	}
}

// Two independent, unrelated statements (no shared reads/writes, both
// critical so both survive) normalize to the same order regardless of which
// order they appear in the source, since linearize orders same-layer
// roots deterministically by statementLess rather than arrival order.
func TestNormalize_IndependentStatementReorderInvariance(t *testing.T) {
	// Neither statement is control, so buildGraph's index-adjacency ORDER
	// edge never kicks in, and they share no reads/writes, so no VAR_FLOW
	// edge connects them either: genuinely independent statements.
	longer := []Token{criticalTok("FOR_LOOP", 1, "i"), plainTok("BODY", 1), plainTok("END", 1)}
	shorter := []Token{criticalTok("IF_FLAG", 2, "flag")}

	forward := withFileEnd(append(append([]Token{}, longer...), shorter...)...)
	reversed := withFileEnd(append(append([]Token{}, shorter...), longer...)...)

	forwardResult := Normalize(forward, NewInterner().ValueOf)
	reversedResult := Normalize(reversed, NewInterner().ValueOf)

	require.Equal(t, len(forwardResult), len(reversedResult))
	for i := range forwardResult {
		assert.Equal(t, forwardResult[i].Type, reversedResult[i].Type, "token %d differs between reordered sources", i)
	}
	// The longer (3-token) statement sorts first under statementLess.
	assert.Equal(t, TokenType("FOR_LOOP"), forwardResult[0].Type)
}

func TestSpreadKeep_PropagatesBackwardAlongVarFlowFromKeptStatement(t *testing.T) {
	statements := []*Statement{
		newStatement([]Token{writeTok("A", 1, "x")}, 1),
		newStatement([]Token{readTok("B", 2, "x")}, 2),
	}
	statements[1].Semantics.Control = true
	statements[1].Keep = true

	g := buildGraph(statements)
	g.spreadKeep()

	assert.True(t, statements[0].Keep, "producer of a kept statement's input should be kept")
	assert.True(t, statements[1].Keep)
}

func TestSpreadKeep_ReverseFlowPropagatesFromLaterWriteToEarlierReader(t *testing.T) {
	earlier := newStatement([]Token{readTok("READ_X", 1, "x")}, 1)
	later := newStatement([]Token{writeTok("WRITE_X", 2, "x")}, 2)
	later.Semantics.Critical = true
	later.Keep = true

	g := buildGraph([]*Statement{earlier, later})
	g.spreadKeep()

	assert.True(t, earlier.Keep, "reverse-flow edge should propagate keep to the earlier reader")
	assert.True(t, later.Keep)
}

func TestSpreadKeep_UnrelatedStatementsStayUnkept(t *testing.T) {
	statements := []*Statement{
		newStatement([]Token{writeTok("A", 1, "x")}, 1),
		newStatement([]Token{writeTok("B", 2, "y")}, 2),
	}

	g := buildGraph(statements)
	g.spreadKeep()

	assert.False(t, statements[0].Keep)
	assert.False(t, statements[1].Keep)
}

func TestGroupStatements_SplitsByMaximalRunOfSharedLine(t *testing.T) {
	tokens := []Token{
		plainTok("A", 1), plainTok("B", 1),
		plainTok("C", 2),
		plainTok("D", 3), plainTok("E", 3),
	}

	statements := groupStatements(tokens)

	require.Len(t, statements, 3)
	assert.Len(t, statements[0].Tokens, 2)
	assert.Len(t, statements[1].Tokens, 1)
	assert.Len(t, statements[2].Tokens, 2)
}

func TestGroupStatements_SkipsFileEndTokens(t *testing.T) {
	tokens := withFileEnd(plainTok("A", 1))

	statements := groupStatements(tokens)

	require.Len(t, statements, 1)
	for _, s := range statements {
		for _, tok := range s.Tokens {
			assert.NotEqual(t, FileEnd, tok.Type)
		}
	}
}
