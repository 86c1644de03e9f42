package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatement_KeepsCriticalStatements(t *testing.T) {
	s := newStatement([]Token{criticalTok("X", 1)}, 1)
	assert.True(t, s.Keep)
}

func TestNewStatement_KeepsControlStatements(t *testing.T) {
	s := newStatement([]Token{controlTok("IF", 1)}, 1)
	assert.True(t, s.Keep)
}

func TestNewStatement_OrdinaryStatementIsNotKeptByDefault(t *testing.T) {
	s := newStatement([]Token{plainTok("X", 1)}, 1)
	assert.False(t, s.Keep)
}

func TestNewStatement_NilSemanticsWhenNoTokenCarriesAny(t *testing.T) {
	s := newStatement([]Token{plainTok("A", 1), plainTok("B", 1)}, 1)
	assert.Nil(t, s.Semantics)
	assert.False(t, s.Keep)
}

func TestStatementLess_OrdersByDescendingTokenCountFirst(t *testing.T) {
	longer := newStatement([]Token{plainTok("A", 1), plainTok("B", 1)}, 1)
	shorter := newStatement([]Token{plainTok("C", 2)}, 2)

	ordinalOf := func(TokenType) int32 { return 0 }

	assert.True(t, statementLess(longer, shorter, ordinalOf))
	assert.False(t, statementLess(shorter, longer, ordinalOf))
}

func TestStatementLess_TiesBrokenByPerTokenTypeOrdinal(t *testing.T) {
	a := newStatement([]Token{plainTok("FIRST_SEEN", 1)}, 1)
	b := newStatement([]Token{plainTok("SECOND_SEEN", 2)}, 2)

	in := NewInterner()
	in.ValueOf("FIRST_SEEN")
	in.ValueOf("SECOND_SEEN")

	assert.True(t, statementLess(a, b, in.ValueOf))
	assert.False(t, statementLess(b, a, in.ValueOf))
}

func TestStatementLess_IdenticalTypeSequencesAreNotLess(t *testing.T) {
	a := newStatement([]Token{plainTok("X", 1)}, 1)
	b := newStatement([]Token{plainTok("X", 2)}, 2)

	ordinalOf := NewInterner().ValueOf

	assert.False(t, statementLess(a, b, ordinalOf))
	assert.False(t, statementLess(b, a, ordinalOf))
}

func TestStatementEqual_SameTypeSequenceIsEqual(t *testing.T) {
	a := newStatement([]Token{plainTok("X", 1), plainTok("Y", 1)}, 1)
	b := newStatement([]Token{plainTok("X", 2), plainTok("Y", 2)}, 2)

	assert.True(t, statementEqual(a, b))
}

func TestStatementEqual_DifferentLengthIsNotEqual(t *testing.T) {
	a := newStatement([]Token{plainTok("X", 1)}, 1)
	b := newStatement([]Token{plainTok("X", 2), plainTok("Y", 2)}, 2)

	assert.False(t, statementEqual(a, b))
}

func TestStatementEqual_DifferentTypeAtSamePositionIsNotEqual(t *testing.T) {
	a := newStatement([]Token{plainTok("X", 1)}, 1)
	b := newStatement([]Token{plainTok("Y", 2)}, 2)

	assert.False(t, statementEqual(a, b))
}
