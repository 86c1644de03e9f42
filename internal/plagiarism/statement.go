package plagiarism

// Statement is a maximal run of tokens sharing the same source line,
// the unit the normalization graph operates on.
type Statement struct {
	Tokens     []Token
	LineNumber int
	Semantics  *Semantics
	Keep       bool
}

// newStatement builds a Statement from its tokens, merging their
// per-token semantics and seeding Keep from critical/control.
func newStatement(tokens []Token, lineNumber int) *Statement {
	s := &Statement{Tokens: tokens, LineNumber: lineNumber, Semantics: joinSemantics(tokens)}
	if s.Semantics != nil {
		s.Keep = s.Semantics.Critical || s.Semantics.Control
	}
	return s
}

// statementLess orders statements by descending token count, breaking
// ties lexicographically by per-token type ordinal (the order in which
// the interner first saw each type). This is a canonicalization
// choice, not an arbitrary one: the end-to-end insertion/reordering
// scenarios depend on it producing the same order regardless of which
// submission a statement came from.
func statementLess(a, b *Statement, ordinalOf func(TokenType) int32) bool {
	if len(a.Tokens) != len(b.Tokens) {
		return len(a.Tokens) > len(b.Tokens)
	}
	for i := range a.Tokens {
		oa := ordinalOf(a.Tokens[i].Type)
		ob := ordinalOf(b.Tokens[i].Type)
		if oa != ob {
			return oa < ob
		}
	}
	return false
}

func statementEqual(a, b *Statement) bool {
	if len(a.Tokens) != len(b.Tokens) {
		return false
	}
	for i := range a.Tokens {
		if a.Tokens[i].Type != b.Tokens[i].Type {
			return false
		}
	}
	return true
}
