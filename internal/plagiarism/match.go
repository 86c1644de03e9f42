package plagiarism

// Match is a non-overlapping tiling between two token sequences.
type Match struct {
	StartInFirst  int
	StartInSecond int
	Length        int
}

// EndInFirst is the index one past the last matched token on the first side.
func (m Match) EndInFirst() int { return m.StartInFirst + m.Length }

// EndInSecond is the index one past the last matched token on the second side.
func (m Match) EndInSecond() int { return m.StartInSecond + m.Length }

// Overlaps reports whether the two matches intersect on either side.
func (m Match) Overlaps(other Match) bool {
	return rangesOverlap(m.StartInFirst, m.EndInFirst(), other.StartInFirst, other.EndInFirst()) ||
		rangesOverlap(m.StartInSecond, m.EndInSecond(), other.StartInSecond, other.EndInSecond())
}

func rangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Comparison is the result of comparing two submissions: the accepted
// tiling plus the sub-minimum tiling retained for merging.
type Comparison struct {
	First          *Submission
	Second         *Submission
	Matches        []Match
	IgnoredMatches []Match
}

// NumberOfMatchedTokens sums the length of every accepted match.
func (c *Comparison) NumberOfMatchedTokens() int {
	total := 0
	for _, m := range c.Matches {
		total += m.Length
	}
	return total
}
