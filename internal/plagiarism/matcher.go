package plagiarism

import "sync"

// Matcher implements the Greedy String Tiling comparison described in
// the component design: a thread-safe token-sequence comparator backed
// by a shared interner and per-submission caches.
//
// A single Matcher instance MUST be reused across every pair compared
// in a run: the interner and the per-submission caches only pay off
// when shared. Multiple pairs may be compared concurrently; the only
// lock ever held across a blocking boundary is the interner's growth
// mutex and the per-submission one-shot cache locks below.
type Matcher struct {
	interner *Interner

	minimumTokenMatch  int
	mergeBuffer        int
	minimumMatchLength int

	excluded func(TokenType) bool

	valueLists    sync.Map // *Submission -> *valueListHolder
	hashIndexes   sync.Map // *Submission -> *hashIndexHolder
	excludedMasks sync.Map // *Submission -> *excludedMaskHolder
	baseMasks     sync.Map // *Submission -> *baseMaskEntry
}

// NewMatcher builds a Matcher for a single comparison run.
// minimumTokenMatch is MTM (the smallest accepted match length);
// mergeBuffer is MB (slack subtracted from MTM to obtain the window
// length used by the hash index and the inner search); excluded
// classifies token types the front-end considers whitespace-equivalent
// (nil means no type is excluded).
func NewMatcher(minimumTokenMatch, mergeBuffer int, excluded func(TokenType) bool) *Matcher {
	minimumMatchLength := minimumTokenMatch - mergeBuffer
	if minimumMatchLength < 1 {
		minimumMatchLength = 1
	}
	return &Matcher{
		interner:           NewInterner(),
		minimumTokenMatch:  minimumTokenMatch,
		mergeBuffer:        mergeBuffer,
		minimumMatchLength: minimumMatchLength,
		excluded:           excluded,
	}
}

type valueListHolder struct {
	once   sync.Once
	values []int32
}

// valueListFor memoizes the dense value-list for s by submission identity.
func (m *Matcher) valueListFor(s *Submission) []int32 {
	v, _ := m.valueLists.LoadOrStore(s, &valueListHolder{})
	h := v.(*valueListHolder)
	h.once.Do(func() {
		h.values = m.interner.ValueListOf(s.Tokens)
	})
	return h.values
}

type excludedMaskHolder struct {
	once sync.Once
	mask []bool
}

func (m *Matcher) excludedMaskFor(s *Submission) []bool {
	v, _ := m.excludedMasks.LoadOrStore(s, &excludedMaskHolder{})
	h := v.(*excludedMaskHolder)
	h.once.Do(func() {
		mask := make([]bool, len(s.Tokens))
		for i, t := range s.Tokens {
			// FILE_END is a cross-submission pivot, never a real token: two
			// submissions always agree on it, so it must never itself be
			// reported as matched (see compare(A,A) == |A|-1 invariant).
			mask[i] = t.Type == FileEnd || (m.excluded != nil && m.excluded(t.Type))
		}
		h.mask = mask
	})
	return h.mask
}

type baseMaskEntry struct {
	mu     sync.Mutex
	bitmap []bool
}

func (m *Matcher) baseMaskFor(s *Submission) []bool {
	v, ok := m.baseMasks.Load(s)
	if !ok {
		return nil
	}
	e := v.(*baseMaskEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]bool, len(e.bitmap))
	copy(cp, e.bitmap)
	return cp
}

func (m *Matcher) markBaseCode(s *Submission, matches []Match, sideIsFirst bool) {
	v, _ := m.baseMasks.LoadOrStore(s, &baseMaskEntry{bitmap: make([]bool, len(s.Tokens))})
	e := v.(*baseMaskEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, match := range matches {
		start := match.StartInSecond
		if sideIsFirst {
			start = match.StartInFirst
		}
		markRange(e.bitmap, start, match.Length)
	}
}

type hashIndexHolder struct {
	once sync.Once
	idx  *subsequenceHashIndex
}

// hashIndexFor builds (once) or returns the cached subsequence hash
// index for s, reflecting the current excluded-type mask and base-code
// mask. invalidateHashIndex must be called after base-code markings
// change for s so the next access rebuilds from scratch.
func (m *Matcher) hashIndexFor(s *Submission) *subsequenceHashIndex {
	v, _ := m.hashIndexes.LoadOrStore(s, &hashIndexHolder{})
	h := v.(*hashIndexHolder)
	h.once.Do(func() {
		h.idx = buildHashIndex(m.valueListFor(s), m.calculateInitiallyMarked(s), m.minimumMatchLength)
	})
	return h.idx
}

func (m *Matcher) invalidateHashIndex(s *Submission) {
	m.hashIndexes.Delete(s)
}

func (m *Matcher) calculateInitiallyMarked(s *Submission) []bool {
	excluded := m.excludedMaskFor(s)
	marked := make([]bool, len(excluded))
	copy(marked, excluded)
	if base := m.baseMaskFor(s); base != nil {
		for i, b := range base {
			if b {
				marked[i] = true
			}
		}
	}
	return marked
}

// Compare runs Greedy String Tiling between a and b. The returned
// Comparison always names the smaller submission (by token count, ties
// broken by name) as First, regardless of argument order.
func (m *Matcher) Compare(a, b *Submission) *Comparison {
	smaller, larger := orderedPair(a, b)
	return m.compareInternal(smaller, larger)
}

// GenerateBaseCodeMarking runs the matcher with base taking one side
// and records, for s, the set of tokens covered by any match as a
// base-code bitmap. Calling this twice with the same base has the same
// effect as calling it once (invariant 6): marking the same ranges
// again is a no-op union.
func (m *Matcher) GenerateBaseCodeMarking(s, base *Submission) *Comparison {
	cmp := m.Compare(s, base)
	m.markBaseCode(s, cmp.Matches, cmp.First == s)
	m.invalidateHashIndex(s)
	return cmp
}

func (m *Matcher) compareInternal(left, right *Submission) *Comparison {
	cmp := &Comparison{First: left, Second: right}

	leftValues := m.valueListFor(left)
	rightValues := m.valueListFor(right)

	if len(leftValues) <= m.minimumMatchLength || len(rightValues) <= m.minimumMatchLength {
		return cmp
	}

	leftHashIdx := m.hashIndexFor(left)
	rightHashIdx := m.hashIndexFor(right)

	leftMarked := append([]bool(nil), m.calculateInitiallyMarked(left)...)
	rightMarked := append([]bool(nil), m.calculateInitiallyMarked(right)...)

	leftN, rightN := len(leftValues), len(rightValues)

	for {
		maxLen := m.minimumMatchLength
		var iteration []Match

		for i := 0; i+maxLen <= leftN; i++ {
			if leftMarked[i] {
				continue
			}
			h := leftHashIdx.hashAt(i)
			if h == noHash {
				continue
			}
			for _, j := range rightHashIdx.startsWithHash(h) {
				if rightMarked[j] {
					continue
				}
				if !(maxLen < rightN-j) {
					continue
				}
				length := maximalUnmarkedRun(leftValues, rightValues, leftMarked, rightMarked, i, j, maxLen)
				if length < maxLen {
					continue
				}
				if length > maxLen {
					iteration = iteration[:0]
					maxLen = length
				}
				candidate := Match{StartInFirst: i, StartInSecond: j, Length: length}
				if !overlapsAny(iteration, candidate) {
					iteration = append(iteration, candidate)
				}
			}
		}

		for _, match := range iteration {
			if match.Length < m.minimumTokenMatch {
				cmp.IgnoredMatches = append(cmp.IgnoredMatches, match)
			} else {
				cmp.Matches = append(cmp.Matches, match)
			}
			markRange(leftMarked, match.StartInFirst, match.Length)
			markRange(rightMarked, match.StartInSecond, match.Length)
		}

		if maxLen == m.minimumMatchLength {
			break
		}
	}

	return cmp
}

// maximalUnmarkedRun checks length-`start` equality backwards from
// start-1 down to 0 (returning 0 on any mismatch or marked position),
// then extends forward from start while positions stay equal and
// unmarked. The caller only passes starts with i+start and j+start
// inside their sequences, so the backward phase needs no bounds check;
// the forward phase is bounded by the shorter of the two remaining
// suffixes.
func maximalUnmarkedRun(leftValues, rightValues []int32, leftMarked, rightMarked []bool, i, j, start int) int {
	for k := start - 1; k >= 0; k-- {
		if leftMarked[i+k] || rightMarked[j+k] || leftValues[i+k] != rightValues[j+k] {
			return 0
		}
	}

	length := start
	bound := len(leftValues) - i
	if rb := len(rightValues) - j; rb < bound {
		bound = rb
	}
	for length < bound && !leftMarked[i+length] && !rightMarked[j+length] && leftValues[i+length] == rightValues[j+length] {
		length++
	}
	return length
}

func overlapsAny(existing []Match, candidate Match) bool {
	for k := len(existing) - 1; k >= 0; k-- {
		if existing[k].Overlaps(candidate) {
			return true
		}
	}
	return false
}

func markRange(marked []bool, start, length int) {
	for k := 0; k < length; k++ {
		marked[start+k] = true
	}
}
