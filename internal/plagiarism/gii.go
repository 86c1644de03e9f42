package plagiarism

// GII (Global Inverted Index) maps a subsequence hash to the indices
// of every submission whose hash index contains that hash, letting the
// driver skip comparisons between submissions that cannot possibly
// share a window of length minimumMatchLength -- a pure performance
// optimization grounded directly on the same hash index the matcher
// builds anyway, so it can never change which pairs would pass the
// similarity threshold: a pair with zero shared hash buckets cannot
// produce a match of that length.
type GII map[uint64][]int

// Pair is a candidate comparison selected by the GII prefilter.
type Pair struct {
	A *Submission
	B *Submission
}

// BuildGII indexes every submission's hash buckets, keeping only hash
// values shared by two or more submissions.
func (m *Matcher) BuildGII(submissions []*Submission) GII {
	raw := make(GII)
	for idx, s := range submissions {
		seen := make(map[uint64]bool)
		for h := range m.hashIndexFor(s).buckets {
			if seen[h] {
				continue
			}
			seen[h] = true
			raw[h] = append(raw[h], idx)
		}
	}

	filtered := make(GII, len(raw))
	for h, ids := range raw {
		if len(ids) >= 2 {
			filtered[h] = ids
		}
	}
	return filtered
}

// GetWorthyPairs expands the GII into candidate pairs whose bucket
// overlap ratio meets threshold, deduplicated across hash buckets.
func (m *Matcher) GetWorthyPairs(gii GII, submissions []*Submission, threshold float64) []Pair {
	pairSeen := make(map[[2]int]bool)
	var pairs []Pair

	for _, ids := range gii {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				key := [2]int{ids[i], ids[j]}
				if ids[i] > ids[j] {
					key = [2]int{ids[j], ids[i]}
				}
				if pairSeen[key] {
					continue
				}
				pairSeen[key] = true

				a, b := submissions[ids[i]], submissions[ids[j]]
				if m.bucketOverlap(a, b) >= threshold {
					pairs = append(pairs, Pair{A: a, B: b})
				}
			}
		}
	}
	return pairs
}

// WorthyThreshold returns the bucket-overlap floor GetWorthyPairs should
// use for a given question difficulty: harder questions admit fewer
// legitimate ways to converge on the same structure, so even a small
// shared-bucket fraction is worth a full comparison.
func WorthyThreshold(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return 0.15
	case "hard":
		return 0.05
	default:
		return 0.10
	}
}

func (m *Matcher) bucketOverlap(a, b *Submission) float64 {
	hashesA := m.hashIndexFor(a).buckets
	hashesB := m.hashIndexFor(b).buckets
	if len(hashesA) == 0 || len(hashesB) == 0 {
		return 0
	}

	small, big := hashesA, hashesB
	if len(hashesB) < len(hashesA) {
		small, big = hashesB, hashesA
	}

	shared := 0
	for h := range small {
		if _, ok := big[h]; ok {
			shared++
		}
	}

	minTotal := len(hashesA)
	if len(hashesB) < minTotal {
		minTotal = len(hashesB)
	}
	if minTotal == 0 {
		return 0
	}
	return float64(shared) / float64(minTotal)
}
