package plagiarism

import "sort"

// MergedRegion is the result of bridging near-adjacent matches: an
// envelope on both sides plus the number of tokens actually matched
// inside it (the bridged gaps themselves are not matched content).
// This is the shape the persisted output's matched-region list uses.
type MergedRegion struct {
	StartInFirst  int
	EndInFirst    int
	StartInSecond int
	EndInSecond   int
	MatchedTokens int
}

type taggedMatch struct {
	Match
	ignored bool
}

// MergeMatches bridges accepted matches separated by small gaps, using
// ignoredMatches (length in [minimumMatchLength, minimumTokenMatch)) as
// bridges. Two accepted matches are chained when every consecutive gap
// between them and their bridging ignored matches is <= mergeBuffer
// tokens on BOTH sides independently -- the gap measure chosen for this
// implementation counts the gap on each side on its own terms, so a
// chain step is accepted only when neither side's gap exceeds
// mergeBuffer, regardless of what the other side's gap is.
//
// Matches and ignoredMatches are both already mutually non-overlapping
// (the matcher marks every accepted and ignored range as it finds it),
// so merging here is a single left-to-right sweep.
func MergeMatches(cmp *Comparison, mergeBuffer int) []MergedRegion {
	entries := make([]taggedMatch, 0, len(cmp.Matches)+len(cmp.IgnoredMatches))
	for _, m := range cmp.Matches {
		entries = append(entries, taggedMatch{Match: m})
	}
	for _, m := range cmp.IgnoredMatches {
		entries = append(entries, taggedMatch{Match: m, ignored: true})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartInFirst < entries[j].StartInFirst
	})

	var regions []MergedRegion
	i := 0
	for i < len(entries) {
		if entries[i].ignored {
			// An ignored match with nothing accepted to its left can
			// never anchor a chain; it contributes nothing on its own.
			i++
			continue
		}

		chainStart := entries[i]
		lastAccepted := i
		tail := entries[i]

		j := i + 1
		for j < len(entries) {
			gapFirst := entries[j].StartInFirst - tail.EndInFirst()
			gapSecond := entries[j].StartInSecond - tail.EndInSecond()
			if gapFirst > mergeBuffer || gapSecond > mergeBuffer {
				break
			}
			tail = entries[j]
			if !entries[j].ignored {
				lastAccepted = j
			}
			j++
		}

		matchedTokens := 0
		for k := i; k <= lastAccepted; k++ {
			matchedTokens += entries[k].Length
		}

		end := entries[lastAccepted]
		regions = append(regions, MergedRegion{
			StartInFirst:  chainStart.StartInFirst,
			EndInFirst:    end.EndInFirst(),
			StartInSecond: chainStart.StartInSecond,
			EndInSecond:   end.EndInSecond(),
			MatchedTokens: matchedTokens,
		})

		// Resume scanning right after the last accepted match consumed
		// by this chain; any trailing ignored matches bridged past it
		// without reaching another accepted match are simply dropped.
		i = lastAccepted + 1
	}

	return regions
}
