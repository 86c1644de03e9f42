package plagiarism

import "sync/atomic"
import "sync"

// Interner maps every distinct TokenType observed across all
// submissions to a dense, non-negative int32, assigning FILE_END the
// reserved value 0. Once assigned, a value never changes.
//
// Growth is synchronized by a single mutex; reads of already-seen
// types go through an atomically-published snapshot map and never
// block on the mutex, matching the "insert-only, lock-free reads
// after publication" shared-state rule for the interner.
type Interner struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[map[TokenType]int32]
	next     int32
}

// NewInterner returns an Interner with FILE_END pre-seeded at value 0.
func NewInterner() *Interner {
	seed := map[TokenType]int32{FileEnd: 0}
	in := &Interner{next: 1}
	in.snapshot.Store(&seed)
	return in
}

// ValueOf returns the dense value for t, assigning one on first sight.
func (in *Interner) ValueOf(t TokenType) int32 {
	if v, ok := (*in.snapshot.Load())[t]; ok {
		return v
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	current := *in.snapshot.Load()
	if v, ok := current[t]; ok {
		return v
	}

	v := in.next
	in.next++

	grown := make(map[TokenType]int32, len(current)+1)
	for k, existing := range current {
		grown[k] = existing
	}
	grown[t] = v
	in.snapshot.Store(&grown)

	return v
}

// ValueListOf converts a token list to its dense value-list. This is
// not memoized by submission identity here; callers that need
// per-submission memoization use Matcher.valueListFor.
func (in *Interner) ValueListOf(tokens []Token) []int32 {
	values := make([]int32, len(tokens))
	for i, t := range tokens {
		values[i] = in.ValueOf(t.Type)
	}
	return values
}
