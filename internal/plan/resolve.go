package plan

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/mazrean/bullet/internal/pkg/collection"
)

// Resolve deduplicates entries, orders them by specificity and assigns slots.
func Resolve[T, H any](entries []Entry[T, H], h Hierarchy[T]) *Plan[T, H] {
	ordered := Order(Dedupe(entries, h.Same), h)

	targets := make([]Target[T, H], 0, len(ordered))
	for i, entry := range ordered {
		targets = append(targets, Target[T, H]{
			Entry: entry,
			Slot:  i,
		})
	}

	return &Plan[T, H]{Targets: targets}
}

// Dedupe keeps one entry per type, in the order types first appear.
// The first eager entry of a type wins; a type with only deferred entries
// keeps its first one.
func Dedupe[T, H any](entries []Entry[T, H], same func(a, b T) bool) []Entry[T, H] {
	result := make([]Entry[T, H], 0, len(entries))
	for _, entry := range entries {
		i := slices.IndexFunc(result, func(kept Entry[T, H]) bool {
			return same(kept.Type, entry.Type)
		})
		if i < 0 {
			result = append(result, entry)
			continue
		}

		if result[i].Kind != Eager && entry.Kind == Eager {
			result[i] = entry
		}
	}

	return result
}

// Compare orders a before b when a is a proper subtype of b, and unrelated
// types by ascending name. It returns 0 for the same type.
//
// Compare is not transitive over unrelated types mixed with related ones,
// which is why Order does not sort with it.
func Compare[T any](a, b T, h Hierarchy[T]) int {
	switch {
	case h.Same(a, b):
		return 0
	case h.IsSubtype(a, b):
		return -1
	case h.IsSubtype(b, a):
		return 1
	default:
		return strings.Compare(h.Name(a), h.Name(b))
	}
}

// Order returns entries from the most to the least specific type.
//
// Every type comes before all of its supertypes. Among the types whose
// subtypes have all been placed, the one with the smallest name goes first,
// which makes the result deterministic for a given input.
// Entries are expected to be deduplicated.
func Order[T, H any](entries []Entry[T, H], h Hierarchy[T]) []Entry[T, H] {
	n := len(entries)
	names := make([]string, n)
	for i, entry := range entries {
		names[i] = h.Name(entry.Type)
	}

	// supertypes[i] lists the entries that must come after entry i.
	supertypes := make([][]int, n)
	pending := make([]int, n)
	for i := range entries {
		for j := range entries {
			if i != j && h.IsSubtype(entries[i].Type, entries[j].Type) {
				supertypes[i] = append(supertypes[i], j)
				pending[j]++
			}
		}
	}

	ready := collection.NewPriorityQueue(func(a, b int) bool {
		if names[a] != names[b] {
			return names[a] < names[b]
		}
		return a < b
	})
	for i := range entries {
		if pending[i] == 0 {
			ready.Push(i)
		}
	}

	placed := make([]bool, n)
	result := make([]Entry[T, H], 0, n)
	for len(result) < n {
		if ready.Len() == 0 {
			// Mutual subtypes, such as interfaces with identical method sets.
			i := smallestUnplaced(names, placed)
			slog.Debug("subtype cycle in dispatch targets", "type", names[i])
			ready.Push(i)
		}

		i := ready.Pop()
		if placed[i] {
			continue
		}
		placed[i] = true
		result = append(result, entries[i])

		for _, j := range supertypes[i] {
			pending[j]--
			if pending[j] == 0 && !placed[j] {
				ready.Push(j)
			}
		}
	}

	return result
}

func smallestUnplaced(names []string, placed []bool) int {
	best := -1
	for i, name := range names {
		if placed[i] {
			continue
		}
		if best == -1 || name < names[best] {
			best = i
		}
	}

	return best
}
