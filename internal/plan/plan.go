// Package plan resolves declared injection targets into dispatch plans.
//
// Declared targets may repeat a type or be related by subtyping. A plan keeps
// one target per type and orders targets from the most to the least specific
// type, so that walking an instance's ancestry and taking the first matching
// target selects the nearest declared ancestor.
package plan

import (
	"fmt"

	"github.com/mazrean/bullet/dispatch"
)

// Kind tells how a handler is invoked.
type Kind int

const (
	// Eager handlers are called directly.
	Eager Kind = iota
	// Deferred handlers return an accessor that must be invoked before use.
	Deferred
)

func (k Kind) String() string {
	switch k {
	case Eager:
		return "eager"
	case Deferred:
		return "deferred"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry binds a type identity to the handler serving it.
type Entry[T, H any] struct {
	Type    T
	Handler H
	Kind    Kind
}

// Target is an entry of a plan together with its slot index.
type Target[T, H any] struct {
	Entry[T, H]
	Slot int
}

// Plan is the ordered, deduplicated list of targets of a dispatch unit.
// Slots are dense and equal to the position in Targets.
type Plan[T, H any] struct {
	Targets []Target[T, H]
}

// Len returns the number of targets.
func (p *Plan[T, H]) Len() int {
	return len(p.Targets)
}

// Capacity returns the dispatch table capacity required by the plan.
func (p *Plan[T, H]) Capacity() int {
	return dispatch.Capacity(len(p.Targets))
}

// Types returns the target types in slot order.
func (p *Plan[T, H]) Types() []T {
	types := make([]T, 0, len(p.Targets))
	for _, target := range p.Targets {
		types = append(types, target.Type)
	}

	return types
}

// Hierarchy describes the type system the targets live in.
type Hierarchy[T any] interface {
	// Same reports whether a and b denote the same type.
	Same(a, b T) bool
	// IsSubtype reports whether a is a proper subtype of b.
	IsSubtype(a, b T) bool
	// Name returns the canonical qualified name of t.
	Name(t T) string
}
