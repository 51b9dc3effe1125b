// Package bullet provides reflection-free object graph dispatch for Go components.
//
// A component is an interface whose methods either provision an instance of a
// type or inject members into an instance. The bullet code generator turns a
// component into a type implementing ObjectGraph, so that callers can ask for
// "an instance of T" or "inject into this value" without knowing which
// component method serves the request.
package bullet

import "sync"

// Component declares an object graph to generate for the component interface T.
// The generated type is named Bullet<T> and is created with NewBullet<T>.
//
// Example:
//
//	type App interface {
//		Config() *Config
//		Database() bullet.Provider[*Database]
//		InjectHandler(h *Handler)
//		ServiceInjector() bullet.MembersInjector[*Service]
//	}
//
//	var _ = bullet.Component[App]()
//
// Use go:generate to trigger code generation:
//
//	//go:generate go tool bullet $GOFILE
func Component[T any]() struct{} {
	// This function is analyzed at compile time by the bullet code generator.
	// The actual implementation is generated and written to *_bullet.go files.
	return struct{}{}
}

// Provider returns a new instance of T each time Get is called.
// Component methods returning a Provider are treated as deferred provisions.
type Provider[T any] interface {
	Get() T
}

// Lazy computes T once on the first call to Get and returns the same value afterwards.
type Lazy[T any] interface {
	Get() T
}

// MembersInjector injects the members of an instance of T.
// Component methods returning a MembersInjector are treated as deferred injections.
type MembersInjector[T any] interface {
	InjectMembers(instance T)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc[T any] func() T

// Get calls f.
func (f ProviderFunc[T]) Get() T {
	return f()
}

// MembersInjectorFunc adapts a function to the MembersInjector interface.
type MembersInjectorFunc[T any] func(instance T)

// InjectMembers calls f.
func (f MembersInjectorFunc[T]) InjectMembers(instance T) {
	f(instance)
}

type lazy[T any] struct {
	get func() T
}

func (l lazy[T]) Get() T {
	return l.get()
}

// NewLazy returns a Lazy that calls fn at most once.
func NewLazy[T any](fn func() T) Lazy[T] {
	return lazy[T]{get: sync.OnceValue(fn)}
}
