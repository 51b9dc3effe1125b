package bullet

import (
	"reflect"
)

// ObjectGraph is implemented by the types generated for components.
type ObjectGraph interface {
	// Get returns an instance of exactly the type t, provisioned by the component.
	Get(t reflect.Type) (any, error)
	// Inject injects the members of instance with the most specific injection
	// method of the component and returns instance.
	Inject(instance any) (any, error)
}

// Get returns an instance of T provisioned by g.
func Get[T any](g ObjectGraph) (T, error) {
	v, err := g.Get(reflect.TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	// Provision methods of T-typed requests always return a T, but a nil
	// interface value does not survive the type assertion.
	t, _ := v.(T)
	return t, nil
}

// Inject injects the members of instance with g and returns instance.
func Inject[T any](g ObjectGraph, instance T) (T, error) {
	if _, err := g.Inject(instance); err != nil {
		var zero T
		return zero, err
	}

	return instance, nil
}
