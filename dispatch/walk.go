package dispatch

import (
	"iter"
	"reflect"
)

// maxDepth bounds ancestor chains of values whose embedded pointers form a cycle.
const maxDepth = 64

// Ancestors yields the dynamic type and value of instance, then of each
// superclass value: the struct embedded as the first field of the value
// a pointer refers to.
// The chain ends at a value that is not a non-nil pointer to a struct with an
// embedded first field. Implemented interfaces are never part of the chain.
func Ancestors(instance any) iter.Seq2[reflect.Type, any] {
	return func(yield func(reflect.Type, any) bool) {
		current := instance
		for depth := 0; current != nil && depth < maxDepth; depth++ {
			if !yield(reflect.TypeOf(current), current) {
				return
			}
			current = superOf(current)
		}
	}
}

// Walk returns the slot of the nearest ancestor of instance stored in t,
// and the value of instance at that level of the chain.
// It returns NotFound and nil when no ancestor is stored.
func Walk(t *Table, instance any) (int, any) {
	current := instance
	for depth := 0; current != nil && depth < maxDepth; depth++ {
		if slot, ok := t.Lookup(reflect.TypeOf(current)); ok {
			return int(slot), current
		}
		current = superOf(current)
	}

	return NotFound, nil
}

// superOf returns a pointer to the first embedded field of the struct v
// points to, or nil.
func superOf(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil
	}

	st := rv.Type().Elem()
	if st.Kind() != reflect.Struct || st.NumField() == 0 {
		return nil
	}

	field := st.Field(0)
	if !field.Anonymous {
		return nil
	}

	// The first field lives at the address of the struct. NewAt reads it
	// without the read-only flag of unexported embedded fields.
	switch ft := field.Type; {
	case ft.Kind() == reflect.Struct:
		return reflect.NewAt(ft, rv.UnsafePointer()).Interface()
	case ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Struct && ft != rv.Type():
		p := reflect.NewAt(ft, rv.UnsafePointer()).Elem()
		if p.IsNil() {
			return nil
		}
		return p.Interface()
	default:
		return nil
	}
}
