package bullet

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTargetNotFound is matched by every TargetNotFoundError.
var ErrTargetNotFound = errors.New("target not found")

// Operation identifies the ObjectGraph method that failed.
type Operation int

const (
	OperationGet Operation = iota
	OperationInject
)

func (o Operation) String() string {
	switch o {
	case OperationGet:
		return "get"
	case OperationInject:
		return "inject"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// TargetNotFoundError is returned when no component method serves a request.
type TargetNotFoundError struct {
	// Type is the requested type for Get, or the dynamic type of the instance for Inject.
	Type reflect.Type
	// Component is the name of the component the object graph was generated for.
	Component string
	Operation Operation
}

func (e *TargetNotFoundError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.String()
	}

	switch e.Operation {
	case OperationInject:
		return fmt.Sprintf("no inject or members-inject method found for %s in %s", typeName, e.Component)
	default:
		return fmt.Sprintf("no get or provides method found for %s in %s", typeName, e.Component)
	}
}

func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// NoProvision reports that component has no provision method for t.
// It is called by generated code.
func NoProvision(t reflect.Type, component string) error {
	return &TargetNotFoundError{
		Type:      t,
		Component: component,
		Operation: OperationGet,
	}
}

// NoInjection reports that component has no injection method for instance.
// It is called by generated code.
func NoInjection(instance any, component string) error {
	return &TargetNotFoundError{
		Type:      reflect.TypeOf(instance),
		Component: component,
		Operation: OperationInject,
	}
}
