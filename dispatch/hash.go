package dispatch

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var (
	typeIDs    sync.Map // reflect.Type -> int32
	nextTypeID atomic.Int32
)

// TypeHash returns the identity hash of t.
// Every distinct type gets its own value on first use, stable for the
// lifetime of the process.
func TypeHash(t reflect.Type) int32 {
	if v, ok := typeIDs.Load(t); ok {
		return v.(int32)
	}

	// A goroutine losing the race below burns an id, which keeps ids unique.
	v, _ := typeIDs.LoadOrStore(t, nextTypeID.Add(1))
	return v.(int32)
}
