package dispatch

import (
	"math"
	"reflect"
)

const (
	// NotFound is returned by Get for types without a slot.
	NotFound = -1

	// MaxEntries is the number of distinct slot indexes a Table can hold.
	MaxEntries = math.MaxUint16 + 1

	// probeFactor bounds the probes of Put to probeFactor * capacity.
	probeFactor = 64
)

// Table maps type identities to slot indexes.
//
// Collisions are resolved by open addressing with a multiplicative rehash of
// the identity hash, so the capacity should be a prime at least 30% larger
// than the number of entries (see Capacity). Entries are never removed.
type Table struct {
	types []reflect.Type
	slots []uint16

	length    int
	maxProbes int
	sealed    bool
}

// NewTable allocates an empty table with the given capacity.
func NewTable(capacity int) (*Table, error) {
	if capacity <= 0 {
		return nil, configErrorf("capacity must be positive, got %d", capacity)
	}

	return &Table{
		types: make([]reflect.Type, capacity),
		slots: make([]uint16, capacity),
	}, nil
}

// Build creates a sealed table of the given capacity in which types[i] maps to slot i.
func Build(capacity int, types ...reflect.Type) (*Table, error) {
	if len(types) > MaxEntries {
		return nil, configErrorf("%d entries exceed the maximum of %d", len(types), MaxEntries)
	}

	if len(types) >= capacity {
		return nil, configErrorf("capacity %d must exceed the number of entries %d", capacity, len(types))
	}

	t, err := NewTable(capacity)
	if err != nil {
		return nil, err
	}

	for i, typ := range types {
		if typ != nil && t.Get(typ) != NotFound {
			return nil, configErrorf("duplicate entry for %s", typ)
		}

		if err := t.Put(typ, uint16(i)); err != nil {
			return nil, err
		}
	}

	t.Seal()

	return t, nil
}

// MustBuild is like Build but panics if the table cannot be built.
// It is used by generated package-level variables.
func MustBuild(capacity int, types ...reflect.Type) *Table {
	t, err := Build(capacity, types...)
	if err != nil {
		panic(err)
	}

	return t
}

// lookup probes for typ and returns the index of the first slot that is
// either empty or holds typ, giving up after limit probes.
func (t *Table) lookup(typ reflect.Type, limit int) (index int, probes int, ok bool) {
	h := TypeHash(typ)
	capacity := int32(len(t.types))

	for probes = 1; probes <= limit; probes++ {
		h = h*57 + 43
		i := h % capacity
		if i < 0 {
			i = -i
		}

		if k := t.types[i]; k == nil || k == typ {
			return int(i), probes, true
		}
	}

	return 0, limit, false
}

// Put maps typ to slot, overwriting a previous mapping of typ.
func (t *Table) Put(typ reflect.Type, slot uint16) error {
	if t.sealed {
		return configErrorf("put %s into a sealed table", typ)
	}

	if typ == nil {
		return configErrorf("put a nil type")
	}

	index, probes, ok := t.lookup(typ, probeFactor*len(t.types))
	if !ok {
		return configErrorf("no free index for %s after %d probes (capacity %d, %d entries)", typ, probes, len(t.types), t.length)
	}

	if t.types[index] == nil {
		t.length++
	}

	t.types[index] = typ
	t.slots[index] = slot
	t.maxProbes = max(t.maxProbes, probes)

	return nil
}

// Get returns the slot of typ, or NotFound.
func (t *Table) Get(typ reflect.Type) int {
	slot, ok := t.Lookup(typ)
	if !ok {
		return NotFound
	}

	return int(slot)
}

// Lookup returns the slot of typ and whether typ was put into the table.
func (t *Table) Lookup(typ reflect.Type) (uint16, bool) {
	if typ == nil {
		return 0, false
	}

	// Every stored type was reached within maxProbes probes, and later puts
	// never move it, so a longer probe sequence cannot end on typ.
	index, _, ok := t.lookup(typ, t.maxProbes)
	if !ok || t.types[index] == nil {
		return 0, false
	}

	return t.slots[index], true
}

// Seal ends the construction phase. Put fails afterwards.
func (t *Table) Seal() {
	t.sealed = true
}

// Sealed reports whether Seal was called.
func (t *Table) Sealed() bool {
	return t.sealed
}

// Len returns the number of stored types.
func (t *Table) Len() int {
	return t.length
}

// Cap returns the capacity of the table.
func (t *Table) Cap() int {
	return len(t.types)
}
