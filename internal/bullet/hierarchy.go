package bullet

import (
	"go/types"

	"github.com/mazrean/bullet/internal/plan"
)

// maxSuperclassDepth bounds superclass chains built from self-embedding pointers.
const maxSuperclassDepth = 64

// TypeHierarchy is the subtype relation of go/types types used to order
// injection targets.
//
// A type is a subtype of an interface it implements, and of every type in its
// superclass chain. The superclass of *T is *S when the first field of the
// struct T embeds S or *S. Value types have no superclass, since the runtime
// walk reaches the embedded value through a pointer.
type TypeHierarchy struct{}

var _ plan.Hierarchy[types.Type] = TypeHierarchy{}

func (TypeHierarchy) Same(a, b types.Type) bool {
	return types.Identical(a, b)
}

func (TypeHierarchy) IsSubtype(a, b types.Type) bool {
	if types.Identical(a, b) {
		return false
	}

	if iface, ok := b.Underlying().(*types.Interface); ok {
		return types.Implements(a, iface)
	}

	for _, s := range superclasses(a) {
		if types.Identical(s, b) {
			return true
		}
	}

	return false
}

// Name returns the package-path qualified name of t, without pointer indirection.
func (TypeHierarchy) Name(t types.Type) string {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}

	return types.TypeString(t, nil)
}

// superclass returns the superclass of t, or nil.
func superclass(t types.Type) types.Type {
	ptr, ok := types.Unalias(t).(*types.Pointer)
	if !ok {
		return nil
	}

	named, ok := types.Unalias(ptr.Elem()).(*types.Named)
	if !ok {
		return nil
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok || st.NumFields() == 0 {
		return nil
	}

	field := st.Field(0)
	if !field.Embedded() {
		return nil
	}

	base := types.Unalias(field.Type())
	if p, ok := base.(*types.Pointer); ok {
		base = types.Unalias(p.Elem())
	}

	if _, ok := base.(*types.Named); !ok {
		return nil
	}
	if _, ok := base.Underlying().(*types.Struct); !ok {
		return nil
	}

	return types.NewPointer(base)
}

// superclasses returns the superclass chain of t, nearest first.
func superclasses(t types.Type) []types.Type {
	var chain []types.Type

	for s := superclass(t); s != nil && len(chain) < maxSuperclassDepth; s = superclass(s) {
		if types.Identical(s, t) {
			break
		}
		chain = append(chain, s)
	}

	return chain
}
