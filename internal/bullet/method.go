// Package bullet provides object graph code generation functionality.
package bullet

import (
	"go/token"
	"go/types"

	"github.com/mazrean/bullet/internal/plan"
)

// Package identifies the package a file is generated into.
type Package struct {
	Name string
	Path string
}

// Import is an import of the generated file.
type Import struct {
	Name          string
	IsDefaultName bool
	IsUsed        bool
}

// MetaData describes the file being generated.
type MetaData struct {
	Package Package
	// Imports are the imports of the generated file, by package path.
	Imports map[string]*Import
	// FileImports are the names imported by the other files of the package.
	FileImports []string
}

// MethodKind is the shape of a component method.
type MethodKind int

const (
	// Provision is X() T.
	Provision MethodKind = iota
	// ProvisionWithError is X() (T, error).
	ProvisionWithError
	// ProviderFunc is X() func() T.
	ProviderFunc
	// ProviderObject is X() bullet.Provider[T] or X() bullet.Lazy[T].
	ProviderObject
	// Injection is X(T) or X(T) T.
	Injection
	// InjectionWithError is X(T) error.
	InjectionWithError
	// InjectorFunc is X() func(T).
	InjectorFunc
	// MembersInjector is X() bullet.MembersInjector[T].
	MembersInjector
)

func (k MethodKind) String() string {
	switch k {
	case Provision:
		return "provision"
	case ProvisionWithError:
		return "provision-with-error"
	case ProviderFunc:
		return "provider-func"
	case ProviderObject:
		return "provider"
	case Injection:
		return "injection"
	case InjectionWithError:
		return "injection-with-error"
	case InjectorFunc:
		return "injector-func"
	case MembersInjector:
		return "members-injector"
	default:
		return "unknown"
	}
}

// IsProvision reports whether the method provisions instances.
// Other methods inject members.
func (k MethodKind) IsProvision() bool {
	switch k {
	case Provision, ProvisionWithError, ProviderFunc, ProviderObject:
		return true
	default:
		return false
	}
}

// HandlerKind reports whether the method's result must be invoked before use.
func (k MethodKind) HandlerKind() plan.Kind {
	switch k {
	case ProviderFunc, ProviderObject, InjectorFunc, MembersInjector:
		return plan.Deferred
	default:
		return plan.Eager
	}
}

// Method is a component method serving one target type.
type Method struct {
	Name string
	Kind MethodKind
	// Type is the provisioned type, or the type whose members are injected.
	Type types.Type
	Pos  token.Pos
}

// ComponentDirective is a bullet.Component[T]() declaration.
type ComponentDirective struct {
	// Name is the name of the component interface type.
	Name      string
	Component types.Type
	Methods   []*Method
}

// classifyMethod returns the Method for fn, or false if fn has no recognized shape.
func classifyMethod(fn *types.Func) (*Method, bool) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Variadic() || sig.TypeParams().Len() > 0 {
		return nil, false
	}

	method := &Method{
		Name: fn.Name(),
		Pos:  fn.Pos(),
	}

	params, results := sig.Params(), sig.Results()
	switch {
	case params.Len() == 0 && results.Len() == 1:
		result := results.At(0).Type()
		if elem, ok := providerFuncElem(result); ok {
			method.Kind, method.Type = ProviderFunc, elem
		} else if elem, ok := injectorFuncElem(result); ok {
			method.Kind, method.Type = InjectorFunc, elem
		} else if elem, ok := bulletTypeArg(result, providerTypeName, lazyTypeName); ok {
			method.Kind, method.Type = ProviderObject, elem
		} else if elem, ok := bulletTypeArg(result, membersInjectorTypeName); ok {
			method.Kind, method.Type = MembersInjector, elem
		} else {
			method.Kind, method.Type = Provision, result
		}
	case params.Len() == 0 && results.Len() == 2 && isErrorType(results.At(1).Type()):
		method.Kind, method.Type = ProvisionWithError, results.At(0).Type()
	case params.Len() == 1 && results.Len() == 0:
		method.Kind, method.Type = Injection, params.At(0).Type()
	case params.Len() == 1 && results.Len() == 1 && types.Identical(params.At(0).Type(), results.At(0).Type()):
		method.Kind, method.Type = Injection, params.At(0).Type()
	case params.Len() == 1 && results.Len() == 1 && isErrorType(results.At(0).Type()):
		method.Kind, method.Type = InjectionWithError, params.At(0).Type()
	default:
		return nil, false
	}

	if isErrorType(method.Type) && method.Kind != Provision {
		// X(error) would inject into errors, and X() (error, error) is ambiguous.
		return nil, false
	}

	return method, true
}

func providerFuncElem(t types.Type) (types.Type, bool) {
	sig, ok := types.Unalias(t).(*types.Signature)
	if !ok || sig.Variadic() || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return nil, false
	}

	return sig.Results().At(0).Type(), true
}

func injectorFuncElem(t types.Type) (types.Type, bool) {
	sig, ok := types.Unalias(t).(*types.Signature)
	if !ok || sig.Variadic() || sig.Params().Len() != 1 || sig.Results().Len() != 0 {
		return nil, false
	}

	return sig.Params().At(0).Type(), true
}

// bulletTypeArg returns T when t is one of the named generic bullet types instantiated with T.
func bulletTypeArg(t types.Type, names ...string) (types.Type, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, false
	}

	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != bulletPkgPath {
		return nil, false
	}

	for _, name := range names {
		if obj.Name() == name && named.TypeArgs().Len() == 1 {
			return named.TypeArgs().At(0), true
		}
	}

	return nil, false
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// isVisibleFrom reports whether code in pkgPath can refer to every named type in t.
func isVisibleFrom(t types.Type, pkgPath string) bool {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		return true
	case *types.Pointer:
		return isVisibleFrom(typ.Elem(), pkgPath)
	case *types.Slice:
		return isVisibleFrom(typ.Elem(), pkgPath)
	case *types.Array:
		return isVisibleFrom(typ.Elem(), pkgPath)
	case *types.Chan:
		return isVisibleFrom(typ.Elem(), pkgPath)
	case *types.Map:
		return isVisibleFrom(typ.Key(), pkgPath) && isVisibleFrom(typ.Elem(), pkgPath)
	case *types.Named:
		obj := typ.Obj()
		if obj.Pkg() != nil && obj.Pkg().Path() != pkgPath && !obj.Exported() {
			return false
		}
		for arg := range typ.TypeArgs().Types() {
			if !isVisibleFrom(arg, pkgPath) {
				return false
			}
		}
		return true
	case *types.Signature:
		for v := range typ.Params().Variables() {
			if !isVisibleFrom(v.Type(), pkgPath) {
				return false
			}
		}
		for v := range typ.Results().Variables() {
			if !isVisibleFrom(v.Type(), pkgPath) {
				return false
			}
		}
		return true
	case *types.Interface:
		for m := range typ.Methods() {
			if !m.Exported() && m.Pkg() != nil && m.Pkg().Path() != pkgPath {
				return false
			}
			if !isVisibleFrom(m.Type(), pkgPath) {
				return false
			}
		}
		return true
	case *types.Struct:
		for f := range typ.Fields() {
			if !f.Exported() && f.Pkg() != nil && f.Pkg().Path() != pkgPath {
				return false
			}
			if !isVisibleFrom(f.Type(), pkgPath) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
