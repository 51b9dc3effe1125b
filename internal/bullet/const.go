package bullet

const (
	bulletPkgPath   = "github.com/mazrean/bullet"
	bulletPkgName   = "bullet"
	dispatchPkgPath = "github.com/mazrean/bullet/dispatch"
	dispatchPkgName = "dispatch"
	reflectPkgPath  = "reflect"
	reflectPkgName  = "reflect"

	componentFuncName       = "Component"
	providerTypeName        = "Provider"
	lazyTypeName            = "Lazy"
	membersInjectorTypeName = "MembersInjector"

	generatedHeader = "// Code generated by bullet. DO NOT EDIT.\n\n"
)

var (
	goPredeclaredIdentifiers = [44]string{
		// Types
		"any", "bool", "byte", "comparable",
		"complex64", "complex128", "error", "float32", "float64",
		"int", "int8", "int16", "int32", "int64", "rune", "string",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",

		// Constants
		"true", "false", "iota",

		// Zero value
		"nil",

		// Functions
		"append", "cap", "clear", "close", "complex", "copy", "delete", "imag", "len",
		"make", "max", "min", "new", "panic", "print", "println", "real", "recover",
	}
	goReservedKeywords = [25]string{
		"break", "default", "func", "interface", "select",
		"case", "defer", "go", "map", "struct",
		"chan", "else", "goto", "package", "switch",
		"const", "fallthrough", "if", "range", "type",
		"continue", "for", "import", "return", "var",
	}
)
