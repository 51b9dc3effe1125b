package bullet

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/packages"

	"github.com/mazrean/bullet/internal/pkg/errors"
)

// Parser analyzes Go source code to find bullet.Component directives.
type Parser struct {
	fset *token.FileSet
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{
		fset: token.NewFileSet(),
	}
}

// ParseFile parses a Go file and extracts component directives.
// Declarations of the package in excludeFile, usually a previously generated
// file, are ignored when collecting names already in use.
func (p *Parser) ParseFile(filename, excludeFile string) (*MetaData, []*ComponentDirective, *VarPool, error) {
	pkg, err := p.loadPackage(filename)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load package")
	}

	slog.Debug("package", "pkg", pkg.PkgPath, "filename", filename)

	if _, ok := pkg.Imports[bulletPkgPath]; !ok {
		slog.Warn("bullet package is not imported", "filename", filename)
		return nil, nil, nil, nil
	}

	targetFile, err := p.findSyntax(pkg, filename)
	if err != nil {
		return nil, nil, nil, err
	}

	metaData := &MetaData{
		Package: Package{
			Name: pkg.Name,
			Path: pkg.PkgPath,
		},
		Imports:     make(map[string]*Import),
		FileImports: p.fileImportNames(pkg, excludeFile),
	}

	directives, err := p.findComponentDirectives(targetFile, pkg)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "find component directives")
	}

	return metaData, directives, p.scopeVarPool(pkg, excludeFile), nil
}

// loadPackage loads the package containing filename with full type information.
func (p *Parser) loadPackage(filename string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes |
			packages.NeedSyntax | packages.NeedTypesInfo,
		Fset: p.fset,
	}

	pkgs, err := packages.Load(cfg, "file="+filename)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}

	// Allow some errors but continue if we have valid packages
	errorCount := packages.PrintErrors(pkgs)
	if errorCount > 0 && len(pkgs) == 0 {
		return nil, errors.New("package loading errors occurred and no packages loaded")
	}

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "absolute path of %s", filename)
	}

	for _, pkg := range pkgs {
		for _, goFile := range pkg.GoFiles {
			absGoFile, err := filepath.Abs(goFile)
			if err != nil {
				slog.Debug("failed to get absolute filename", "error", err, "filename", goFile)
				continue
			}

			if absGoFile == absFilename {
				return pkg, nil
			}
		}
	}

	return nil, errors.WithHint(
		errors.Newf("file %s is not part of a loaded package", filename),
		"run bullet from inside the module that contains the file",
	)
}

func (p *Parser) findSyntax(pkg *packages.Package, filename string) (*ast.File, error) {
	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "absolute path of %s", filename)
	}

	for _, f := range pkg.Syntax {
		if f == nil {
			continue
		}

		absFile, err := filepath.Abs(p.fset.Position(f.Pos()).Filename)
		if err == nil && absFile == absFilename {
			return f, nil
		}
	}

	return nil, errors.New("target file not found in package syntax")
}

// findComponentDirectives finds all bullet.Component calls in the file.
func (p *Parser) findComponentDirectives(file *ast.File, pkg *packages.Package) ([]*ComponentDirective, error) {
	var (
		directives []*ComponentDirective
		parseErr   error
	)

	ast.Inspect(file, func(n ast.Node) bool {
		if parseErr != nil {
			return false
		}

		callExpr, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		ident := componentFuncIdent(callExpr)
		if ident == nil || !isComponentFunc(pkg.TypesInfo.Uses[ident]) {
			return true
		}

		instance, ok := pkg.TypesInfo.Instances[ident]
		if !ok || instance.TypeArgs.Len() != 1 {
			parseErr = errors.Newf("%s: bullet.Component requires exactly one type argument", p.fset.Position(callExpr.Pos()))
			return false
		}

		directive, err := p.parseComponent(instance.TypeArgs.At(0), pkg.PkgPath)
		if err != nil {
			parseErr = errors.Wrapf(err, "%s", p.fset.Position(callExpr.Pos()))
			return false
		}

		directives = append(directives, directive)
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return directives, nil
}

// componentFuncIdent returns the identifier of Fun in calls shaped like pkg.Func[T]().
func componentFuncIdent(callExpr *ast.CallExpr) *ast.Ident {
	var fun ast.Expr
	switch f := callExpr.Fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
	case *ast.IndexListExpr:
		fun = f.X
	default:
		return nil
	}

	switch f := fun.(type) {
	case *ast.SelectorExpr:
		return f.Sel
	case *ast.Ident:
		return f
	default:
		return nil
	}
}

func isComponentFunc(obj types.Object) bool {
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}

	fn = fn.Origin()
	return fn.Pkg() != nil && fn.Pkg().Path() == bulletPkgPath && fn.Name() == componentFuncName
}

// parseComponent collects the provision and injection methods of the component type.
func (p *Parser) parseComponent(component types.Type, pkgPath string) (*ComponentDirective, error) {
	named, ok := types.Unalias(component).(*types.Named)
	if !ok {
		return nil, errors.WithHint(
			errors.Newf("component %s is not a named type", component),
			"declare the component as a named interface type",
		)
	}

	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil, errors.WithHint(
			errors.Newf("component %s is not an interface", named.Obj().Name()),
			"declare the component with bullet.Component[T]() where T is an interface",
		)
	}

	if named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0 {
		return nil, errors.Newf("component %s must be instantiated", named.Obj().Name())
	}

	directive := &ComponentDirective{
		Name:      named.Obj().Name(),
		Component: component,
	}

	for fn := range iface.Methods() {
		if !fn.Exported() && (fn.Pkg() == nil || fn.Pkg().Path() != pkgPath) {
			slog.Debug("skip invisible method", "component", directive.Name, "method", fn.Name())
			continue
		}

		method, ok := classifyMethod(fn)
		if !ok {
			slog.Debug("skip method with unsupported signature", "component", directive.Name, "method", fn.Name())
			continue
		}

		if !isVisibleFrom(method.Type, pkgPath) {
			slog.Debug("skip method with invisible type", "component", directive.Name, "method", fn.Name(), "type", method.Type)
			continue
		}

		directive.Methods = append(directive.Methods, method)
	}

	// Interface methods are sorted by name; restore declaration order.
	slices.SortStableFunc(directive.Methods, func(a, b *Method) int {
		return int(a.Pos) - int(b.Pos)
	})

	return directive, nil
}

// scopeVarPool returns a VarPool holding every package-level name of pkg
// except those declared in excludeFile.
func (p *Parser) scopeVarPool(pkg *packages.Package, excludeFile string) *VarPool {
	pool := NewVarPool()

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		if obj := scope.Lookup(name); p.inFile(obj.Pos(), excludeFile) {
			continue
		}

		pool.Register(name)
	}

	return pool
}

// fileImportNames returns the names imported by the files of pkg other than excludeFile.
// No package-level declaration may reuse them.
func (p *Parser) fileImportNames(pkg *packages.Package, excludeFile string) []string {
	var names []string
	for _, f := range pkg.Syntax {
		if f == nil || p.inFile(f.Pos(), excludeFile) {
			continue
		}

		for _, imp := range f.Imports {
			obj := pkg.TypesInfo.Implicits[imp]
			if imp.Name != nil {
				names = append(names, imp.Name.Name)
			} else if obj != nil {
				names = append(names, obj.Name())
			}
		}
	}

	slices.Sort(names)
	return slices.Compact(names)
}

func (p *Parser) inFile(pos token.Pos, filename string) bool {
	if filename == "" || !pos.IsValid() {
		return false
	}

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return false
	}

	abs, err := filepath.Abs(p.fset.Position(pos).Filename)
	return err == nil && abs == absFilename
}
