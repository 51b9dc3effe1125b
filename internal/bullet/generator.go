package bullet

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mazrean/bullet/internal/pkg/errors"
)

// generator emits the declarations of one generated file.
type generator struct {
	metaData *MetaData
	varPool  *VarPool

	bulletPkg   string
	dispatchPkg string
	reflectPkg  string
}

// Generate writes the Go source of graphs, declared in the package of metaData, to w.
func Generate(w io.Writer, metaData *MetaData, graphs []*ObjectGraph, varPool *VarPool) error {
	g := &generator{
		metaData: metaData,
		varPool:  varPool,
	}
	g.reflectPkg = g.importName(reflectPkgPath, reflectPkgName)
	g.bulletPkg = g.importName(bulletPkgPath, bulletPkgName)

	if err := g.resolveImports(graphs); err != nil {
		return err
	}

	var body bytes.Buffer
	for _, graph := range graphs {
		if err := g.writeGraph(&body, graph); err != nil {
			return errors.Wrapf(err, "generate %s", graph.TypeName)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	buf.WriteString("package " + metaData.Package.Name + "\n\n")
	buf.WriteString(g.importDecl())
	buf.WriteString("\n")
	buf.Write(body.Bytes())

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "format generated source")
	}

	if _, err := w.Write(src); err != nil {
		return errors.Wrap(err, "write generated source")
	}

	return nil
}

// importName returns the name the generated file refers to pkgPath with,
// adding the import on first use.
func (g *generator) importName(pkgPath, pkgName string) string {
	if imp, ok := g.metaData.Imports[pkgPath]; ok {
		imp.IsUsed = true
		return imp.Name
	}

	name := g.varPool.GetName(pkgName)
	g.metaData.Imports[pkgPath] = &Import{
		Name:          name,
		IsDefaultName: name == pkgName,
		IsUsed:        true,
	}

	return name
}

// resolveImports adds the imports of every type the graphs refer to, so that
// all import names are known before method-local names are chosen.
func (g *generator) resolveImports(graphs []*ObjectGraph) error {
	for _, graph := range graphs {
		refs := []types.Type{graph.ComponentType}
		for _, entry := range graph.Provisions {
			refs = append(refs, entry.Type)
		}
		if graph.TableVar != "" {
			g.dispatchName()
			for _, target := range graph.Injections.Targets {
				refs = append(refs, target.Type)
			}
		}

		for _, t := range refs {
			if _, err := g.typeExpr(t); err != nil {
				return errors.Wrapf(err, "generate %s", graph.TypeName)
			}
		}
	}

	return nil
}

// importDecl returns the import declaration of the used imports, standard
// library first.
func (g *generator) importDecl() string {
	paths := make([]string, 0, len(g.metaData.Imports))
	for path, imp := range g.metaData.Imports {
		if imp.IsUsed {
			paths = append(paths, path)
		}
	}

	slices.SortFunc(paths, func(a, b string) int {
		if aStd, bStd := isStdlib(a), isStdlib(b); aStd != bStd {
			if aStd {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	var sb strings.Builder
	sb.WriteString("import (\n")
	for i, path := range paths {
		// format.Source sorts each group of imports separated by a blank line.
		if i > 0 && isStdlib(paths[i-1]) && !isStdlib(path) {
			sb.WriteString("\n")
		}

		sb.WriteString("\t")
		if imp := g.metaData.Imports[path]; !imp.IsDefaultName {
			sb.WriteString(imp.Name + " ")
		}
		sb.WriteString(strconv.Quote(path) + "\n")
	}
	sb.WriteString(")\n")

	return sb.String()
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

func (g *generator) writeGraph(buf *bytes.Buffer, graph *ObjectGraph) error {
	componentExpr, err := g.typeExpr(graph.ComponentType)
	if err != nil {
		return errors.Wrap(err, "component type")
	}

	// Identifiers local to the methods must not shadow package-level or import names.
	locals := g.varPool.Clone()
	for _, imp := range g.metaData.Imports {
		locals.Register(imp.Name)
	}
	names := methodNames{
		recv:      locals.GetName("g"),
		field:     "component",
		param:     locals.GetName("component"),
		typ:       locals.GetName("t"),
		instance:  locals.GetName("instance"),
		slot:      locals.GetName("slot"),
		value:     locals.GetName("v"),
		err:       locals.GetName("err"),
		component: strconv.Quote(graph.Component),
	}

	if graph.TableVar != "" {
		table, err := g.tableDecl(graph)
		if err != nil {
			return err
		}
		buf.WriteString(table)
		buf.WriteString("\n\n")
	}

	getDecl, err := g.getDecl(graph, names)
	if err != nil {
		return err
	}

	injectDecl, err := g.injectDecl(graph, names)
	if err != nil {
		return err
	}

	decls := []docDecl{
		{
			doc:  "// " + graph.TypeName + " is the object graph of the " + graph.Component + " component.",
			decl: g.typeDecl(graph, names, componentExpr),
		},
		{decl: g.assertDecl(graph)},
		{
			doc:  "// " + graph.Constructor + " creates the object graph backed by " + names.param + ".",
			decl: g.constructorDecl(graph, names, componentExpr),
		},
		{
			doc:  "// Get returns an instance of " + names.typ + " provisioned by the component.",
			decl: getDecl,
		},
		{
			doc:  "// Inject injects the members of " + names.instance + " with the most specific injection method.",
			decl: injectDecl,
		},
	}

	for _, d := range decls {
		if d.doc != "" {
			buf.WriteString(d.doc + "\n")
		}
		if err := writeNode(buf, d.decl); err != nil {
			return err
		}
		buf.WriteString("\n\n")
	}

	return nil
}

type docDecl struct {
	doc  string
	decl ast.Decl
}

type methodNames struct {
	recv      string
	field     string
	param     string
	typ       string
	instance  string
	slot      string
	value     string
	err       string
	component string
}

func (g *generator) tableDecl(graph *ObjectGraph) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("var " + graph.TableVar + " = " + g.dispatchName() + ".MustBuild(\n")
	buf.WriteString("\t" + strconv.Itoa(graph.Injections.Capacity()) + ",\n")

	for _, target := range graph.Injections.Targets {
		expr, err := g.typeForExpr(target.Type)
		if err != nil {
			return "", errors.Wrapf(err, "injection target %s", target.Handler.Name)
		}

		buf.WriteString("\t")
		if err := writeNode(&buf, expr); err != nil {
			return "", err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(")")

	return buf.String(), nil
}

func (g *generator) dispatchName() string {
	if g.dispatchPkg == "" {
		g.dispatchPkg = g.importName(dispatchPkgPath, dispatchPkgName)
	}

	return g.dispatchPkg
}

// typeForExpr returns reflect.TypeFor[t]().
func (g *generator) typeForExpr(t types.Type) (ast.Expr, error) {
	expr, err := g.typeExpr(t)
	if err != nil {
		return nil, err
	}

	return &ast.CallExpr{
		Fun: &ast.IndexExpr{
			X:     &ast.SelectorExpr{X: ast.NewIdent(g.reflectPkg), Sel: ast.NewIdent("TypeFor")},
			Index: expr,
		},
	}, nil
}

func (g *generator) typeExpr(t types.Type) (ast.Expr, error) {
	return createASTTypeExpr(g.metaData.Package.Path, t, g.varPool, g.metaData.Imports)
}

func (g *generator) typeDecl(graph *ObjectGraph, names methodNames, componentExpr ast.Expr) ast.Decl {
	return &ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{
			&ast.TypeSpec{
				Name: ast.NewIdent(graph.TypeName),
				Type: &ast.StructType{
					Fields: &ast.FieldList{
						List: []*ast.Field{
							{
								Names: []*ast.Ident{ast.NewIdent(names.field)},
								Type:  componentExpr,
							},
						},
					},
				},
			},
		},
	}
}

// assertDecl returns var _ bullet.ObjectGraph = (*T)(nil).
func (g *generator) assertDecl(graph *ObjectGraph) ast.Decl {
	return &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{
			&ast.ValueSpec{
				Names: []*ast.Ident{ast.NewIdent("_")},
				Type:  &ast.SelectorExpr{X: ast.NewIdent(g.bulletPkg), Sel: ast.NewIdent("ObjectGraph")},
				Values: []ast.Expr{
					&ast.CallExpr{
						Fun:  &ast.ParenExpr{X: &ast.StarExpr{X: ast.NewIdent(graph.TypeName)}},
						Args: []ast.Expr{ast.NewIdent("nil")},
					},
				},
			},
		},
	}
}

func (g *generator) constructorDecl(graph *ObjectGraph, names methodNames, componentExpr ast.Expr) ast.Decl {
	return &ast.FuncDecl{
		Name: ast.NewIdent(graph.Constructor),
		Type: &ast.FuncType{
			Params: &ast.FieldList{
				List: []*ast.Field{
					{Names: []*ast.Ident{ast.NewIdent(names.param)}, Type: componentExpr},
				},
			},
			Results: &ast.FieldList{
				List: []*ast.Field{
					{Type: &ast.StarExpr{X: ast.NewIdent(graph.TypeName)}},
				},
			},
		},
		Body: &ast.BlockStmt{
			List: []ast.Stmt{
				&ast.ReturnStmt{
					Results: []ast.Expr{
						&ast.UnaryExpr{
							Op: token.AND,
							X: &ast.CompositeLit{
								Type: ast.NewIdent(graph.TypeName),
								Elts: []ast.Expr{
									&ast.KeyValueExpr{Key: ast.NewIdent(names.field), Value: ast.NewIdent(names.param)},
								},
							},
						},
					},
				},
			},
		},
	}
}

func (g *generator) methodDecl(graph *ObjectGraph, names methodNames, name string, params []*ast.Field, body []ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{
		Recv: &ast.FieldList{
			List: []*ast.Field{
				{
					Names: []*ast.Ident{ast.NewIdent(names.recv)},
					Type:  &ast.StarExpr{X: ast.NewIdent(graph.TypeName)},
				},
			},
		},
		Name: ast.NewIdent(name),
		Type: &ast.FuncType{
			Params: &ast.FieldList{List: params},
			Results: &ast.FieldList{
				List: []*ast.Field{
					{Type: ast.NewIdent("any")},
					{Type: ast.NewIdent("error")},
				},
			},
		},
		Body: &ast.BlockStmt{List: body},
	}
}

// componentCall returns g.component.<method>().
func componentCall(names methodNames, method *Method, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X: &ast.SelectorExpr{
				X:   ast.NewIdent(names.recv),
				Sel: ast.NewIdent(names.field),
			},
			Sel: ast.NewIdent(method.Name),
		},
		Args: args,
	}
}

func (g *generator) getDecl(graph *ObjectGraph, names methodNames) (ast.Decl, error) {
	var body []ast.Stmt

	if len(graph.Provisions) > 0 {
		clauses := make([]ast.Stmt, 0, len(graph.Provisions))
		for _, entry := range graph.Provisions {
			typeFor, err := g.typeForExpr(entry.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "provision %s", entry.Handler.Name)
			}

			clauses = append(clauses, &ast.CaseClause{
				List: []ast.Expr{typeFor},
				Body: []ast.Stmt{provisionStmt(names, entry.Handler)},
			})
		}

		body = append(body, &ast.SwitchStmt{
			Tag:  ast.NewIdent(names.typ),
			Body: &ast.BlockStmt{List: clauses},
		})
	}

	body = append(body, &ast.ReturnStmt{
		Results: []ast.Expr{
			ast.NewIdent("nil"),
			&ast.CallExpr{
				Fun:  &ast.SelectorExpr{X: ast.NewIdent(g.bulletPkg), Sel: ast.NewIdent("NoProvision")},
				Args: []ast.Expr{ast.NewIdent(names.typ), &ast.BasicLit{Kind: token.STRING, Value: names.component}},
			},
		},
	})

	params := []*ast.Field{
		{
			Names: []*ast.Ident{ast.NewIdent(names.typ)},
			Type:  &ast.SelectorExpr{X: ast.NewIdent(g.reflectPkg), Sel: ast.NewIdent("Type")},
		},
	}

	return g.methodDecl(graph, names, "Get", params, body), nil
}

func provisionStmt(names methodNames, method *Method) ast.Stmt {
	call := componentCall(names, method)

	switch method.Kind {
	case ProvisionWithError:
		return &ast.ReturnStmt{Results: []ast.Expr{call}}
	case ProviderFunc:
		return &ast.ReturnStmt{Results: []ast.Expr{&ast.CallExpr{Fun: call}, ast.NewIdent("nil")}}
	case ProviderObject:
		return &ast.ReturnStmt{Results: []ast.Expr{
			&ast.CallExpr{Fun: &ast.SelectorExpr{X: call, Sel: ast.NewIdent("Get")}},
			ast.NewIdent("nil"),
		}}
	default:
		return &ast.ReturnStmt{Results: []ast.Expr{call, ast.NewIdent("nil")}}
	}
}

func (g *generator) injectDecl(graph *ObjectGraph, names methodNames) (ast.Decl, error) {
	var body []ast.Stmt

	if graph.Injections.Len() > 0 {
		clauses := make([]ast.Stmt, 0, graph.Injections.Len())
		for _, target := range graph.Injections.Targets {
			targetExpr, err := g.typeExpr(target.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "injection %s", target.Handler.Name)
			}

			arg := &ast.TypeAssertExpr{X: ast.NewIdent(names.value), Type: targetExpr}

			clauses = append(clauses, &ast.CaseClause{
				List: []ast.Expr{&ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(target.Slot)}},
				Body: injectionStmts(names, target.Handler, arg),
			})
		}

		body = append(body, &ast.SwitchStmt{
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{ast.NewIdent(names.slot), ast.NewIdent(names.value)},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{
					&ast.CallExpr{
						Fun:  &ast.SelectorExpr{X: ast.NewIdent(g.dispatchName()), Sel: ast.NewIdent("Walk")},
						Args: []ast.Expr{ast.NewIdent(graph.TableVar), ast.NewIdent(names.instance)},
					},
				},
			},
			Tag:  ast.NewIdent(names.slot),
			Body: &ast.BlockStmt{List: clauses},
		})
	}

	body = append(body, &ast.ReturnStmt{
		Results: []ast.Expr{
			ast.NewIdent("nil"),
			&ast.CallExpr{
				Fun:  &ast.SelectorExpr{X: ast.NewIdent(g.bulletPkg), Sel: ast.NewIdent("NoInjection")},
				Args: []ast.Expr{ast.NewIdent(names.instance), &ast.BasicLit{Kind: token.STRING, Value: names.component}},
			},
		},
	})

	params := []*ast.Field{
		{
			Names: []*ast.Ident{ast.NewIdent(names.instance)},
			Type:  ast.NewIdent("any"),
		},
	}

	return g.methodDecl(graph, names, "Inject", params, body), nil
}

func injectionStmts(names methodNames, method *Method, arg ast.Expr) []ast.Stmt {
	success := &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent(names.instance), ast.NewIdent("nil")}}

	var call *ast.CallExpr
	switch method.Kind {
	case InjectionWithError:
		errIdent := ast.NewIdent(names.err)
		return []ast.Stmt{
			&ast.IfStmt{
				Init: &ast.AssignStmt{
					Lhs: []ast.Expr{errIdent},
					Tok: token.DEFINE,
					Rhs: []ast.Expr{componentCall(names, method, arg)},
				},
				Cond: &ast.BinaryExpr{X: ast.NewIdent(names.err), Op: token.NEQ, Y: ast.NewIdent("nil")},
				Body: &ast.BlockStmt{List: []ast.Stmt{
					&ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("nil"), ast.NewIdent(names.err)}},
				}},
			},
			success,
		}
	case InjectorFunc:
		call = &ast.CallExpr{Fun: componentCall(names, method), Args: []ast.Expr{arg}}
	case MembersInjector:
		call = &ast.CallExpr{
			Fun:  &ast.SelectorExpr{X: componentCall(names, method), Sel: ast.NewIdent("InjectMembers")},
			Args: []ast.Expr{arg},
		}
	default:
		call = componentCall(names, method, arg)
	}

	return []ast.Stmt{&ast.ExprStmt{X: call}, success}
}

func writeNode(buf *bytes.Buffer, node any) error {
	if err := format.Node(buf, token.NewFileSet(), node); err != nil {
		return errors.Wrap(err, "print node")
	}

	return nil
}
