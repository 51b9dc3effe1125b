package bullet

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/mazrean/bullet/internal/pkg/errors"
)

// createASTTypeExpr creates an AST type expression for t as written in package pkg.
// Packages referred to by t are added to imports.
func createASTTypeExpr(pkg string, t types.Type, varPool *VarPool, imports map[string]*Import) (ast.Expr, error) {
	switch typ := t.(type) {
	case *types.Basic:
		return ast.NewIdent(typ.Name()), nil
	case *types.Pointer:
		expr, err := createASTTypeExpr(pkg, typ.Elem(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "pointer element")
		}

		return &ast.StarExpr{X: expr}, nil
	case *types.Named:
		expr := qualifiedIdent(pkg, typ.Obj(), varPool, imports)
		if typ.TypeArgs().Len() == 0 {
			return expr, nil
		}

		args := make([]ast.Expr, 0, typ.TypeArgs().Len())
		for arg := range typ.TypeArgs().Types() {
			argExpr, err := createASTTypeExpr(pkg, arg, varPool, imports)
			if err != nil {
				return nil, errors.Wrapf(err, "type argument of %s", typ.Obj().Name())
			}
			args = append(args, argExpr)
		}

		if len(args) == 1 {
			return &ast.IndexExpr{X: expr, Index: args[0]}, nil
		}
		return &ast.IndexListExpr{X: expr, Indices: args}, nil
	case *types.Alias:
		if typ.TypeArgs().Len() > 0 {
			return createASTTypeExpr(pkg, types.Unalias(typ), varPool, imports)
		}

		return qualifiedIdent(pkg, typ.Obj(), varPool, imports), nil
	case *types.Slice:
		expr, err := createASTTypeExpr(pkg, typ.Elem(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "slice element")
		}

		return &ast.ArrayType{Elt: expr}, nil
	case *types.Array:
		expr, err := createASTTypeExpr(pkg, typ.Elem(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}

		return &ast.ArrayType{
			Len: &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(typ.Len(), 10)},
			Elt: expr,
		}, nil
	case *types.Map:
		keyExpr, err := createASTTypeExpr(pkg, typ.Key(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}
		valueExpr, err := createASTTypeExpr(pkg, typ.Elem(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "map value")
		}

		return &ast.MapType{Key: keyExpr, Value: valueExpr}, nil
	case *types.Chan:
		var dir ast.ChanDir
		switch typ.Dir() {
		case types.SendRecv:
			dir = ast.SEND | ast.RECV
		case types.SendOnly:
			dir = ast.SEND
		case types.RecvOnly:
			dir = ast.RECV
		}

		expr, err := createASTTypeExpr(pkg, typ.Elem(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "chan element")
		}

		return &ast.ChanType{Dir: dir, Value: expr}, nil
	case *types.Signature:
		params, err := fieldList(pkg, typ.Params(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "params")
		}
		results, err := fieldList(pkg, typ.Results(), varPool, imports)
		if err != nil {
			return nil, errors.Wrap(err, "results")
		}

		if typ.Variadic() {
			last := params.List[len(params.List)-1]
			last.Type = &ast.Ellipsis{Elt: last.Type.(*ast.ArrayType).Elt}
		}

		return &ast.FuncType{Params: params, Results: results}, nil
	case *types.Interface:
		methods := &ast.FieldList{}
		for method := range typ.ExplicitMethods() {
			expr, err := createASTTypeExpr(pkg, method.Signature(), varPool, imports)
			if err != nil {
				return nil, errors.Wrapf(err, "method %s", method.Name())
			}

			methods.List = append(methods.List, &ast.Field{
				Names: []*ast.Ident{ast.NewIdent(method.Name())},
				Type:  expr,
			})
		}
		for embedded := range typ.EmbeddedTypes() {
			expr, err := createASTTypeExpr(pkg, embedded, varPool, imports)
			if err != nil {
				return nil, errors.Wrap(err, "embedded type")
			}

			methods.List = append(methods.List, &ast.Field{Type: expr})
		}

		return &ast.InterfaceType{Methods: methods}, nil
	case *types.Struct:
		fields := &ast.FieldList{}
		for field := range typ.Fields() {
			expr, err := createASTTypeExpr(pkg, field.Type(), varPool, imports)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", field.Name())
			}

			f := &ast.Field{Type: expr}
			if !field.Embedded() {
				f.Names = []*ast.Ident{ast.NewIdent(field.Name())}
			}
			fields.List = append(fields.List, f)
		}

		return &ast.StructType{Fields: fields}, nil
	default:
		return nil, errors.Newf("unsupported type: %s", t.String())
	}
}

func fieldList(pkg string, tuple *types.Tuple, varPool *VarPool, imports map[string]*Import) (*ast.FieldList, error) {
	list := &ast.FieldList{}
	for v := range tuple.Variables() {
		expr, err := createASTTypeExpr(pkg, v.Type(), varPool, imports)
		if err != nil {
			return nil, err
		}

		list.List = append(list.List, &ast.Field{Type: expr})
	}

	return list, nil
}

// qualifiedIdent returns the name of obj, qualified with an import name when
// obj belongs to another package than pkg.
func qualifiedIdent(pkg string, obj types.Object, varPool *VarPool, imports map[string]*Import) ast.Expr {
	objPkg := obj.Pkg()
	if objPkg == nil || objPkg.Path() == pkg {
		return ast.NewIdent(obj.Name())
	}

	imp, ok := imports[objPkg.Path()]
	if !ok {
		name := varPool.GetName(objPkg.Name())
		imp = &Import{
			Name:          name,
			IsDefaultName: name == objPkg.Name(),
		}
		imports[objPkg.Path()] = imp
	}
	imp.IsUsed = true

	return &ast.SelectorExpr{
		X:   ast.NewIdent(imp.Name),
		Sel: ast.NewIdent(obj.Name()),
	}
}
