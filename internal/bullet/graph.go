package bullet

import (
	"go/types"
	"log/slog"

	"github.com/mazrean/bullet/internal/pkg/errors"
	"github.com/mazrean/bullet/internal/pkg/strings"
	"github.com/mazrean/bullet/internal/plan"
)

// DefaultPrefix is prepended to component names to name generated types.
const DefaultPrefix = "Bullet"

// ObjectGraph is the generation model of one component.
type ObjectGraph struct {
	// Component is the name of the component interface.
	Component     string
	ComponentType types.Type

	TypeName    string
	Constructor string
	// TableVar is the package variable holding the injection dispatch table.
	TableVar string

	// Provisions are served by Get, one per type, in declaration order.
	Provisions []plan.Entry[types.Type, *Method]
	// Injections are served by Inject, ordered by specificity.
	Injections *plan.Plan[types.Type, *Method]
}

// CreateObjectGraph resolves the methods of directive into an ObjectGraph.
// Generated names are taken from varPool and must not collide with existing
// declarations of the package.
func CreateObjectGraph(directive *ComponentDirective, varPool *VarPool, prefix string) (*ObjectGraph, error) {
	slog.Debug("CreateObjectGraph", "component", directive.Name, "methods", len(directive.Methods))

	typeName := prefix + strings.ToUpperCamel(directive.Name)
	constructor := "New" + typeName
	for _, name := range []string{typeName, constructor} {
		if varPool.IsUsed(name) {
			return nil, errors.WithHintf(
				errors.Newf("generated name %s is already declared in the package", name),
				"rename the declaration or choose another prefix than %q", prefix,
			)
		}
		varPool.Register(name)
	}

	var provisions, injections []plan.Entry[types.Type, *Method]
	for _, method := range directive.Methods {
		entry := plan.Entry[types.Type, *Method]{
			Type:    method.Type,
			Handler: method,
			Kind:    method.Kind.HandlerKind(),
		}

		if method.Kind.IsProvision() {
			provisions = append(provisions, entry)
		} else {
			injections = append(injections, entry)
		}
	}

	hierarchy := TypeHierarchy{}
	graph := &ObjectGraph{
		Component:     directive.Name,
		ComponentType: directive.Component,
		TypeName:      typeName,
		Constructor:   constructor,
		Provisions:    plan.Dedupe(provisions, hierarchy.Same),
		Injections:    plan.Resolve(injections, hierarchy),
	}

	if graph.Injections.Len() > 0 {
		graph.TableVar = varPool.GetName(strings.ToLowerCamel(typeName) + "Table")
	}

	for _, target := range graph.Injections.Targets {
		slog.Debug("injection target",
			"component", graph.Component,
			"slot", target.Slot,
			"type", hierarchy.Name(target.Type),
			"method", target.Handler.Name,
			"kind", target.Kind,
		)
	}

	return graph, nil
}

// DeclaredNames returns the package-level names the generated code declares.
func (g *ObjectGraph) DeclaredNames() []string {
	names := []string{g.TypeName, g.Constructor}
	if g.TableVar != "" {
		names = append(names, g.TableVar)
	}

	return names
}
