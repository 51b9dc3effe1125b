package bullet

import (
	"go/types"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mazrean/bullet/internal/pkg/errors"
	"github.com/mazrean/bullet/internal/plan"
)

// Report describes the object graphs resolved from one file.
type Report struct {
	File   string        `yaml:"file"`
	Output string        `yaml:"output"`
	Graphs []GraphReport `yaml:"graphs"`
}

// GraphReport describes the provisions and dispatch plan of one object graph.
type GraphReport struct {
	Component  string         `yaml:"component"`
	Type       string         `yaml:"type"`
	Provisions []EntryReport  `yaml:"provisions"`
	Injections InjectionsPlan `yaml:"injections"`
}

// InjectionsPlan is the dispatch plan of Inject.
type InjectionsPlan struct {
	Capacity int           `yaml:"capacity"`
	Targets  []EntryReport `yaml:"targets"`
}

// EntryReport is a type served by a component method.
type EntryReport struct {
	Slot   *int   `yaml:"slot,omitempty"`
	Type   string `yaml:"type"`
	Method string `yaml:"method"`
	Shape  string `yaml:"shape"`
	Kind   string `yaml:"kind"`
}

// NewReport builds the report of result.
func NewReport(result *FileResult) *Report {
	report := &Report{
		File:   result.File,
		Output: result.OutputFile,
		Graphs: make([]GraphReport, 0, len(result.Graphs)),
	}

	pkgPath := result.MetaData.Package.Path
	qualifier := func(pkg *types.Package) string {
		if pkg.Path() == pkgPath {
			return ""
		}
		return pkg.Path()
	}

	for _, graph := range result.Graphs {
		g := GraphReport{
			Component:  graph.Component,
			Type:       graph.TypeName,
			Provisions: make([]EntryReport, 0, len(graph.Provisions)),
			Injections: InjectionsPlan{
				Targets: make([]EntryReport, 0, graph.Injections.Len()),
			},
		}

		for _, entry := range graph.Provisions {
			g.Provisions = append(g.Provisions, entryReport(entry, qualifier))
		}

		if graph.Injections.Len() > 0 {
			g.Injections.Capacity = graph.Injections.Capacity()
		}
		for _, target := range graph.Injections.Targets {
			e := entryReport(target.Entry, qualifier)
			e.Slot = &target.Slot
			g.Injections.Targets = append(g.Injections.Targets, e)
		}

		report.Graphs = append(report.Graphs, g)
	}

	return report
}

func entryReport(entry plan.Entry[types.Type, *Method], qualifier types.Qualifier) EntryReport {
	return EntryReport{
		Type:   types.TypeString(entry.Type, qualifier),
		Method: entry.Handler.Name,
		Shape:  entry.Handler.Kind.String(),
		Kind:   entry.Kind.String(),
	}
}

// WriteReports encodes reports to w as a YAML document.
func WriteReports(w io.Writer, reports []*Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return errors.Wrap(err, "encode plan report")
	}

	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "close plan report encoder")
	}

	return nil
}
