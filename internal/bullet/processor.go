package bullet

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mazrean/bullet/internal/pkg/errors"
)

const (
	// DefaultSuffix is appended to the input file name to name the generated file.
	DefaultSuffix = "_bullet"
	// DefaultJobs is the default number of files generated concurrently.
	DefaultJobs = 4
)

// Options configures a Processor.
type Options struct {
	// Suffix is appended to the input file name, before the extension.
	Suffix string
	// Prefix is prepended to component names to name generated types.
	Prefix string
	// Jobs bounds the number of files processed concurrently.
	Jobs int
}

func (o Options) withDefaults() Options {
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs
	}

	return o
}

// Processor handles the overall object graph code generation process.
type Processor struct {
	parser  *Parser
	options Options
}

// NewProcessor creates a new processor instance.
func NewProcessor(options Options) *Processor {
	return &Processor{
		parser:  NewParser(),
		options: options.withDefaults(),
	}
}

// FileResult holds the object graphs resolved from one input file.
type FileResult struct {
	File       string
	OutputFile string
	MetaData   *MetaData
	Graphs     []*ObjectGraph

	varPool *VarPool
}

// ProcessFiles generates the object graphs declared in files.
func (p *Processor) ProcessFiles(ctx context.Context, files []string) error {
	results, err := p.Resolve(ctx, files)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.options.Jobs)
	for _, result := range results {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return p.writeFile(result)
		})
	}

	return eg.Wait()
}

// Resolve parses files and resolves their object graphs without writing anything.
// Files without components are left out of the results.
func (p *Processor) Resolve(ctx context.Context, files []string) ([]*FileResult, error) {
	results := make([]*FileResult, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.options.Jobs)
	for i, filename := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := p.resolveFile(filename)
			if err != nil {
				return errors.Wrapf(err, "parse file %s", filename)
			}

			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	resolved := make([]*FileResult, 0, len(results))
	for _, result := range results {
		if result != nil {
			resolved = append(resolved, result)
		}
	}

	return resolved, nil
}

// resolveFile resolves the object graphs of a single Go file.
func (p *Processor) resolveFile(filename string) (*FileResult, error) {
	slog.Debug("Processing file", "file", filename)

	outputFileName := p.outputFileName(filename)
	slog.Debug("outputFileName", "outputFileName", outputFileName)

	metaData, directives, varPool, err := p.parser.ParseFile(filename, outputFileName)
	if err != nil {
		return nil, err
	}

	if len(directives) == 0 {
		return nil, nil
	}

	slog.Info("Found component directives", "file", filename, "count", len(directives))

	// Generated declarations share the package block with the imports of every file.
	declPool := varPool.Clone()
	for _, name := range metaData.FileImports {
		declPool.Register(name)
	}

	graphs := make([]*ObjectGraph, 0, len(directives))
	for _, directive := range directives {
		graph, err := CreateObjectGraph(directive, declPool, p.options.Prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "create object graph of %s", directive.Name)
		}

		for _, name := range graph.DeclaredNames() {
			varPool.Register(name)
		}
		graphs = append(graphs, graph)
	}

	return &FileResult{
		File:       filename,
		OutputFile: outputFileName,
		MetaData:   metaData,
		Graphs:     graphs,
		varPool:    varPool,
	}, nil
}

func (p *Processor) writeFile(result *FileResult) error {
	var buf bytes.Buffer
	if err := Generate(&buf, result.MetaData, result.Graphs, result.varPool); err != nil {
		return errors.Wrapf(err, "generate %s", result.OutputFile)
	}

	if err := os.WriteFile(result.OutputFile, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write file %s", result.OutputFile)
	}

	slog.Info("Generated", "file", result.OutputFile, "graphs", len(result.Graphs))

	return nil
}

// IsOutputFile reports whether filename is named like a generated file.
func (p *Processor) IsOutputFile(filename string) bool {
	return strings.HasSuffix(strings.TrimSuffix(filename, filepath.Ext(filename)), p.options.Suffix)
}

func (p *Processor) outputFileName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + p.options.Suffix + ext
}
