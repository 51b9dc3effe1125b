package bullet

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataFile(name string) string {
	return filepath.Join("testdata", name, "component.go")
}

// resolveTestdata resolves the single object graph declared in testdata/<name>.
func resolveTestdata(t *testing.T, name string) *FileResult {
	t.Helper()

	processor := NewProcessor(Options{})
	results, err := processor.Resolve(context.Background(), []string{testdataFile(name)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Graphs, 1)

	return results[0]
}

// generateTestdata returns the generated source of testdata/<name> with
// whitespace runs collapsed to a single space.
func generateTestdata(t *testing.T, name string) string {
	t.Helper()

	result := resolveTestdata(t, name)

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, result.MetaData, result.Graphs, result.varPool))

	_, err := parser.ParseFile(token.NewFileSet(), result.OutputFile, buf.Bytes(), parser.AllErrors)
	require.NoError(t, err, "generated source does not parse:\n%s", buf.String())

	require.True(t, strings.HasPrefix(buf.String(), "// Code generated by bullet. DO NOT EDIT.\n"))

	return strings.Join(strings.Fields(buf.String()), " ")
}

func targetNames(result *FileResult) []string {
	var names []string
	for _, target := range result.Graphs[0].Injections.Targets {
		typ := target.Type
		if ptr, ok := typ.(*types.Pointer); ok {
			typ = ptr.Elem()
		}
		names = append(names, typ.(*types.Named).Obj().Name())
	}

	return names
}

func TestResolve_TypePrecedence(t *testing.T) {
	t.Parallel()

	result := resolveTestdata(t, "precedence")
	graph := result.Graphs[0]

	assert.Equal(t, "SimpleComponent", graph.Component)
	assert.Equal(t, "BulletSimpleComponent", graph.TypeName)
	assert.Equal(t, "NewBulletSimpleComponent", graph.Constructor)
	assert.Equal(t, "bulletSimpleComponentTable", graph.TableVar)
	assert.Empty(t, graph.Provisions)

	assert.Equal(t, []string{"A", "C", "B", "D", "I2", "I"}, targetNames(result))
	assert.Equal(t, 11, graph.Injections.Capacity())
	for i, target := range graph.Injections.Targets {
		assert.Equal(t, i, target.Slot)
	}
}

func TestResolve_Shapes(t *testing.T) {
	t.Parallel()

	result := resolveTestdata(t, "shapes")
	graph := result.Graphs[0]

	assert.Equal(t, filepath.Join("testdata", "shapes", "component_bullet.go"), result.OutputFile)

	provisions := make([]string, 0, len(graph.Provisions))
	for _, entry := range graph.Provisions {
		provisions = append(provisions, entry.Handler.Name)
	}
	// ConfigFunc is a deferred duplicate of Config.
	assert.Equal(t, []string{"Config", "Database", "Clock", "Handler", "Lazy"}, provisions)

	injections := make([]string, 0, graph.Injections.Len())
	for _, target := range graph.Injections.Targets {
		injections = append(injections, target.Handler.Name)
	}
	// InjectService is eager and replaces ServiceInjector; Close and Variadic have no known shape.
	assert.Equal(t, []string{"InjectHandler", "WorkerInjector", "InjectService", "InjectBase"}, injections)
	assert.Equal(t, []string{"Handler", "Worker", "Service", "Base"}, targetNames(result))
	assert.Equal(t, 7, graph.Injections.Capacity())
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		errorContains string
	}{
		{name: "notinterface", errorContains: "is not an interface"},
		{name: "conflict", errorContains: "BulletApp is already declared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			processor := NewProcessor(Options{})
			_, err := processor.Resolve(context.Background(), []string{testdataFile(tt.name)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestResolve_NotImported(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(Options{})
	results, err := processor.Resolve(context.Background(), []string{testdataFile("notimported")})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResolve_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewProcessor(Options{})
	_, err := processor.Resolve(ctx, []string{testdataFile("precedence")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_TypePrecedence(t *testing.T) {
	t.Parallel()

	src := generateTestdata(t, "precedence")

	expected := []string{
		"package precedence",
		`import ( "reflect" "github.com/mazrean/bullet" "github.com/mazrean/bullet/dispatch" )`,
		"var bulletSimpleComponentTable = dispatch.MustBuild( 11, reflect.TypeFor[*A](), reflect.TypeFor[*C](), reflect.TypeFor[*B](), reflect.TypeFor[*D](), reflect.TypeFor[I2](), reflect.TypeFor[I](), )",
		"type BulletSimpleComponent struct { component SimpleComponent }",
		"var _ bullet.ObjectGraph = (*BulletSimpleComponent)(nil)",
		"func NewBulletSimpleComponent(component SimpleComponent) *BulletSimpleComponent { return &BulletSimpleComponent{component: component} }",
		`func (g *BulletSimpleComponent) Get(t reflect.Type) (any, error) { return nil, bullet.NoProvision(t, "SimpleComponent") }`,
		"switch slot, v := dispatch.Walk(bulletSimpleComponentTable, instance); slot {",
		"case 0: g.component.InjectA(v.(*A)) return instance, nil",
		"case 1: g.component.InjectC(v.(*C)) return instance, nil",
		"case 2: g.component.InjectB(v.(*B)) return instance, nil",
		"case 3: g.component.InjectD(v.(*D)) return instance, nil",
		"case 4: g.component.InjectI2(v.(I2)) return instance, nil",
		"case 5: g.component.InjectI(v.(I)) return instance, nil",
		`return nil, bullet.NoInjection(instance, "SimpleComponent") }`,
	}

	for _, want := range expected {
		assert.Contains(t, src, want)
	}
}

func TestGenerate_Shapes(t *testing.T) {
	t.Parallel()

	src := generateTestdata(t, "shapes")

	expected := []string{
		`import ( "reflect" "time" "github.com/mazrean/bullet" "github.com/mazrean/bullet/dispatch" )`,
		"var bulletAppTable = dispatch.MustBuild( 7, reflect.TypeFor[*Handler](), reflect.TypeFor[*Worker](), reflect.TypeFor[*Service](), reflect.TypeFor[*Base](), )",
		"switch t {",
		"case reflect.TypeFor[*Config](): return g.component.Config(), nil",
		"case reflect.TypeFor[*Database](): return g.component.Database()",
		"case reflect.TypeFor[time.Time](): return g.component.Clock()(), nil",
		"case reflect.TypeFor[*Handler](): return g.component.Handler().Get(), nil",
		"case reflect.TypeFor[*Service](): return g.component.Lazy().Get(), nil",
		"case 0: g.component.InjectHandler(v.(*Handler)) return instance, nil",
		"case 1: g.component.WorkerInjector()(v.(*Worker)) return instance, nil",
		"case 2: if err := g.component.InjectService(v.(*Service)); err != nil { return nil, err } return instance, nil",
		"case 3: g.component.InjectBase(v.(*Base)) return instance, nil",
	}

	for _, want := range expected {
		assert.Contains(t, src, want)
	}

	assert.NotContains(t, src, "ConfigFunc")
	assert.NotContains(t, src, "ServiceInjector")
	assert.NotContains(t, src, "Close")
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	input := testdataFile("process")
	output := filepath.Join("testdata", "process", "component_bullet.go")
	t.Cleanup(func() {
		_ = os.Remove(output)
	})

	processor := NewProcessor(Options{Jobs: 1})
	require.NoError(t, processor.ProcessFiles(context.Background(), []string{input}))

	first, err := os.ReadFile(output)
	require.NoError(t, err)

	src := strings.Join(strings.Fields(string(first)), " ")
	assert.Contains(t, src, "type BulletProcess struct { component Process }")
	assert.Contains(t, src, "var bulletProcessTable = dispatch.MustBuild( 2, reflect.TypeFor[*Base](), )")

	// The previous output is part of the package now and must not cause name conflicts.
	require.NoError(t, processor.ProcessFiles(context.Background(), []string{input}))

	second, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestProcessor_OutputFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		options  Options
		input    string
		expected string
	}{
		{name: "default suffix", input: "app.go", expected: "app_bullet.go"},
		{name: "nested path", input: filepath.Join("cmd", "app", "wire.go"), expected: filepath.Join("cmd", "app", "wire_bullet.go")},
		{name: "custom suffix", options: Options{Suffix: "_gen"}, input: "app.go", expected: "app_gen.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			processor := NewProcessor(tt.options)
			assert.Equal(t, tt.expected, processor.outputFileName(tt.input))
			assert.True(t, processor.IsOutputFile(tt.expected))
			assert.False(t, processor.IsOutputFile(tt.input))
		})
	}
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	options := Options{}.withDefaults()
	assert.Equal(t, DefaultSuffix, options.Suffix)
	assert.Equal(t, DefaultPrefix, options.Prefix)
	assert.Equal(t, DefaultJobs, options.Jobs)

	options = Options{Suffix: "_x", Prefix: "Graph", Jobs: 2}.withDefaults()
	assert.Equal(t, Options{Suffix: "_x", Prefix: "Graph", Jobs: 2}, options)
}
