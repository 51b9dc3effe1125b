package bullet

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateObjectGraph(t *testing.T) {
	t.Parallel()

	pkg := checkSource(t, `package p

type Config struct{}

type Base struct{}

type Service struct {
	Base
}
`)
	config := types.NewPointer(lookupType(t, pkg, "Config"))
	base := types.NewPointer(lookupType(t, pkg, "Base"))
	service := types.NewPointer(lookupType(t, pkg, "Service"))

	tests := []struct {
		name          string
		component     string
		methods       []*Method
		registered    []string
		prefix        string
		typeName      string
		constructor   string
		tableVar      string
		provisions    []string
		injections    []string
		errorContains string
	}{
		{
			name:      "provisions and injections",
			component: "App",
			methods: []*Method{
				{Name: "ConfigProvider", Kind: ProviderFunc, Type: config},
				{Name: "InjectBase", Kind: Injection, Type: base},
				{Name: "Config", Kind: Provision, Type: config},
				{Name: "InjectService", Kind: Injection, Type: service},
			},
			prefix:      DefaultPrefix,
			typeName:    "BulletApp",
			constructor: "NewBulletApp",
			tableVar:    "bulletAppTable",
			provisions:  []string{"Config"},
			injections:  []string{"InjectService", "InjectBase"},
		},
		{
			name:      "provisions only",
			component: "app",
			methods: []*Method{
				{Name: "Config", Kind: Provision, Type: config},
			},
			prefix:      "Graph",
			typeName:    "GraphApp",
			constructor: "NewGraphApp",
			provisions:  []string{"Config"},
		},
		{
			name:      "table variable taken",
			component: "App",
			methods: []*Method{
				{Name: "InjectBase", Kind: Injection, Type: base},
			},
			registered:  []string{"bulletAppTable"},
			prefix:      DefaultPrefix,
			typeName:    "BulletApp",
			constructor: "NewBulletApp",
			tableVar:    "bulletAppTable0",
			injections:  []string{"InjectBase"},
		},
		{
			name:          "type name taken",
			component:     "App",
			registered:    []string{"BulletApp"},
			prefix:        DefaultPrefix,
			errorContains: "generated name BulletApp is already declared",
		},
		{
			name:          "constructor taken",
			component:     "App",
			registered:    []string{"NewBulletApp"},
			prefix:        DefaultPrefix,
			errorContains: "generated name NewBulletApp is already declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewVarPool()
			for _, name := range tt.registered {
				pool.Register(name)
			}

			graph, err := CreateObjectGraph(&ComponentDirective{
				Name:    tt.component,
				Methods: tt.methods,
			}, pool, tt.prefix)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.typeName, graph.TypeName)
			assert.Equal(t, tt.constructor, graph.Constructor)
			assert.Equal(t, tt.tableVar, graph.TableVar)

			var provisions []string
			for _, entry := range graph.Provisions {
				provisions = append(provisions, entry.Handler.Name)
			}
			assert.Equal(t, tt.provisions, provisions)

			var injections []string
			for _, target := range graph.Injections.Targets {
				injections = append(injections, target.Handler.Name)
			}
			assert.Equal(t, tt.injections, injections)

			for _, name := range graph.DeclaredNames() {
				assert.True(t, pool.IsUsed(name), name)
			}
		})
	}
}
