package bullet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReport(t *testing.T) {
	t.Parallel()

	result := resolveTestdata(t, "shapes")

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []*Report{NewReport(result)}))

	var reports []Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &reports))
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Graphs, 1)

	graph := reports[0].Graphs[0]
	assert.Equal(t, "App", graph.Component)
	assert.Equal(t, "BulletApp", graph.Type)

	require.Len(t, graph.Provisions, 5)
	assert.Equal(t, EntryReport{Type: "*Config", Method: "Config", Shape: "provision", Kind: "eager"}, graph.Provisions[0])
	assert.Equal(t, EntryReport{Type: "time.Time", Method: "Clock", Shape: "provider-func", Kind: "deferred"}, graph.Provisions[2])
	assert.Nil(t, graph.Provisions[0].Slot)

	assert.Equal(t, 7, graph.Injections.Capacity)
	require.Len(t, graph.Injections.Targets, 4)
	for i, target := range graph.Injections.Targets {
		require.NotNil(t, target.Slot)
		assert.Equal(t, i, *target.Slot)
	}
	assert.Equal(t, "*Worker", graph.Injections.Targets[1].Type)
	assert.Equal(t, "injector-func", graph.Injections.Targets[1].Shape)
	assert.Equal(t, "deferred", graph.Injections.Targets[1].Kind)
}

func TestReport_NoInjections(t *testing.T) {
	t.Parallel()

	result := resolveTestdata(t, "precedence")
	result.Graphs[0].Injections.Targets = nil

	report := NewReport(result)
	require.Len(t, report.Graphs, 1)
	assert.Zero(t, report.Graphs[0].Injections.Capacity)
	assert.Empty(t, report.Graphs[0].Injections.Targets)
}
