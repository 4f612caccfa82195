package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"civic-request-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableColumnDirectives(t *testing.T) {
	spec := model.ReportSpec{
		Title:   "Requests by area",
		GroupBy: []string{model.FieldAreaName},
		Metrics: []model.MetricSpec{
			{Name: "requests_per_100k", Numerator: model.FieldTotalRequests, Denominator: model.FieldPopulation, Scale: 100000},
		},
	}

	table := BuildTable(spec, nil)

	require.Len(t, table.Columns, 5)
	assert.Equal(t, model.Column{Name: model.FieldAreaName, Aggregate: model.AggGroup}, table.Columns[0])
	assert.Equal(t, model.Column{Name: model.FieldTotalRequests, Aggregate: model.AggSum}, table.Columns[1])
	assert.Equal(t, model.Column{Name: model.FieldParentIssues, Aggregate: model.AggSum}, table.Columns[2])
	assert.Equal(t, model.Column{Name: model.FieldPopulation, Aggregate: model.AggMax}, table.Columns[3],
		"denominators re-aggregate as representative values, never sums")
	assert.Equal(t, model.Column{Name: "requests_per_100k", Aggregate: model.AggDerive}, table.Columns[4])
}

func TestCellValueRendersNaNAsPlaceholder(t *testing.T) {
	row := model.AggregateRow{Metrics: map[string]float64{"rate": math.NaN()}}
	col := model.Column{Name: "rate", Aggregate: model.AggDerive}
	assert.Equal(t, "-", CellValue(row, col))
}

func TestRenderText(t *testing.T) {
	spec := model.ReportSpec{
		Title:   "Requests by area",
		GroupBy: []string{model.FieldAreaName},
	}
	rows := []model.AggregateRow{
		{Keys: map[string]string{model.FieldAreaName: "Lakeview"}, TotalRequests: 12, ParentIssues: 9},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, BuildTable(spec, rows)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Requests by area\n"))
	assert.Contains(t, out, "area_name")
	assert.Contains(t, out, "Lakeview")
	assert.Contains(t, out, "12")
}
