package report

import (
	"math"
	"testing"

	"civic-request-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveZeroNumerator(t *testing.T) {
	q := &model.Quality{}
	assert.Equal(t, 0.0, Derive(0, 5, 100000, q))
	assert.Zero(t, q.ZeroDenominators)
}

func TestDeriveZeroDenominatorYieldsNaN(t *testing.T) {
	q := &model.Quality{}
	v := Derive(5, 0, 1, q)
	assert.True(t, math.IsNaN(v), "zero denominator is a NaN cell, not a panic")
	assert.Equal(t, 1, q.ZeroDenominators)
}

func TestDeriveMetricsComputesDeclaredRatios(t *testing.T) {
	rows := []model.AggregateRow{
		{
			Keys:          map[string]string{model.FieldAreaName: "Lakeview"},
			TotalRequests: 200,
			ParentIssues:  150,
			Population:    2700000,
			AreaSqMi:      50,
		},
	}
	specs := []model.MetricSpec{
		{Name: "requests_per_100k", Numerator: model.FieldTotalRequests, Denominator: model.FieldPopulation, Scale: 100000},
		{Name: "parent_issues_per_sqmi", Numerator: model.FieldParentIssues, Denominator: model.FieldAreaSqMi, Scale: 1},
	}

	q := &model.Quality{}
	require.NoError(t, DeriveMetrics(rows, specs, q))

	assert.InDelta(t, 7.407, rows[0].Metrics["requests_per_100k"], 0.001)
	assert.Equal(t, 3.0, rows[0].Metrics["parent_issues_per_sqmi"])
}

func TestDeriveMetricsRejectsUnknownFields(t *testing.T) {
	rows := []model.AggregateRow{{TotalRequests: 1}}

	err := DeriveMetrics(rows, []model.MetricSpec{
		{Name: "bad", Numerator: "created_at", Denominator: model.FieldPopulation, Scale: 1},
	}, &model.Quality{})
	require.Error(t, err)

	err = DeriveMetrics(rows, []model.MetricSpec{
		{Name: "bad", Numerator: model.FieldTotalRequests, Denominator: "request_type", Scale: 1},
	}, &model.Quality{})
	require.Error(t, err)
}

func TestCarryFieldsDeduplicatesDenominators(t *testing.T) {
	specs := []model.MetricSpec{
		{Name: "a", Numerator: model.FieldTotalRequests, Denominator: model.FieldPopulation, Scale: 100000},
		{Name: "b", Numerator: model.FieldParentIssues, Denominator: model.FieldPopulation, Scale: 100000},
		{Name: "c", Numerator: model.FieldParentIssues, Denominator: model.FieldAreaSqMi, Scale: 1},
	}
	assert.Equal(t, []string{model.FieldPopulation, model.FieldAreaSqMi}, CarryFields(specs))
}
