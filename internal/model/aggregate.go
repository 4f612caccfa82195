package model

import (
	"encoding/json"
	"math"
)

// Field names shared between grouping keys, carried denominators, metric
// specs and table columns.
const (
	FieldAreaName      = "area_name"
	FieldRequestType   = "request_type"
	FieldTotalRequests = "total_requests"
	FieldParentIssues  = "parent_issues"
	FieldPopulation    = "estimated_population"
	FieldAreaSqMi      = "area_sq_mi"
)

// AggregateRow is one summary row per distinct combination of grouping-key
// values. Population and AreaSqMi are representative values (constant across
// the group's records), never sums.
type AggregateRow struct {
	Keys          map[string]string  `json:"keys"`
	TotalRequests int64              `json:"total_requests"`
	ParentIssues  int64              `json:"parent_issues"`
	Population    int64              `json:"estimated_population,omitempty"`
	AreaSqMi      float64            `json:"area_sq_mi,omitempty"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// MarshalJSON renders NaN metric cells (zero denominators) as null, since
// JSON has no NaN.
func (r AggregateRow) MarshalJSON() ([]byte, error) {
	metrics := make(map[string]*float64, len(r.Metrics))
	for name, v := range r.Metrics {
		if math.IsNaN(v) {
			metrics[name] = nil
			continue
		}
		value := v
		metrics[name] = &value
	}
	type row struct {
		Keys          map[string]string   `json:"keys"`
		TotalRequests int64               `json:"total_requests"`
		ParentIssues  int64               `json:"parent_issues"`
		Population    int64               `json:"estimated_population,omitempty"`
		AreaSqMi      float64             `json:"area_sq_mi,omitempty"`
		Metrics       map[string]*float64 `json:"metrics,omitempty"`
	}
	return json.Marshal(row{
		Keys:          r.Keys,
		TotalRequests: r.TotalRequests,
		ParentIssues:  r.ParentIssues,
		Population:    r.Population,
		AreaSqMi:      r.AreaSqMi,
		Metrics:       metrics,
	})
}

// MetricSpec declares one derived ratio: numerator/denominator*scale.
type MetricSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Numerator   string  `json:"numerator" yaml:"numerator"`
	Denominator string  `json:"denominator" yaml:"denominator"`
	Scale       float64 `json:"scale" yaml:"scale"`
}

// RankSpec configures threshold filtering and top-N-per-partition ranking.
type RankSpec struct {
	MinTotalRequests int64  `json:"minTotalRequests" yaml:"minTotalRequests"`
	PartitionBy      string `json:"partitionBy,omitempty" yaml:"partitionBy"`
	TopN             int    `json:"topN,omitempty" yaml:"topN"`
	SortBy           string `json:"sortBy" yaml:"sortBy"`
	Descending       bool   `json:"descending" yaml:"descending"`
}

// Column aggregation directives. The interactive renderer re-aggregates
// collapsed rows per column according to these, so sum/representative
// semantics live in exactly one place.
const (
	AggGroup  = "group"  // grouping key, not aggregated
	AggSum    = "sum"    // additive count
	AggMax    = "max"    // representative value, validated constant
	AggDerive = "derive" // recomputed from re-aggregated inputs
)

// Column describes one output column and how a collapsed parent row
// re-derives its value from visible children.
type Column struct {
	Name      string `json:"name"`
	Aggregate string `json:"aggregate"`
}

// Table is an ordered result set plus the per-column re-aggregation
// contract. Rows arrive already in final presentation order.
type Table struct {
	Title   string         `json:"title"`
	GroupBy []string       `json:"group_by"`
	Columns []Column       `json:"columns"`
	Metrics []MetricSpec   `json:"metrics"`
	Rows    []AggregateRow `json:"rows"`
}
