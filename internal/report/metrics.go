package report

import (
	"fmt"
	"math"

	"civic-request-report/internal/model"
)

// DeriveMetrics computes every declared metric for every row:
// numerator/denominator*scale. A zero denominator is per-cell and non-fatal:
// the cell becomes NaN and is counted. Denominators are always the row's
// representative value; the rollup path recomputes through this same
// function so the two can never disagree.
func DeriveMetrics(rows []model.AggregateRow, specs []model.MetricSpec, q *model.Quality) error {
	for i := range rows {
		if err := deriveRow(&rows[i], specs, q); err != nil {
			return err
		}
	}
	return nil
}

func deriveRow(row *model.AggregateRow, specs []model.MetricSpec, q *model.Quality) error {
	if len(specs) == 0 {
		return nil
	}
	if row.Metrics == nil {
		row.Metrics = make(map[string]float64, len(specs))
	}
	for _, spec := range specs {
		num, err := numerator(*row, spec.Numerator)
		if err != nil {
			return err
		}
		denom, err := denominator(*row, spec.Denominator)
		if err != nil {
			return err
		}
		row.Metrics[spec.Name] = Derive(num, denom, spec.Scale, q)
	}
	return nil
}

// Derive is the single ratio rule: (num/denom)*scale, NaN on zero
// denominator.
func Derive(num, denom, scale float64, q *model.Quality) float64 {
	if denom == 0 {
		if q != nil {
			q.ZeroDenominators++
		}
		return math.NaN()
	}
	return num / denom * scale
}

func numerator(row model.AggregateRow, field string) (float64, error) {
	switch field {
	case model.FieldTotalRequests:
		return float64(row.TotalRequests), nil
	case model.FieldParentIssues:
		return float64(row.ParentIssues), nil
	}
	return 0, fmt.Errorf("metric: unknown numerator field %q", field)
}

func denominator(row model.AggregateRow, field string) (float64, error) {
	switch field {
	case model.FieldPopulation:
		return float64(row.Population), nil
	case model.FieldAreaSqMi:
		return row.AreaSqMi, nil
	}
	return 0, fmt.Errorf("metric: unknown denominator field %q", field)
}

// CarryFields lists the denominator fields the aggregator must carry as
// representative values for the given metric specs.
func CarryFields(specs []model.MetricSpec) []string {
	seen := make(map[string]bool, 2)
	var fields []string
	for _, spec := range specs {
		if !seen[spec.Denominator] {
			seen[spec.Denominator] = true
			fields = append(fields, spec.Denominator)
		}
	}
	return fields
}
