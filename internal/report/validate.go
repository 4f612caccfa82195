package report

import (
	"fmt"

	"civic-request-report/internal/model"
)

// ValidateSpec checks a report spec before a run is created: every source
// present, grouping keys known, metric fields resolvable, and the rank sort
// key pointing at a real column.
func ValidateSpec(spec model.ReportSpec) error {
	for name, src := range map[string]model.Source{
		"requests":    spec.Sources.Requests,
		"areas":       spec.Sources.Areas,
		"populations": spec.Sources.Populations,
	} {
		if src.URL == "" {
			return fmt.Errorf("spec: %s source is required", name)
		}
		switch src.Type {
		case "csv", "json", "api":
		default:
			return fmt.Errorf("spec: %s source has unknown type %q", name, src.Type)
		}
	}

	if len(spec.GroupBy) == 0 {
		return fmt.Errorf("spec: at least one grouping key is required")
	}
	for _, key := range spec.GroupBy {
		if key != model.FieldAreaName && key != model.FieldRequestType {
			return fmt.Errorf("spec: unknown grouping key %q", key)
		}
	}

	names := make(map[string]bool, len(spec.Metrics))
	for _, m := range spec.Metrics {
		if m.Name == "" {
			return fmt.Errorf("spec: metric without a name")
		}
		if names[m.Name] {
			return fmt.Errorf("spec: duplicate metric %q", m.Name)
		}
		names[m.Name] = true
		if _, err := numerator(model.AggregateRow{}, m.Numerator); err != nil {
			return fmt.Errorf("spec: metric %q: %w", m.Name, err)
		}
		if _, err := denominator(model.AggregateRow{}, m.Denominator); err != nil {
			return fmt.Errorf("spec: metric %q: %w", m.Name, err)
		}
		if m.Scale == 0 {
			return fmt.Errorf("spec: metric %q has zero scale", m.Name)
		}
	}

	if spec.Rank != nil {
		if !sortable(spec.Rank.SortBy, names) {
			return fmt.Errorf("spec: rank sortBy %q is not a sortable column", spec.Rank.SortBy)
		}
		if p := spec.Rank.PartitionBy; p != "" && p != model.FieldAreaName && p != model.FieldRequestType {
			return fmt.Errorf("spec: rank partitionBy %q is not a grouping key", p)
		}
		if spec.Rank.TopN < 0 {
			return fmt.Errorf("spec: rank topN must not be negative")
		}
	}
	return nil
}

func sortable(field string, metricNames map[string]bool) bool {
	switch field {
	case model.FieldTotalRequests, model.FieldParentIssues,
		model.FieldPopulation, model.FieldAreaSqMi:
		return true
	}
	return metricNames[field]
}
