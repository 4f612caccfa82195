package report

import (
	"fmt"
	"strings"

	"civic-request-report/internal/model"
)

// group accumulates one partition while records stream through Aggregate.
type group struct {
	keys        map[string]string
	requestIDs  map[string]struct{}
	groupingIDs map[string]struct{}
	population  int64
	areaSqMi    float64
	seeded      bool
}

// Aggregate partitions enriched records by the tuple of grouping-key values
// and computes one AggregateRow per partition: total_requests is the count
// of distinct request IDs, parent_issues the count of distinct grouping IDs.
// Each field named in carryFields is carried through as a representative
// value and must be constant within its partition; a non-constant value is a
// join fan-out bug and aborts with InconsistentDenominatorError rather than
// silently picking one. Output rows keep first-seen partition order.
func Aggregate(
	records []model.EnrichedRequest,
	groupBy []string,
	carryFields []string,
) ([]model.AggregateRow, error) {
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("aggregate: at least one grouping key is required")
	}
	for _, key := range groupBy {
		if key != model.FieldAreaName && key != model.FieldRequestType {
			return nil, fmt.Errorf("aggregate: unknown grouping key %q", key)
		}
	}

	carry := make(map[string]bool, len(carryFields))
	for _, f := range carryFields {
		carry[f] = true
	}

	groups := make(map[string]*group)
	var order []string

	for _, rec := range records {
		keys := make(map[string]string, len(groupBy))
		parts := make([]string, len(groupBy))
		for i, field := range groupBy {
			v := keyValue(rec, field)
			keys[field] = v
			parts[i] = v
		}
		id := strings.Join(parts, "\x1f")

		g, ok := groups[id]
		if !ok {
			g = &group{
				keys:        keys,
				requestIDs:  make(map[string]struct{}),
				groupingIDs: make(map[string]struct{}),
			}
			groups[id] = g
			order = append(order, id)
		}

		g.requestIDs[rec.ID] = struct{}{}
		g.groupingIDs[rec.GroupingID] = struct{}{}

		label := strings.Join(parts, "/")
		if carry[model.FieldPopulation] {
			if g.seeded && g.population != rec.Population {
				return nil, &InconsistentDenominatorError{
					Group:  label,
					Field:  model.FieldPopulation,
					Values: [2]float64{float64(g.population), float64(rec.Population)},
				}
			}
			g.population = rec.Population
		}
		if carry[model.FieldAreaSqMi] {
			if g.seeded && g.areaSqMi != rec.AreaSqMi {
				return nil, &InconsistentDenominatorError{
					Group:  label,
					Field:  model.FieldAreaSqMi,
					Values: [2]float64{g.areaSqMi, rec.AreaSqMi},
				}
			}
			g.areaSqMi = rec.AreaSqMi
		}
		g.seeded = true
	}

	rows := make([]model.AggregateRow, 0, len(order))
	for _, id := range order {
		g := groups[id]
		rows = append(rows, model.AggregateRow{
			Keys:          g.keys,
			TotalRequests: int64(len(g.requestIDs)),
			ParentIssues:  int64(len(g.groupingIDs)),
			Population:    g.population,
			AreaSqMi:      g.areaSqMi,
		})
	}
	return rows, nil
}

// keyValue extracts a grouping-key value from an enriched record.
func keyValue(rec model.EnrichedRequest, field string) string {
	switch field {
	case model.FieldAreaName:
		return rec.AreaName
	case model.FieldRequestType:
		return rec.Type
	}
	return ""
}
