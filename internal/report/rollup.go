package report

import (
	"fmt"

	"civic-request-report/internal/model"
)

// Rollup re-derives one parent row from its visible child rows. Counts are
// summed; population and area are representative values that must be
// constant across the children (population is per-area, the same on every
// request-type row of that area, so summing it would be wrong). Derived
// metrics are recomputed from the rolled-up numerator and the representative
// denominator, never averaged from the children's per-row rates, which
// would be wrong whenever group sizes differ. Pure function of the children
// only: the initial render and every interactive expand/collapse call the
// same code.
func Rollup(children []model.AggregateRow, metrics []model.MetricSpec) (model.AggregateRow, error) {
	if len(children) == 0 {
		return model.AggregateRow{}, fmt.Errorf("rollup: no child rows")
	}

	parent := model.AggregateRow{
		Keys:       sharedKeys(children),
		Population: children[0].Population,
		AreaSqMi:   children[0].AreaSqMi,
	}
	label := keyLabel(parent.Keys)

	for _, child := range children {
		parent.TotalRequests += child.TotalRequests
		parent.ParentIssues += child.ParentIssues

		if child.Population != parent.Population {
			return model.AggregateRow{}, &InconsistentDenominatorError{
				Group:  label,
				Field:  model.FieldPopulation,
				Values: [2]float64{float64(parent.Population), float64(child.Population)},
			}
		}
		if child.AreaSqMi != parent.AreaSqMi {
			return model.AggregateRow{}, &InconsistentDenominatorError{
				Group:  label,
				Field:  model.FieldAreaSqMi,
				Values: [2]float64{parent.AreaSqMi, child.AreaSqMi},
			}
		}
	}

	if err := deriveRow(&parent, metrics, nil); err != nil {
		return model.AggregateRow{}, err
	}
	return parent, nil
}

// CollapseBy groups child rows under the given parent key and rolls each
// group up into one collapsed row, keeping first-seen group order. This is
// the whole of the interactive collapse path.
func CollapseBy(rows []model.AggregateRow, parentKey string, metrics []model.MetricSpec) ([]model.AggregateRow, error) {
	groups := make(map[string][]model.AggregateRow)
	var order []string
	for _, row := range rows {
		p := row.Keys[parentKey]
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], row)
	}

	collapsed := make([]model.AggregateRow, 0, len(order))
	for _, p := range order {
		parent, err := Rollup(groups[p], metrics)
		if err != nil {
			return nil, err
		}
		// The collapsed row keeps only the parent key; child-level keys are
		// hidden, not blank.
		parent.Keys = map[string]string{parentKey: p}
		collapsed = append(collapsed, parent)
	}
	return collapsed, nil
}

// sharedKeys returns the key/value pairs equal across every child.
func sharedKeys(children []model.AggregateRow) map[string]string {
	shared := make(map[string]string, len(children[0].Keys))
	for k, v := range children[0].Keys {
		shared[k] = v
	}
	for _, child := range children[1:] {
		for k, v := range shared {
			if child.Keys[k] != v {
				delete(shared, k)
			}
		}
	}
	return shared
}

func keyLabel(keys map[string]string) string {
	for _, field := range []string{model.FieldAreaName, model.FieldRequestType} {
		if v, ok := keys[field]; ok {
			return v
		}
	}
	return "(all)"
}
