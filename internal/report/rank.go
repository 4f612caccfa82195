package report

import (
	"math"
	"sort"

	"civic-request-report/internal/model"
)

// Rank applies the two-stage filter-then-rank: (1) rows below the minimum
// total_requests threshold are excluded entirely; (2) if a partition key is
// set, rows are stably sorted within each partition by the sort key, given
// dense ranks, and kept while rank <= N; (3) a final stable presentation
// sort is applied. Ties always keep input order, so identical inputs always
// produce identical output, and re-ranking an already ranked set is a no-op.
func Rank(rows []model.AggregateRow, spec model.RankSpec) []model.AggregateRow {
	filtered := make([]model.AggregateRow, 0, len(rows))
	for _, row := range rows {
		if row.TotalRequests >= spec.MinTotalRequests {
			filtered = append(filtered, row)
		}
	}

	if spec.PartitionBy != "" && spec.TopN > 0 {
		filtered = topNPerPartition(filtered, spec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if spec.PartitionBy != "" {
			pi, pj := filtered[i].Keys[spec.PartitionBy], filtered[j].Keys[spec.PartitionBy]
			if pi != pj {
				return pi < pj
			}
		}
		return sortBefore(sortValue(filtered[i], spec.SortBy), sortValue(filtered[j], spec.SortBy), spec.Descending)
	})
	return filtered
}

// topNPerPartition keeps the rows ranking in the top N of their partition.
// Dense ranking: rows with equal sort values share a rank, so exact ties at
// the cut survive together.
func topNPerPartition(rows []model.AggregateRow, spec model.RankSpec) []model.AggregateRow {
	partitions := make(map[string][]model.AggregateRow)
	var order []string
	for _, row := range rows {
		p := row.Keys[spec.PartitionBy]
		if _, ok := partitions[p]; !ok {
			order = append(order, p)
		}
		partitions[p] = append(partitions[p], row)
	}

	var kept []model.AggregateRow
	for _, p := range order {
		part := partitions[p]
		sort.SliceStable(part, func(i, j int) bool {
			return sortBefore(sortValue(part[i], spec.SortBy), sortValue(part[j], spec.SortBy), spec.Descending)
		})

		rank := 0
		var prev float64
		for i, row := range part {
			v := sortValue(row, spec.SortBy)
			if i == 0 || !sameValue(v, prev) {
				rank++
				prev = v
			}
			if rank > spec.TopN {
				break
			}
			kept = append(kept, row)
		}
	}
	return kept
}

// sortValue reads a sortable numeric column off a row.
func sortValue(row model.AggregateRow, field string) float64 {
	switch field {
	case model.FieldTotalRequests:
		return float64(row.TotalRequests)
	case model.FieldParentIssues:
		return float64(row.ParentIssues)
	case model.FieldPopulation:
		return float64(row.Population)
	case model.FieldAreaSqMi:
		return row.AreaSqMi
	}
	if v, ok := row.Metrics[field]; ok {
		return v
	}
	return 0
}

// sortBefore orders two values per direction, with NaN cells always last.
func sortBefore(a, b float64, descending bool) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	if descending {
		return a > b
	}
	return a < b
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
