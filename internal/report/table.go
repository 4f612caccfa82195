package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"civic-request-report/internal/model"
)

// BuildTable assembles the display table for a finished run: ordered rows
// plus one aggregation directive per column. The directives are the contract
// the interactive renderer honors when it collapses rows: counts roll up
// with sum, denominators with max (representative), metrics by rederivation.
func BuildTable(spec model.ReportSpec, rows []model.AggregateRow) model.Table {
	columns := make([]model.Column, 0, len(spec.GroupBy)+4+len(spec.Metrics))
	for _, key := range spec.GroupBy {
		columns = append(columns, model.Column{Name: key, Aggregate: model.AggGroup})
	}
	columns = append(columns,
		model.Column{Name: model.FieldTotalRequests, Aggregate: model.AggSum},
		model.Column{Name: model.FieldParentIssues, Aggregate: model.AggSum},
	)
	for _, field := range CarryFields(spec.Metrics) {
		columns = append(columns, model.Column{Name: field, Aggregate: model.AggMax})
	}
	for _, m := range spec.Metrics {
		columns = append(columns, model.Column{Name: m.Name, Aggregate: model.AggDerive})
	}

	return model.Table{
		Title:   spec.Title,
		GroupBy: spec.GroupBy,
		Columns: columns,
		Metrics: spec.Metrics,
		Rows:    rows,
	}
}

// RenderText writes the table as aligned plain text, one final ordered row
// set with no further client-side logic required.
func RenderText(w io.Writer, t model.Table) error {
	if t.Title != "" {
		fmt.Fprintln(w, t.Title)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col.Name)
	}
	fmt.Fprintln(tw)

	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, CellValue(row, col))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// CellValue formats one cell. NaN metric cells (zero denominators) render
// as an em-dash style placeholder rather than "NaN".
func CellValue(row model.AggregateRow, col model.Column) string {
	switch col.Aggregate {
	case model.AggGroup:
		return row.Keys[col.Name]
	case model.AggSum:
		switch col.Name {
		case model.FieldTotalRequests:
			return strconv.FormatInt(row.TotalRequests, 10)
		case model.FieldParentIssues:
			return strconv.FormatInt(row.ParentIssues, 10)
		}
	case model.AggMax:
		switch col.Name {
		case model.FieldPopulation:
			return strconv.FormatInt(row.Population, 10)
		case model.FieldAreaSqMi:
			return strconv.FormatFloat(row.AreaSqMi, 'f', -1, 64)
		}
	case model.AggDerive:
		v := row.Metrics[col.Name]
		if math.IsNaN(v) {
			return "-"
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return ""
}
