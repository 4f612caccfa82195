package report

import "fmt"

// MalformedRecordError marks a raw record missing its required key field.
// Recovered locally: the record is dropped and counted, the run continues.
type MalformedRecordError struct {
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: missing %s", e.Field)
}

// InconsistentDenominatorError marks a representative field that was not
// constant within a group. This means the join fanned out, so every derived
// metric downstream would be silently wrong; the whole aggregation aborts.
type InconsistentDenominatorError struct {
	Group  string
	Field  string
	Values [2]float64
}

func (e *InconsistentDenominatorError) Error() string {
	return fmt.Sprintf("inconsistent denominator %q in group %q: %v vs %v",
		e.Field, e.Group, e.Values[0], e.Values[1])
}
