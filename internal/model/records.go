package model

import "time"

// RawRecord is a schema-agnostic map for any data source.
type RawRecord map[string]interface{}

// Request is one reported service issue in canonical form.
// GroupingID is the parent request when the request is a duplicate of an
// earlier one, otherwise the request's own ID.
type Request struct {
	ID         string    `json:"request_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Type       string    `json:"request_type"`
	CreatedAt  time.Time `json:"created_at"`
	AreaKey    string    `json:"area_key"`
	GroupingID string    `json:"grouping_id"`
}

// Area is a geographic partition from the area reference table.
type Area struct {
	Key  string  `json:"area_key"`
	Name string  `json:"area_name"`
	SqMi float64 `json:"area_sq_mi"`
}

// Population is an estimated-population entry, joined to areas by name.
type Population struct {
	AreaName  string `json:"area_name"`
	Estimated int64  `json:"estimated_population"`
}

// EnrichedRequest is a request carrying its joined area and population
// fields. The pipeline aggregates only over fully enriched records.
type EnrichedRequest struct {
	Request
	AreaName   string  `json:"area_name"`
	AreaSqMi   float64 `json:"area_sq_mi"`
	Population int64   `json:"estimated_population"`
}

// Quality counts records dropped or degraded on the way through a run.
// Malformed and unjoinable rows are data-quality signals, not errors.
type Quality struct {
	Malformed        int `json:"malformed"`
	Excluded         int `json:"excluded"`
	AreaMisses       int `json:"area_misses"`
	PopulationMisses int `json:"population_misses"`
	ZeroDenominators int `json:"zero_denominators"`
}
