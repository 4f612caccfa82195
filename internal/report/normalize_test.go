package report

import (
	"testing"

	"civic-request-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResolvesGroupingID(t *testing.T) {
	raw := []model.RawRecord{
		{"request_id": "r1", "request_type": "pothole", "area_key": "A1"},
		{"request_id": "r2", "parent_id": "r1", "request_type": "pothole", "area_key": "A1"},
		{"request_id": "r3", "parent_id": "", "request_type": "graffiti", "area_key": "A2"},
	}

	q := &model.Quality{}
	requests := Normalize(raw, nil, q)
	require.Len(t, requests, 3)

	assert.Equal(t, "r1", requests[0].GroupingID, "childless request is its own grouping issue")
	assert.Equal(t, "r1", requests[1].GroupingID, "child resolves to its parent")
	assert.Equal(t, "r3", requests[2].GroupingID, "empty parent_id counts as absent")
	assert.Equal(t, model.Quality{}, *q)
}

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	raw := []model.RawRecord{
		{"request_type": "pothole", "area_key": "A1"},
		{"request_id": "", "request_type": "pothole", "area_key": "A1"},
		{"request_id": "r1", "request_type": "pothole", "area_key": "A1"},
	}

	q := &model.Quality{}
	requests := Normalize(raw, nil, q)

	require.Len(t, requests, 1)
	assert.Equal(t, 2, q.Malformed)
}

func TestNormalizeExcludesConfiguredTypes(t *testing.T) {
	raw := []model.RawRecord{
		{"request_id": "r1", "request_type": "pothole", "area_key": "A1"},
		{"request_id": "r2", "request_type": "Informational", "area_key": "A1"},
		{"request_id": "r3", "request_type": "noise-complaint", "area_key": "A1"},
	}

	q := &model.Quality{}
	requests := Normalize(raw, []string{"informational", "noise-complaint"}, q)

	require.Len(t, requests, 1)
	assert.Equal(t, "r1", requests[0].ID)
	assert.Equal(t, 2, q.Excluded, "excluded types are counted, not errors")
	assert.Zero(t, q.Malformed)
}

func TestNormalizeToleratesNumericIDs(t *testing.T) {
	// The CSV loader parses numeric-looking cells into ints.
	raw := []model.RawRecord{
		{"request_id": 10234, "parent_id": 10001, "request_type": "pothole", "area_key": 7},
	}

	q := &model.Quality{}
	requests := Normalize(raw, nil, q)

	require.Len(t, requests, 1)
	assert.Equal(t, "10234", requests[0].ID)
	assert.Equal(t, "10001", requests[0].GroupingID)
	assert.Equal(t, "7", requests[0].AreaKey)
}
