package report

import (
	"testing"

	"civic-request-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinEnrichesMatchedRequests(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", GroupingID: "r1", Type: "pothole", AreaKey: "A1"},
	}
	areas := map[string]model.Area{
		"A1": {Key: "A1", Name: "Lakeview", SqMi: 3.5},
	}
	populations := map[string]int64{"Lakeview": 64000}

	q := &model.Quality{}
	enriched := Join(requests, areas, populations, q)

	require.Len(t, enriched, 1)
	assert.Equal(t, "Lakeview", enriched[0].AreaName)
	assert.Equal(t, 3.5, enriched[0].AreaSqMi)
	assert.Equal(t, int64(64000), enriched[0].Population)
}

func TestJoinDropsAndCountsLookupMisses(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", GroupingID: "r1", AreaKey: "A1"}, // joins fully
		{ID: "r2", GroupingID: "r2", AreaKey: "XX"}, // no such area
		{ID: "r3", GroupingID: "r3", AreaKey: "A2"}, // area known, population missing
	}
	areas := map[string]model.Area{
		"A1": {Key: "A1", Name: "Lakeview", SqMi: 3.5},
		"A2": {Key: "A2", Name: "Riverside", SqMi: 2.0},
	}
	populations := map[string]int64{"Lakeview": 64000}

	q := &model.Quality{}
	enriched := Join(requests, areas, populations, q)

	require.Len(t, enriched, 1)
	assert.Equal(t, "r1", enriched[0].ID)
	assert.Equal(t, 1, q.AreaMisses)
	assert.Equal(t, 1, q.PopulationMisses)
}
