package report

import (
	"testing"

	"civic-request-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedRequest(id, parent, reqType, area string, pop int64, sqMi float64) model.EnrichedRequest {
	req := model.Request{ID: id, ParentID: parent, Type: reqType}
	req.GroupingID = GroupingID(req)
	return model.EnrichedRequest{
		Request:    req,
		AreaName:   area,
		AreaSqMi:   sqMi,
		Population: pop,
	}
}

func TestAggregateCountsDistinctRequestsAndIssues(t *testing.T) {
	records := []model.EnrichedRequest{
		enrichedRequest("r1", "", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r2", "r1", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r3", "r1", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r4", "", "graffiti", "Lakeview", 64000, 3.5),
	}

	rows, err := Aggregate(records, []string{model.FieldAreaName}, []string{model.FieldPopulation, model.FieldAreaSqMi})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(4), rows[0].TotalRequests)
	assert.Equal(t, int64(2), rows[0].ParentIssues, "r2 and r3 collapse under r1")
	assert.Equal(t, int64(64000), rows[0].Population)
	assert.Equal(t, 3.5, rows[0].AreaSqMi)
}

func TestAggregateByAreaAndType(t *testing.T) {
	records := []model.EnrichedRequest{
		enrichedRequest("r1", "", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r2", "", "graffiti", "Lakeview", 64000, 3.5),
		enrichedRequest("r3", "", "pothole", "Riverside", 48000, 2.0),
	}

	rows, err := Aggregate(records, []string{model.FieldAreaName, model.FieldRequestType}, []string{model.FieldPopulation})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// First-seen partition order.
	assert.Equal(t, map[string]string{"area_name": "Lakeview", "request_type": "pothole"}, rows[0].Keys)
	assert.Equal(t, map[string]string{"area_name": "Lakeview", "request_type": "graffiti"}, rows[1].Keys)
	assert.Equal(t, map[string]string{"area_name": "Riverside", "request_type": "pothole"}, rows[2].Keys)

	for _, row := range rows {
		assert.LessOrEqual(t, row.ParentIssues, row.TotalRequests)
	}
}

func TestAggregateParentIssuesNeverExceedTotal(t *testing.T) {
	records := []model.EnrichedRequest{
		enrichedRequest("r1", "", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r2", "r1", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r3", "p9", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r4", "p9", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r5", "", "pothole", "Lakeview", 64000, 3.5),
	}

	rows, err := Aggregate(records, []string{model.FieldAreaName}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.LessOrEqual(t, rows[0].ParentIssues, rows[0].TotalRequests)
}

func TestAggregateRejectsInconsistentDenominator(t *testing.T) {
	// Same area name carrying two different populations: a join fan-out.
	records := []model.EnrichedRequest{
		enrichedRequest("r1", "", "pothole", "Lakeview", 64000, 3.5),
		enrichedRequest("r2", "", "pothole", "Lakeview", 65000, 3.5),
	}

	_, err := Aggregate(records, []string{model.FieldAreaName}, []string{model.FieldPopulation})
	require.Error(t, err)

	var incons *InconsistentDenominatorError
	require.ErrorAs(t, err, &incons)
	assert.Equal(t, "Lakeview", incons.Group, "the failing group must be named")
	assert.Equal(t, model.FieldPopulation, incons.Field, "the failing field must be named")
}

func TestAggregateRequiresGroupingKeys(t *testing.T) {
	_, err := Aggregate(nil, nil, nil)
	require.Error(t, err)

	_, err = Aggregate(nil, []string{"created_at"}, nil)
	require.Error(t, err)
}
