package report

import "civic-request-report/internal/model"

// Join inner-joins canonical requests against the area lookup (by area key)
// and the population lookup (by area name). Lookup misses are not errors,
// reference data may legitimately lag the request feed, so unmatched
// requests are dropped and counted. The whole enriched set is materialized
// before aggregation; denominators need fully resolved area and population
// values.
func Join(
	requests []model.Request,
	areas map[string]model.Area,
	populations map[string]int64,
	q *model.Quality,
) []model.EnrichedRequest {
	enriched := make([]model.EnrichedRequest, 0, len(requests))
	for _, req := range requests {
		area, ok := areas[req.AreaKey]
		if !ok {
			q.AreaMisses++
			continue
		}
		pop, ok := populations[area.Name]
		if !ok {
			q.PopulationMisses++
			continue
		}
		enriched = append(enriched, model.EnrichedRequest{
			Request:    req,
			AreaName:   area.Name,
			AreaSqMi:   area.SqMi,
			Population: pop,
		})
	}
	return enriched
}
