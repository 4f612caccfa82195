package report

import (
	"fmt"
	"strings"
	"time"

	"civic-request-report/internal/model"
)

// Normalize filters and reshapes raw request records into canonical
// Requests. Records with excluded request types are dropped silently;
// records missing request_id are malformed and dropped with a quality
// count. Pure transform, input untouched.
func Normalize(raw []model.RawRecord, excludeTypes []string, q *model.Quality) []model.Request {
	excluded := make(map[string]bool, len(excludeTypes))
	for _, t := range excludeTypes {
		excluded[strings.ToLower(strings.TrimSpace(t))] = true
	}

	requests := make([]model.Request, 0, len(raw))
	for _, rec := range raw {
		id := stringField(rec, "request_id")
		if id == "" {
			q.Malformed++
			if q.Malformed <= 3 {
				fmt.Printf("❌ Dropped record: %v\n", &MalformedRecordError{Field: "request_id"})
			}
			continue
		}

		reqType := stringField(rec, "request_type")
		if excluded[strings.ToLower(reqType)] {
			q.Excluded++
			continue
		}

		req := model.Request{
			ID:        id,
			ParentID:  stringField(rec, "parent_id"),
			Type:      reqType,
			CreatedAt: timeField(rec, "created_at"),
			AreaKey:   stringField(rec, "area_key"),
		}
		req.GroupingID = GroupingID(req)
		requests = append(requests, req)
	}
	return requests
}

// GroupingID resolves the issue a request is consolidated under: its parent
// when one is set, otherwise the request itself.
func GroupingID(req model.Request) string {
	if req.ParentID != "" {
		return req.ParentID
	}
	return req.ID
}

// stringField reads a field as a trimmed string, tolerating numeric values
// that the CSV reader may have parsed.
func stringField(rec model.RawRecord, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// timeField parses a timestamp field, accepting RFC 3339 and the common
// date-only form. Unparseable timestamps stay zero; nothing downstream
// groups on time.
func timeField(rec model.RawRecord, key string) time.Time {
	s := stringField(rec, key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
