package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"civic-request-report/internal/model"
	"civic-request-report/pkg/utils"
)

// LoadRecords reads one source (CSV file/URL, JSON file/URL, or API) into
// raw records. The load is a one-time synchronous pass performed before the
// pipeline starts.
func LoadRecords(ctx context.Context, source model.Source) ([]model.RawRecord, error) {
	fmt.Printf("➡️ Loading source: %s (%s)\n", source.URL, source.Type)

	switch strings.ToLower(source.Type) {
	case "csv":
		return loadCSV(ctx, source.URL)
	case "json", "api":
		return loadJSON(ctx, source.URL)
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadAreas reads the area reference table into a lookup keyed by area_key.
func LoadAreas(ctx context.Context, source model.Source) (map[string]model.Area, error) {
	records, err := LoadRecords(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("area reference: %w", err)
	}

	areas := make(map[string]model.Area, len(records))
	for _, rec := range records {
		key := stringOf(rec["area_key"])
		if key == "" {
			continue
		}
		areas[key] = model.Area{
			Key:  key,
			Name: stringOf(rec["area_name"]),
			SqMi: utils.Numeric(rec["area_sq_mi"]),
		}
	}
	fmt.Printf("🗺️ Area reference loaded: %d areas\n", len(areas))
	return areas, nil
}

// LoadPopulations reads the population reference into a lookup keyed by
// area name. The two reference sources must agree on naming; misses surface
// later as join-quality counts.
func LoadPopulations(ctx context.Context, source model.Source) (map[string]int64, error) {
	records, err := LoadRecords(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("population reference: %w", err)
	}

	populations := make(map[string]int64, len(records))
	for _, rec := range records {
		name := stringOf(rec["area_name"])
		if name == "" {
			continue
		}
		populations[name] = int64(utils.Numeric(rec["estimated_population"]))
	}
	fmt.Printf("👥 Population reference loaded: %d areas\n", len(populations))
	return populations, nil
}

func open(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(pathOrURL, "http") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to GET %s: %w", pathOrURL, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("GET %s: unexpected status %d", pathOrURL, resp.StatusCode)
		}
		return resp.Body, nil
	}

	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", pathOrURL, err)
	}
	return file, nil
}

func loadCSV(ctx context.Context, pathOrURL string) ([]model.RawRecord, error) {
	body, err := open(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	var records []model.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(model.RawRecord, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = utils.ParseValue(row[i])
			}
		}
		records = append(records, rec)
	}

	fmt.Printf("📄 CSV load done: %d records from %s\n", len(records), pathOrURL)
	return records, nil
}

func loadJSON(ctx context.Context, pathOrURL string) ([]model.RawRecord, error) {
	body, err := open(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	var records []model.RawRecord
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, m)
			}
		}
	case map[string]interface{}:
		records = append(records, v)
	default:
		return nil, fmt.Errorf("unexpected JSON structure in %s", pathOrURL)
	}

	fmt.Printf("🌐 JSON load done: %d records from %s\n", len(records), pathOrURL)
	return records, nil
}

func stringOf(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
