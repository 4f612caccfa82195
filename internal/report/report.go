package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"civic-request-report/internal/ingest"
	"civic-request-report/internal/model"
	"civic-request-report/internal/store"
	"civic-request-report/pkg/utils"
)

// Run executes one report run end to end: load the three sources, then
// normalize, join, aggregate, derive, rank, and build the display table.
// The loads happen once before the pipeline starts; the pipeline itself is
// a single synchronous pass over immutable in-memory slices, so concurrent
// runs never share state. Row-level problems are recovered locally and end
// up in the quality counters; structural errors abort the run.
func Run(ctx context.Context, runID string, spec model.ReportSpec) (table model.Table, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting report run: %s\n", runID)

	store.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.RunTimeout))
	defer cancel()

	// --- LOAD STAGE ---
	store.UpdateRunStatus(runID, "loading")
	var (
		raw         []model.RawRecord
		areas       map[string]model.Area
		populations map[string]int64
		loadErrs    [3]error
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		raw, loadErrs[0] = ingest.LoadRecords(ctx, spec.Sources.Requests)
	}()
	go func() {
		defer wg.Done()
		areas, loadErrs[1] = ingest.LoadAreas(ctx, spec.Sources.Areas)
	}()
	go func() {
		defer wg.Done()
		populations, loadErrs[2] = ingest.LoadPopulations(ctx, spec.Sources.Populations)
	}()
	wg.Wait()
	for _, loadErr := range loadErrs {
		if loadErr != nil {
			return model.Table{}, fmt.Errorf("load failed: %w", loadErr)
		}
	}

	// --- PIPELINE ---
	store.UpdateRunStatus(runID, "aggregating")
	quality := &model.Quality{}

	requests := Normalize(raw, spec.ExcludeTypes, quality)
	fmt.Printf("🔍 Normalized: %d of %d records kept (%d malformed, %d excluded)\n",
		len(requests), len(raw), quality.Malformed, quality.Excluded)

	enriched := Join(requests, areas, populations, quality)
	fmt.Printf("🔗 Joined: %d of %d records matched (%d area misses, %d population misses)\n",
		len(enriched), len(requests), quality.AreaMisses, quality.PopulationMisses)

	rows, err := Aggregate(enriched, spec.GroupBy, CarryFields(spec.Metrics))
	if err != nil {
		return model.Table{}, err
	}
	if err = DeriveMetrics(rows, spec.Metrics, quality); err != nil {
		return model.Table{}, err
	}
	fmt.Printf("📊 Aggregated: %d groups from %d records\n", len(rows), len(enriched))

	if spec.Rank != nil {
		before := len(rows)
		rows = Rank(rows, *spec.Rank)
		fmt.Printf("🏆 Ranked: %d of %d rows kept\n", len(rows), before)
	}

	table = BuildTable(spec, rows)

	// --- PERSIST & EXPORT ---
	store.UpdateRunStatus(runID, "exporting")
	store.SaveRunQuality(runID, *quality)
	if err = store.SaveResultRows(runID, table); err != nil {
		return model.Table{}, fmt.Errorf("failed to persist results: %w", err)
	}
	if spec.Export != nil && spec.Export.File != "" {
		ExportTable(table, *spec.Export, runID)
	}

	store.UpdateRunStatus(runID, "completed")
	fmt.Printf("🏁 Report run %s completed in %v\n", runID, time.Since(start))
	return table, nil
}
