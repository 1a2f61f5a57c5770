// Package orchestrator coordinates the pipeline paths.
// Categorization: ingest → normalize → classify → report.
// Forecasting: ingest → trend analysis → forecast → anomaly ranking.
// Stage results pass in memory; JSON artifacts are an optional
// side-channel for external consumers.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pricelab/internal/anomaly"
	"pricelab/internal/classify"
	"pricelab/internal/config"
	"pricelab/internal/domain"
	"pricelab/internal/forecast"
	"pricelab/internal/idhash"
	"pricelab/internal/ingest"
	"pricelab/internal/normalize"
	"pricelab/internal/observability"
	"pricelab/internal/reporting"
	"pricelab/internal/storage"
	"pricelab/internal/trend"
)

// Orchestrator coordinates pipeline execution against the configured
// stores. All stores are optional: a nil store skips persistence for
// that concern, so the binaries can run purely in memory.
type Orchestrator struct {
	priceChangeStore storage.PriceChangeStore
	observationStore storage.ObservationStore
	trendStore       storage.TrendStore
	runStore         storage.RunStore

	cfg *config.Config

	clock   func() time.Time
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	PriceChangeStore storage.PriceChangeStore
	ObservationStore storage.ObservationStore
	TrendStore       storage.TrendStore
	RunStore         storage.RunStore

	Config *config.Config

	// Clock overrides time.Now, for deterministic run IDs in tests.
	Clock   func() time.Time
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Orchestrator{
		priceChangeStore: opts.PriceChangeStore,
		observationStore: opts.ObservationStore,
		trendStore:       opts.TrendStore,
		runStore:         opts.RunStore,
		cfg:              cfg,
		clock:            clock,
		verbose:          opts.Verbose,
	}
}

// RunResult contains the reports produced by one run.
type RunResult struct {
	RunID string

	Categorized *reporting.CategorizedReport
	Trend       *reporting.TrendReport
	Forecast    *reporting.ForecastReport
	Anomalies   *reporting.AnomalyReport

	// ArtifactPaths lists the JSON files written, when artifacts are
	// enabled.
	ArtifactPaths []string
}

// RunCategorize executes the categorization path against the
// price-change report named in the config.
func (o *Orchestrator) RunCategorize(ctx context.Context) (*RunResult, error) {
	started := o.clock()
	input := o.cfg.Inputs.PriceChangeReport
	runID := idhash.ComputeRunID(input, started)

	o.log("Categorization run %s: reading %s", runID, input)
	table, err := ingest.ReadPriceChangeReportFile(input)
	if err != nil {
		o.finishRun(ctx, runID, domain.RunKindCategorize, input, started, 0, 0, err)
		return nil, fmt.Errorf("read price change report: %w", err)
	}
	observability.RecordRowsRead("price_changes", len(table.Rows))

	result := &RunResult{RunID: runID}
	report, classified, err := o.categorize(ctx, runID, table)
	if err != nil {
		o.finishRun(ctx, runID, domain.RunKindCategorize, input, started, len(table.Rows), 0, err)
		return nil, err
	}
	result.Categorized = report

	if o.cfg.Artifacts.Enabled {
		path, err := reporting.WriteArtifact(o.cfg.Artifacts.Dir, reporting.CategorizedArtifact, report)
		if err != nil {
			o.finishRun(ctx, runID, domain.RunKindCategorize, input, started, len(table.Rows), len(classified.Classified), err)
			return nil, err
		}
		result.ArtifactPaths = append(result.ArtifactPaths, path)
	}

	o.finishRun(ctx, runID, domain.RunKindCategorize, input, started, len(table.Rows), len(classified.Classified), nil)
	o.log("Categorization run %s: %d products, %d excluded",
		runID, report.TotalProducts, report.ExcludedInvalidPrices)
	return result, nil
}

// categorize runs normalize → classify → report on a parsed table and
// persists the classified records when a store is configured.
func (o *Orchestrator) categorize(ctx context.Context, runID string, table *ingest.Table) (*reporting.CategorizedReport, *classify.Result, error) {
	normalized := normalize.PriceRows(table.Rows)
	if normalized.EmptyRowsDropped > 0 {
		observability.RecordRowsDropped("price_changes", "empty", normalized.EmptyRowsDropped)
	}
	if normalized.InvalidPriceRows > 0 {
		observability.DefaultMetrics.InvalidPriceRows.Add(float64(normalized.InvalidPriceRows))
	}

	classified := classify.Records(normalized.Records)
	for _, c := range classified.Classified {
		observability.RecordClassified(string(c.Category))
	}

	if o.priceChangeStore != nil {
		byID := make(map[string]*domain.ClassifiedRecord, len(classified.Classified))
		for _, c := range classified.Classified {
			byID[idhash.ComputeRecordID(c.Record)] = c
		}
		if err := o.priceChangeStore.InsertBulk(ctx, runID, byID); err != nil {
			return nil, nil, fmt.Errorf("store classified records: %w", err)
		}
	}

	return reporting.BuildCategorizedReport(classified, o.clock()), classified, nil
}

// RunForecast executes the trend → forecast → anomaly path against the
// historical table named in the config.
func (o *Orchestrator) RunForecast(ctx context.Context) (*RunResult, error) {
	started := o.clock()
	input := o.cfg.Inputs.HistoricalTable
	runID := idhash.ComputeRunID(input, started)

	o.log("Forecast run %s: reading %s", runID, input)
	table, err := ingest.ReadHistoricalTableFile(input)
	if err != nil {
		o.finishRun(ctx, runID, domain.RunKindForecast, input, started, 0, 0, err)
		return nil, fmt.Errorf("read historical table: %w", err)
	}
	observability.RecordRowsRead("historical_prices", len(table.Rows))

	parsed := trend.ParseObservations(table.Rows)
	if parsed.DroppedRows > 0 {
		observability.RecordRowsDropped("historical_prices", "unparsable", parsed.DroppedRows)
	}
	if o.observationStore != nil {
		if err := o.observationStore.InsertBulk(ctx, parsed.Observations); err != nil {
			o.finishRun(ctx, runID, domain.RunKindForecast, input, started, len(table.Rows), 0, err)
			return nil, fmt.Errorf("store observations: %w", err)
		}
	}

	result := &RunResult{RunID: runID}
	if err := o.forecastFromObservations(ctx, runID, parsed.Observations, result); err != nil {
		o.finishRun(ctx, runID, domain.RunKindForecast, input, started, len(table.Rows), 0, err)
		return nil, err
	}

	o.finishRun(ctx, runID, domain.RunKindForecast, input, started, len(table.Rows), result.Anomalies.TotalAnomaliesDetected, nil)
	o.log("Forecast run %s: %d SKUs analyzed, %d forecasted, %d anomalies",
		runID, result.Trend.TotalSkus, result.Forecast.TotalSkusForecasted, result.Anomalies.TotalAnomaliesDetected)
	return result, nil
}

// forecastFromObservations runs the three analysis stages. Each stage
// consumes the previous one's in-memory result and fails closed if it
// is absent.
func (o *Orchestrator) forecastFromObservations(ctx context.Context, runID string, observations []domain.PriceObservation, result *RunResult) error {
	o.log("  Phase 1: Analyzing trends (%d observations)...", len(observations))
	stats := trend.Analyze(observations)
	observability.DefaultMetrics.SkusAnalyzed.Add(float64(len(stats)))

	if o.trendStore != nil && len(stats) > 0 {
		if err := o.trendStore.Upsert(ctx, runID, stats); err != nil {
			return fmt.Errorf("store trend statistics: %w", err)
		}
	}
	result.Trend = reporting.BuildTrendReport(stats, o.clock())

	o.log("  Phase 2: Forecasting prices (%d SKUs)...", len(stats))
	forecasts := forecast.FromStatisticsOpts(stats, forecast.Options{
		MinChangesForWeighted: o.cfg.Forecast.MinChangesForWeighted,
		RecentWindow:          o.cfg.Forecast.RecentWindow,
	})
	observability.DefaultMetrics.SkusForecasted.Add(float64(len(forecasts)))
	result.Forecast = reporting.BuildForecastReport(forecasts, o.clock())

	o.log("  Phase 3: Ranking anomalies (%d forecasts)...", len(forecasts))
	ranked := anomaly.RankN(forecasts, o.cfg.Anomaly.TopN, o.cfg.Anomaly.ThresholdSigma)
	observability.DefaultMetrics.AnomaliesFound.Add(float64(ranked.TotalDetected))
	result.Anomalies = reporting.BuildAnomalyReport(ranked, o.clock())

	if o.cfg.Artifacts.Enabled {
		artifacts := []struct {
			name string
			v    any
		}{
			{reporting.TrendArtifact, result.Trend},
			{reporting.ForecastArtifact, result.Forecast},
			{reporting.AnomalyArtifact, result.Anomalies},
		}
		for _, a := range artifacts {
			path, err := reporting.WriteArtifact(o.cfg.Artifacts.Dir, a.name, a.v)
			if err != nil {
				return err
			}
			result.ArtifactPaths = append(result.ArtifactPaths, path)
		}
	}

	return nil
}

// RunForecastFromStored recomputes forecasts and anomalies from trend
// statistics persisted by an earlier run, without re-reading the
// historical table. Returns ErrUpstreamMissing when that run stored no
// statistics: a missing upstream result is an error, never an empty
// report.
func (o *Orchestrator) RunForecastFromStored(ctx context.Context, sourceRunID string) (*RunResult, error) {
	if o.trendStore == nil {
		return nil, fmt.Errorf("forecast from stored trends: no trend store configured: %w", storage.ErrUpstreamMissing)
	}

	stats, err := o.trendStore.GetByRunID(ctx, sourceRunID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("forecast from stored trends: run %s: %w", sourceRunID, storage.ErrUpstreamMissing)
		}
		return nil, fmt.Errorf("load trend statistics: %w", err)
	}

	o.log("Forecast from stored run %s: %d SKUs", sourceRunID, len(stats))
	forecasts := forecast.FromStatisticsOpts(stats, forecast.Options{
		MinChangesForWeighted: o.cfg.Forecast.MinChangesForWeighted,
		RecentWindow:          o.cfg.Forecast.RecentWindow,
	})
	ranked := anomaly.RankN(forecasts, o.cfg.Anomaly.TopN, o.cfg.Anomaly.ThresholdSigma)

	now := o.clock()
	return &RunResult{
		RunID:     sourceRunID,
		Trend:     reporting.BuildTrendReport(stats, now),
		Forecast:  reporting.BuildForecastReport(forecasts, now),
		Anomalies: reporting.BuildAnomalyReport(ranked, now),
	}, nil
}

// RunFull executes both paths as one run: categorization first, then
// the forecast path.
func (o *Orchestrator) RunFull(ctx context.Context) (*RunResult, error) {
	started := o.clock()
	runID := idhash.ComputeRunID(o.cfg.Inputs.PriceChangeReport+"+"+o.cfg.Inputs.HistoricalTable, started)

	o.log("Full run %s", runID)
	catResult, err := o.RunCategorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("categorization path: %w", err)
	}

	fcResult, err := o.RunForecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("forecast path: %w", err)
	}

	return &RunResult{
		RunID:         runID,
		Categorized:   catResult.Categorized,
		Trend:         fcResult.Trend,
		Forecast:      fcResult.Forecast,
		Anomalies:     fcResult.Anomalies,
		ArtifactPaths: append(catResult.ArtifactPaths, fcResult.ArtifactPaths...),
	}, nil
}

// finishRun records the audit trail and metrics for a completed run.
// Store failures here are logged, not returned: the run's real outcome
// must not be masked by audit bookkeeping.
func (o *Orchestrator) finishRun(ctx context.Context, runID string, kind domain.RunKind, input string, started time.Time, recordsIn, recordsOut int, runErr error) {
	finished := o.clock()
	status := domain.RunStatusSucceeded
	errMsg := ""
	if runErr != nil {
		status = domain.RunStatusFailed
		errMsg = runErr.Error()
	}

	observability.RecordPipelineRun(string(kind), string(status), finished.Sub(started).Seconds())
	if runErr == nil {
		observability.DefaultMetrics.LastSuccessfulRun.Set(float64(finished.Unix()))
	}

	if o.runStore == nil {
		return
	}
	if err := o.runStore.Insert(ctx, &domain.PipelineRun{
		RunID:     runID,
		Kind:      kind,
		InputPath: input,
		StartedAt: started,
		Status:    domain.RunStatusRunning,
		RecordsIn: recordsIn,
	}); err != nil {
		log.Printf("[orchestrator] record run %s: %v", runID, err)
		return
	}
	if err := o.runStore.Finish(ctx, runID, status, errMsg, finished, recordsOut); err != nil {
		log.Printf("[orchestrator] finish run %s: %v", runID, err)
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
