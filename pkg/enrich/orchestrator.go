package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"news-enricher/pkg/config"
	"news-enricher/pkg/extract"
	"news-enricher/pkg/fetch"
	"news-enricher/pkg/table"
	"news-enricher/pkg/utils"
)

// Orchestrator fans the five column enrichers out over a shared read-only
// input table and merges their results into five new columns. Each task
// writes into its own result slot, so row alignment never depends on
// scheduling order.
type Orchestrator struct {
	cfg      *config.AppConfig
	resolver *fetch.Resolver
	fetcher  *fetch.Fetcher
	runID    string
	log      *logrus.Logger
}

// NewOrchestrator builds the shared probe and fetch clients and assigns the
// run its identity.
func NewOrchestrator(cfg *config.AppConfig, log *logrus.Logger) *Orchestrator {
	probeClient := fetch.NewClient(cfg.ProbeTimeout, cfg.HTTPClientSettings, log)
	fetchClient := fetch.NewClient(cfg.FetchTimeout, cfg.HTTPClientSettings, log)

	return &Orchestrator{
		cfg:      cfg,
		resolver: fetch.NewResolver(probeClient, cfg.UserAgent, log),
		fetcher:  fetch.NewFetcher(fetchClient, cfg.UserAgent, cfg.MaxAttempts, cfg.RetryDelay, log),
		runID:    uuid.NewString(),
		log:      log,
	}
}

// RunID returns the identity stamped on this run's log entries.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run enriches the table and returns a copy with the five derived columns
// appended. The input table is read-only; output row count and order equal
// the input's. A missing URL column or a failed merge is a structural
// failure that fails the whole run with no partial output.
func (o *Orchestrator) Run(ctx context.Context, t *table.Table) (*table.Table, error) {
	startTime := time.Now()
	runLog := o.log.WithField("run_id", o.runID)

	if t.ColumnIndex(o.cfg.URLColumn) < 0 {
		return nil, fmt.Errorf("%w: input table has no '%s' column (columns: %v)",
			utils.ErrTable, o.cfg.URLColumn, t.Header)
	}
	urls, err := t.Column(o.cfg.URLColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrTable, err)
	}

	fields := extract.Fields()
	runLog.Infof("Enriching %d rows across %d column tasks", t.RowCount(), len(fields))

	// One result slot per field; no shared accumulator between tasks
	results := make([]ColumnResult, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, field := range fields {
		i, field := i, field
		enricher := NewEnricher(field, o.resolver, o.fetcher, o.cfg.ProgressLogEvery, o.log)
		g.Go(func() error {
			res, err := enricher.EnrichColumn(gctx, urls)
			if err != nil {
				return fmt.Errorf("column '%s': %w", field.Column(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(fields))
	columns := make([][]string, len(fields))
	for i, res := range results {
		names[i] = res.Field.Column()
		columns[i] = res.Values
	}

	enriched, err := t.WithColumns(names, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: merging result columns: %w", utils.ErrTable, err)
	}

	o.logSummary(runLog, results, t.RowCount(), time.Since(startTime))
	return enriched, nil
}

// logSummary reports per-column hit counts and overall timing.
func (o *Orchestrator) logSummary(runLog *logrus.Entry, results []ColumnResult, rows int, elapsed time.Duration) {
	runLog.Info("============================================")
	runLog.Infof("Enrichment completed in %v (%d rows)", elapsed, rows)
	for _, res := range results {
		runLog.Infof("  %s: %d/%d values in %v", res.Field.Column(), res.Hits, rows, res.Duration)
	}
	runLog.Info("============================================")
}
