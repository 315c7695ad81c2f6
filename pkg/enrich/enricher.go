// Package enrich applies the field extractors across a table of article URLs
// and merges the derived columns back onto it. Five independent column tasks
// run concurrently, one per derived field; rows are processed sequentially
// within each task so result positions always line up with input rows.
package enrich

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"news-enricher/pkg/extract"
	"news-enricher/pkg/fetch"
	"news-enricher/pkg/utils"
)

// ColumnResult holds one finished column: one optional value per input row,
// in row order. An empty string is an absent value, not an error.
type ColumnResult struct {
	Field    extract.Field
	Values   []string
	Hits     int // Rows that produced a value
	Duration time.Duration
}

// Progress is a point-in-time snapshot of a column task.
type Progress struct {
	Field     extract.Field
	Processed int64
	Total     int64
}

// Percent returns completion as 0-100.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// Enricher computes one derived column by applying scheme resolution, page
// fetch and a single field extractor to each row's URL in turn.
type Enricher struct {
	field    extract.Field
	resolver *fetch.Resolver
	fetcher  *fetch.Fetcher
	logEvery int
	log      *logrus.Entry

	processed atomic.Int64
	total     atomic.Int64
}

// NewEnricher creates a column enricher for one field. logEvery controls how
// often row-level progress is logged.
func NewEnricher(field extract.Field, resolver *fetch.Resolver, fetcher *fetch.Fetcher, logEvery int, log *logrus.Logger) *Enricher {
	if logEvery <= 0 {
		logEvery = 10
	}
	return &Enricher{
		field:    field,
		resolver: resolver,
		fetcher:  fetcher,
		logEvery: logEvery,
		log:      log.WithField("field", field.Column()),
	}
}

// Progress returns the current row counter for this column task.
func (e *Enricher) Progress() Progress {
	return Progress{
		Field:     e.field,
		Processed: e.processed.Load(),
		Total:     e.total.Load(),
	}
}

// EnrichColumn derives the field's value for every URL, sequentially and in
// input order. The input slice is never modified. All per-row failures
// (unresolvable scheme, exhausted retries, heuristic misses) degrade to an
// empty cell; the only returned error is context cancellation, which aborts
// the run.
func (e *Enricher) EnrichColumn(ctx context.Context, urls []string) (ColumnResult, error) {
	start := time.Now()
	e.total.Store(int64(len(urls)))
	e.processed.Store(0)

	result := ColumnResult{
		Field:  e.field,
		Values: make([]string, len(urls)),
	}

	e.log.Infof("Starting column enrichment (%d rows)", len(urls))

	for i, rawURL := range urls {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if value, ok := e.enrichRow(ctx, rawURL); ok {
			result.Values[i] = value
			result.Hits++
		}

		done := e.processed.Add(1)
		if int(done)%e.logEvery == 0 || int(done) == len(urls) {
			e.log.Infof("Progress: %d/%d rows (%.1f%%)", done, len(urls), e.Progress().Percent())
		}
	}

	result.Duration = time.Since(start)
	e.log.WithFields(logrus.Fields{
		"hits":    result.Hits,
		"rows":    len(urls),
		"elapsed": result.Duration,
	}).Info("Column enrichment complete")
	return result, nil
}

// enrichRow runs resolve -> fetch -> extract for a single URL. ok is false
// for every failure class: none of them may escape this boundary.
func (e *Enricher) enrichRow(ctx context.Context, rawURL string) (string, bool) {
	rowLog := e.log.WithField("url", rawURL)

	resolved, err := e.resolver.ResolveScheme(ctx, rawURL)
	if err != nil {
		rowLog.WithField("category", utils.CategorizeError(err)).Debugf("Scheme resolution failed: %v", err)
		return "", false
	}

	if !e.field.RequiresFetch() {
		return extract.MediaName(resolved)
	}

	doc, err := e.fetcher.FetchDocument(ctx, resolved)
	if err != nil {
		rowLog.WithField("category", utils.CategorizeError(err)).Debugf("Fetch failed: %v", err)
		return "", false
	}

	// A heuristic miss is the expected common case, not worth logging
	return e.field.FromDocument(doc)
}
