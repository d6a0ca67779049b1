/*
Package pipeline runs the full headline sentiment flow for a list of tickers: collect
each ticker's headlines, score every title, then average per ticker and day.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"NewsSentinel/internal/aggregate"
	"NewsSentinel/internal/collector"
	"NewsSentinel/internal/logging"
	"NewsSentinel/internal/model"
	"NewsSentinel/internal/sentiment"
)

// FailurePolicy decides what a ticker-level failure does to the run.
type FailurePolicy string

const (
	// Abort stops the whole run on the first ticker failure.
	Abort FailurePolicy = "abort"
	// Skip drops the failed ticker, records why, and carries on.
	Skip FailurePolicy = "skip"
)

// ParsePolicy converts a config string into a FailurePolicy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case Abort, Skip:
		return p, nil
	}
	return "", fmt.Errorf("unknown failure policy %q", s)
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Tickers    []model.Ticker
	Table      *aggregate.Table
	Records    []model.AnnotatedRecord
	RowCount   int
	Failures   []*collector.TickerError
	Malformed  []collector.RowIssue
}

// Pipeline wires collection, scoring and aggregation together.
type Pipeline struct {
	Collector   *collector.Collector
	Annotator   *sentiment.Annotator
	Policy      FailurePolicy
	Concurrency int
	Logger      *log.Logger
}

// New creates a Pipeline.
func New(col *collector.Collector, ann *sentiment.Annotator, policy FailurePolicy, concurrency int, logger *log.Logger) *Pipeline {
	return &Pipeline{
		Collector:   col,
		Annotator:   ann,
		Policy:      policy,
		Concurrency: concurrency,
		Logger:      logger,
	}
}

type tickerOutcome struct {
	batch *collector.TickerBatch
	err   *collector.TickerError
}

// RunError ends a run early. It carries the id the run logged under so the failure can
// be matched with its log lines.
type RunError struct {
	RunID     string
	StartedAt time.Time
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s: %v", e.RunID, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Run processes tickers and returns the aggregate table. Under Abort the first ticker
// failure ends the run with a *RunError wrapping the *collector.TickerError, and no
// table is produced. Under Skip failures are listed in Result.Failures. Scorer errors
// always end the run.
func (p *Pipeline) Run(ctx context.Context, tickers []model.Ticker) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Tickers:   tickers,
	}
	logger := p.logger()
	logger.Info().Str("run_id", res.RunID).Int("tickers", len(tickers)).Str("policy", string(p.Policy)).Msg("run started")

	outcomes, err := p.collectAll(ctx, tickers)
	if err != nil {
		logger.Error().Str("run_id", res.RunID).Err(err).Msg("run aborted")
		return nil, &RunError{RunID: res.RunID, StartedAt: res.StartedAt, Err: err}
	}

	// Merge in input order so the record set does not depend on scheduling.
	var records []model.HeadlineRecord
	for i, o := range outcomes {
		if o.err != nil {
			logger.Warn().Str("run_id", res.RunID).Str("ticker", string(tickers[i])).
				Str("stage", string(o.err.Stage)).Err(o.err.Err).Msg("skipping ticker")
			res.Failures = append(res.Failures, o.err)
			continue
		}
		res.RowCount += o.batch.RowCount
		res.Malformed = append(res.Malformed, o.batch.Malformed...)
		records = append(records, o.batch.Records...)
	}

	annotated, err := p.Annotator.Annotate(ctx, records)
	if err != nil {
		logger.Error().Str("run_id", res.RunID).Err(err).Msg("annotate failed")
		return nil, &RunError{RunID: res.RunID, StartedAt: res.StartedAt, Err: fmt.Errorf("annotate: %w", err)}
	}
	res.Records = annotated
	res.Table = aggregate.Aggregate(annotated)
	res.FinishedAt = time.Now()

	logger.Info().Str("run_id", res.RunID).Int("rows", res.RowCount).Int("records", len(annotated)).
		Int("malformed", len(res.Malformed)).Int("failed_tickers", len(res.Failures)).
		Int("cells", res.Table.Len()).Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).Msg("run finished")
	return res, nil
}

// collectAll runs the per-ticker collectors with bounded concurrency. Each ticker's
// rows are handled by a single goroutine, so document order and the carried date stay
// local to that ticker.
func (p *Pipeline) collectAll(ctx context.Context, tickers []model.Ticker) ([]tickerOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]tickerOutcome, len(tickers))
	sem := make(chan struct{}, max(p.Concurrency, 1))
	var (
		wg       sync.WaitGroup
		abortErr error
		once     sync.Once
	)

	for i, ticker := range tickers {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, ticker model.Ticker) {
			defer wg.Done()
			defer func() { <-sem }()

			batch, err := p.Collector.Collect(ctx, ticker)
			if err == nil {
				outcomes[i] = tickerOutcome{batch: batch}
				return
			}
			var te *collector.TickerError
			if !errors.As(err, &te) {
				te = &collector.TickerError{Ticker: ticker, Stage: collector.StageFetch, Err: err}
			}
			outcomes[i] = tickerOutcome{err: te}
			if p.Policy == Abort {
				once.Do(func() {
					abortErr = te
					cancel()
				})
			}
		}(i, ticker)
	}
	wg.Wait()

	if abortErr != nil {
		return nil, abortErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewSilent()
}
