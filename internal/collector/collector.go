package collector

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"NewsSentinel/internal/model"
	"NewsSentinel/internal/timestamp"
)

// Stage names the step of per-ticker collection that failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
)

// TickerError is a failure that rejects one ticker's whole row sequence.
type TickerError struct {
	Ticker model.Ticker
	Stage  Stage
	Err    error
}

func (e *TickerError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Ticker, e.Err)
}

func (e *TickerError) Unwrap() error { return e.Err }

// RowIssue reports a row that was excluded from the record set.
type RowIssue struct {
	Ticker model.Ticker
	Index  int // position in document order
	Row    model.RawRow
	Err    error
}

// TickerBatch is everything collected for one ticker.
type TickerBatch struct {
	Ticker    model.Ticker
	RowCount  int
	Records   []model.HeadlineRecord
	Malformed []RowIssue
}

// Collector fetches, extracts and normalizes the headlines of one ticker at a time.
type Collector struct {
	Fetcher    Fetcher
	Extractor  RowExtractor
	Normalizer *timestamp.Normalizer
	UserAgent  string
	Logger     *log.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, extractor RowExtractor, normalizer *timestamp.Normalizer, userAgent string) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Extractor:  extractor,
		Normalizer: normalizer,
		UserAgent:  userAgent,
	}
}

// Collect builds the HeadlineRecords of one ticker. Every row is either turned into a
// record or reported in Malformed. Failures that reject the whole ticker are returned
// as *TickerError.
func (c *Collector) Collect(ctx context.Context, ticker model.Ticker) (*TickerBatch, error) {
	doc, err := c.Fetcher.Fetch(ctx, ticker, c.UserAgent)
	if err != nil {
		return nil, &TickerError{Ticker: ticker, Stage: StageFetch, Err: err}
	}

	rows, err := c.Extractor.Extract(doc)
	if err != nil {
		return nil, &TickerError{Ticker: ticker, Stage: StageExtract, Err: err}
	}

	fragments := make([]string, len(rows))
	for i, row := range rows {
		fragments[i] = row.Timestamp
	}
	outcomes, err := c.Normalizer.Normalize(fragments)
	if err != nil {
		return nil, &TickerError{Ticker: ticker, Stage: StageNormalize, Err: err}
	}

	batch := &TickerBatch{Ticker: ticker, RowCount: len(rows)}
	for i, row := range rows {
		o := outcomes[i]
		switch {
		case o.Err != nil:
			batch.Malformed = append(batch.Malformed, RowIssue{Ticker: ticker, Index: i, Row: row, Err: o.Err})
		case row.Title == "":
			batch.Malformed = append(batch.Malformed, RowIssue{
				Ticker: ticker, Index: i, Row: row,
				Err: fmt.Errorf("%w: missing title", timestamp.ErrMalformedRow),
			})
		default:
			batch.Records = append(batch.Records, model.HeadlineRecord{
				Ticker: ticker,
				Date:   o.Stamp.Date,
				Time:   o.Stamp.Time,
				Title:  row.Title,
			})
		}
	}

	if c.Logger != nil {
		for _, issue := range batch.Malformed {
			c.Logger.Warn().Str("ticker", string(ticker)).Int("row", issue.Index).
				Str("timestamp", issue.Row.Timestamp).Err(issue.Err).Msg("excluding malformed row")
		}
		c.Logger.Debug().Str("ticker", string(ticker)).Int("rows", batch.RowCount).
			Int("records", len(batch.Records)).Int("malformed", len(batch.Malformed)).Msg("collected")
	}
	return batch, nil
}
