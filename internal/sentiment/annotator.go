package sentiment

import (
	"context"
	"fmt"
	"math"
	"sync"

	"NewsSentinel/internal/model"
)

// Annotator attaches a compound score to each headline record.
type Annotator struct {
	Scorer  Scorer
	Workers int
}

// NewAnnotator creates an Annotator that scores up to workers titles at once.
func NewAnnotator(s Scorer, workers int) *Annotator {
	if workers <= 0 {
		workers = 1
	}
	return &Annotator{Scorer: s, Workers: workers}
}

// Annotate scores every record. The output is index-aligned with records. The first
// scorer error cancels the remaining work and is returned.
func (a *Annotator) Annotate(ctx context.Context, records []model.HeadlineRecord) ([]model.AnnotatedRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]model.AnnotatedRecord, len(records))
	sem := make(chan struct{}, max(a.Workers, 1))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := range records {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			score, err := a.score(ctx, records[i].Title)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("score %s %q: %w", records[i].Ticker, records[i].Title, err)
					cancel()
				})
				return
			}
			out[i] = model.AnnotatedRecord{HeadlineRecord: records[i], Compound: score}
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Annotator) score(ctx context.Context, text string) (float64, error) {
	v, err := a.Scorer.Score(ctx, text)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < -1 || v > 1 {
		return 0, fmt.Errorf("%w: %v", ErrScoreOutOfRange, v)
	}
	return v, nil
}
