/*
Package sentiment scores headline text and attaches the scores to headline records.
*/
package sentiment

import (
	"context"
	"errors"
	"sync"
)

// ErrScoreOutOfRange is returned when a scorer produces a value outside [-1, 1].
var ErrScoreOutOfRange = errors.New("compound score out of range")

// Scorer returns the compound polarity of text, from -1.0 (most negative) to +1.0
// (most positive). Implementations must return the same score for the same text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Cached memoizes a Scorer so repeated text is scored once per process. It makes
// remote scorers deterministic for the lifetime of the cache. The zero value with
// Scorer set is ready to use.
type Cached struct {
	Scorer Scorer

	mu     sync.Mutex
	scores map[string]float64
}

// NewCached wraps s.
func NewCached(s Scorer) *Cached {
	return &Cached{Scorer: s, scores: make(map[string]float64)}
}

func (c *Cached) Score(ctx context.Context, text string) (float64, error) {
	c.mu.Lock()
	if v, ok := c.scores[text]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := c.Scorer.Score(ctx, text)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scores == nil {
		c.scores = make(map[string]float64)
	}
	// Keep the first stored score if another caller raced us.
	if prev, ok := c.scores[text]; ok {
		return prev, nil
	}
	c.scores[text] = v
	return v, nil
}

// Len returns the number of cached texts.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scores)
}
