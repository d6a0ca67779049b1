package recorder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"NewsSentinel/internal/collector"
	"NewsSentinel/internal/model"
	"NewsSentinel/internal/pipeline"
)

// Run statuses.
const (
	StatusCompleted = "COMPLETED"
	StatusAborted   = "ABORTED"
)

// RunSnapshot holds everything recorded about one pipeline run.
type RunSnapshot struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Policy     string
	Tickers    []model.Ticker
	Status     string
	Result     *pipeline.Result // nil when the run aborted
	Err        error
}

// CompletedSnapshot wraps a finished run.
func CompletedSnapshot(res *pipeline.Result, policy pipeline.FailurePolicy) *RunSnapshot {
	return &RunSnapshot{
		RunID:      res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Policy:     string(policy),
		Tickers:    res.Tickers,
		Status:     StatusCompleted,
		Result:     res,
	}
}

// AbortedSnapshot describes a run that returned err instead of a result. When err is a
// *pipeline.RunError its run id and start time are kept so the row matches the run's log
// lines; otherwise a fresh id and startedAt are used.
func AbortedSnapshot(tickers []model.Ticker, policy pipeline.FailurePolicy, startedAt time.Time, err error) *RunSnapshot {
	runID := uuid.NewString()
	var re *pipeline.RunError
	if errors.As(err, &re) {
		runID = re.RunID
		if !re.StartedAt.IsZero() {
			startedAt = re.StartedAt
		}
	}
	return &RunSnapshot{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Policy:     string(policy),
		Tickers:    tickers,
		Status:     StatusAborted,
		Err:        err,
	}
}

// failures lists the ticker failures of the run. An aborted run has at most one.
func (s *RunSnapshot) failures() []*collector.TickerError {
	if s.Result != nil {
		return s.Result.Failures
	}
	var te *collector.TickerError
	if errors.As(s.Err, &te) {
		return []*collector.TickerError{te}
	}
	return nil
}

// Recorder exports run history for dashboards. Nothing reads it back into a run.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
