package scheduler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"NewsSentinel/internal/chart"
	"NewsSentinel/internal/logging"
	"NewsSentinel/internal/model"
	"NewsSentinel/internal/notifier"
	"NewsSentinel/internal/pipeline"
	"NewsSentinel/internal/recorder"
)

// Scheduler runs the pipeline on a cron schedule and on demand, then fans the outcome
// out to the chart, the recorder and every reporter.
type Scheduler struct {
	Cron      *cron.Cron
	Pipeline  *pipeline.Pipeline
	Tickers   []model.Ticker
	Recorder  recorder.Recorder
	Reporters []notifier.Reporter
	Out       io.Writer
	Logger    *log.Logger
	Ctx       context.Context

	mu   sync.Mutex // one run at a time
	last *pipeline.Result
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, tickers []model.Ticker, rec recorder.Recorder, out io.Writer, logger *log.Logger, reporters ...notifier.Reporter) *Scheduler {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Pipeline:  p,
		Tickers:   tickers,
		Recorder:  rec,
		Reporters: reporters,
		Out:       out,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// Register adds the pipeline run under the given cron spec (with seconds field).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes one pipeline run immediately and delivers its outcome.
func (s *Scheduler) RunNow() (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	res, err := s.Pipeline.Run(s.Ctx, s.Tickers)
	if err != nil {
		s.Logger.Error().Err(err).Msg("pipeline run failed")
		s.record(recorder.AbortedSnapshot(s.Tickers, s.Pipeline.Policy, started, err))
		for _, r := range s.Reporters {
			if rerr := r.ReportFailure(s.Ctx, err); rerr != nil {
				s.Logger.Error().Err(rerr).Msg("report failure")
			}
		}
		return nil, err
	}

	if s.Out != nil {
		fmt.Fprint(s.Out, chart.Render(res.Table))
	}
	s.record(recorder.CompletedSnapshot(res, s.Pipeline.Policy))
	for _, r := range s.Reporters {
		if rerr := r.Report(s.Ctx, res); rerr != nil {
			s.Logger.Error().Err(rerr).Msg("send report")
		}
	}
	s.last = res
	return res, nil
}

// Last returns the most recent successful result, or nil.
func (s *Scheduler) Last() *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) runTask() {
	s.Logger.Info().Msg("running scheduled pipeline")
	_, _ = s.RunNow()
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	// Telegram appends the bot name in groups: /sentiment@MyBot
	cmd, _, _ := strings.Cut(strings.TrimSpace(command), "@")
	switch cmd {
	case "/sentiment":
		// The run itself reports through the reporters.
		if _, err := s.RunNow(); err != nil && len(s.Reporters) == 0 {
			return notifier.FormatAbort(err)
		}
		return ""
	case "/last":
		if res := s.Last(); res != nil {
			return notifier.FormatReport(res)
		}
		return "No completed run yet."
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) record(snap *recorder.RunSnapshot) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.RecordRun(snap); err != nil {
		s.Logger.Error().Str("run_id", snap.RunID).Err(err).Msg("record run")
	}
}
