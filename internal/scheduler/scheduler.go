package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc builds and delivers one digest.
type RunFunc func(ctx context.Context) error

// parser accepts standard 5-field expressions and descriptors like @daily or @every 6h.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler owns the daemon loop: runs the digest on a cron schedule until
// the context is cancelled. A tick that fires while the previous run is
// still going is skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	run      RunFunc
	logger   *slog.Logger
}

// NewScheduler parses spec and returns a scheduler that calls run on every tick.
func NewScheduler(spec string, run RunFunc, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		spec:     spec,
		schedule: schedule,
		run:      run,
		logger:   logger,
	}, nil
}

// Next returns the first tick after from.
func (s *Scheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Run starts the cron loop. It returns nil when ctx is cancelled (graceful
// shutdown), after any in-flight run has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
		cron.WithLogger(cronLogger{s.logger}),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))

	s.logger.Info("starting scheduler",
		"schedule", s.spec,
		"next_run", s.Next(time.Now()).Format(time.RFC3339),
	)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// RunOnce runs the digest immediately, logging any failure.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("scheduled digest failed", "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
		return
	}
	s.logger.Info("scheduled digest complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"next_run", s.Next(time.Now()).Format(time.RFC3339),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
