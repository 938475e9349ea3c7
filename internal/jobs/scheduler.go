// Package jobs runs the shop's periodic maintenance on a cron schedule:
// flagging overdue invoices, warning about low stock and importing
// companies from the ERP directory.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single run when no timeout is configured
const DefaultJobTimeout = 5 * time.Minute

// Job is one unit of scheduled work. The context carries the system user.
type Job func(ctx context.Context) error

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	mu      sync.Mutex
	jobs    map[string]cron.EntryID
}

// NewScheduler creates a scheduler whose expressions include a seconds field.
// Overlapping runs of the same job are skipped and panics are recovered.
func NewScheduler(logger *zap.Logger, m *metrics.Metrics, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	cronLog := zapCronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(
				cron.Recover(cronLog),
				cron.SkipIfStillRunning(cronLog),
			),
		),
		logger:  logger,
		metrics: m,
		timeout: timeout,
		jobs:    make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Strings("jobs", s.JobNames()))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under name. An empty expression leaves the job disabled.
//
// Examples:
//   - "0 0 6 * * *" - every day at 06:00
//   - "@every 1h"   - every hour
func (s *Scheduler) AddJob(name, cronExpr string, job Job) error {
	if cronExpr == "" {
		s.logger.Info("scheduled job disabled", zap.String("job_name", name))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() { s.RunNow(name, job) })
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))

	return nil
}

// RunNow executes job synchronously with the scheduler's timeout and system identity
func (s *Scheduler) RunNow(name string, job Job) error {
	ctx, cancel := context.WithTimeout(
		auth.WithUserContext(context.Background(), auth.NewSystemContext()),
		s.timeout,
	)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	s.metrics.JobRun(name, err)

	if err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job_name", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	s.logger.Info("completed scheduled job",
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)

	s.logger.Info("removed scheduled job", zap.String("job_name", name))
	return nil
}

// JobNames returns the names of all registered jobs, sorted.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
