package worker

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Exec(ctx context.Context) error
}

// Exec adapts ReminderJob to Job.
func (j *ReminderJob) Exec(ctx context.Context) error {
	_, err := j.Run(ctx)
	return err
}

// Scheduler runs jobs on cron schedules with a seconds field, e.g.
// "0 0 8 * * *" for every day at 08:00 or "@every 30s".
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// Add registers job. Each run gets ctx, so cancelling it aborts in-flight work.
func (s *Scheduler) Add(ctx context.Context, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		slog.DebugContext(ctx, "Running job", "job", job.Name())
		if err := job.Exec(ctx); err != nil {
			slog.ErrorContext(ctx, "Job failed", "job", job.Name(), "error", err)
		}
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	slog.InfoContext(ctx, "Scheduler started", "jobs", len(s.cron.Entries()))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.InfoContext(context.Background(), "Scheduler stopped")
	return nil
}
