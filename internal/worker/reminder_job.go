package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
	"maliyye/internal/services"
)

// ReminderJob logs the upcoming payments whose reminder window is open.
type ReminderJob struct {
	store   SnapshotLoader
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReminderJob(store SnapshotLoader, m *metrics.Metrics) *ReminderJob {
	return &ReminderJob{store: store, metrics: m, now: time.Now}
}

func (j *ReminderJob) Name() string { return "payment-reminders" }

// Run scans the stored snapshot once and returns the payments it reminded about.
func (j *ReminderJob) Run(ctx context.Context) ([]services.DuePayment, error) {
	s, ok, err := j.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return nil, nil
	}

	due := services.DuePayments(s, j.now())
	for _, p := range due {
		level := slog.LevelInfo
		if p.Overdue {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Payment reminder",
			applog.FieldComponent, applog.ComponentWorker,
			applog.FieldPaymentName, p.Title,
			"amount", p.Amount.String(),
			"due_date", p.DueDate,
			"type", string(p.Kind),
			"days_left", p.DaysLeft,
			"overdue", p.Overdue)
	}
	j.metrics.AddReminders(len(due))
	return due, nil
}
