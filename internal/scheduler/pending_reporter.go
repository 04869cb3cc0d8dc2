// Package scheduler runs periodic ledger reports.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/observability"
	"github.com/ntuananhdevs/banking-onl/internal/repository"
	"github.com/robfig/cron/v3"
)

const reportTimeout = 10 * time.Second

// PendingReporter publishes how many deposits are still waiting for a payment
// notification and how long the oldest one has waited.
type PendingReporter struct {
	cron            *cron.Cron
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

func NewPendingReporter(transactionRepo repository.TransactionRepository) *PendingReporter {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	return &PendingReporter{
		cron:            cron.New(cron.WithChain(cron.Recover(cronLogger))),
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// Start schedules the report and starts the cron scheduler.
func (r *PendingReporter) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		r.Report(ctx)
	}); err != nil {
		slog.Error("failed to schedule pending deposit report", "schedule", schedule, "error", err)
		return err
	}
	slog.Info("scheduled pending deposit report", "schedule", schedule)
	r.cron.Start()
	return nil
}

// Stop returns a context that is done once a running report has finished.
func (r *PendingReporter) Stop() context.Context {
	return r.cron.Stop()
}

func (r *PendingReporter) Report(ctx context.Context) {
	stats, err := r.transactionRepo.PendingStats(ctx)
	if err != nil {
		slog.Error("failed to read pending deposit stats", "error", err)
		return
	}

	observability.PendingDeposits.Set(float64(stats.Count))
	age := 0.0
	if stats.Count > 0 && !stats.OldestCreated.IsZero() {
		age = r.now().Sub(stats.OldestCreated).Seconds()
	}
	observability.OldestPendingDepositAge.Set(age)

	slog.Debug("pending deposit report", "count", stats.Count, "oldest_age_seconds", age)
}
