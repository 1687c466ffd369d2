package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"go.uber.org/zap"
)

// RunReport describes one pass over the subscriptions due on a day.
type RunReport struct {
	Day       time.Time
	Processed []models.Transaction
	Skipped   int
	Failed    int
}

// Runner charges due subscriptions once a day on a cron schedule.
type Runner struct {
	scheduler *Scheduler
	cron      *cron.Cron
	spec      string
	loc       *time.Location
	timeout   time.Duration
	logger    *zap.Logger
}

// NewRunner builds a runner firing on spec (standard five field cron syntax)
// in loc. A nil loc means the local time zone.
func NewRunner(scheduler *Scheduler, spec string, loc *time.Location, logger *zap.Logger) *Runner {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("subscription_runner")
	cronLog := newCronLogger(logger)
	return &Runner{
		scheduler: scheduler,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		spec:    spec,
		loc:     loc,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// Start registers the daily job and starts the cron scheduler in its own goroutine.
func (r *Runner) Start() error {
	_, err := r.cron.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		report, err := r.RunNow(ctx)
		if err != nil {
			r.logger.Error("subscription run finished with failures", zap.Error(err))
		}
		r.logger.Info("subscription run finished",
			zap.Time("day", report.Day),
			zap.Int("processed", len(report.Processed)),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed))
	})
	if err != nil {
		return fmt.Errorf("schedule subscription runner %q: %w", r.spec, err)
	}
	r.cron.Start()
	r.logger.Info("subscription runner started", zap.String("spec", r.spec), zap.String("timezone", r.loc.String()))
	return nil
}

// Stop halts the scheduler and waits for a running job until ctx is done.
func (r *Runner) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn("subscription runner stop timed out")
	}
}

// RunNow processes the subscriptions due today in the runner's time zone.
func (r *Runner) RunNow(ctx context.Context) (RunReport, error) {
	return r.ProcessDue(ctx, time.Now().In(r.loc))
}

// ProcessDue charges every active subscription due on day whose date window
// contains day and that has not been charged on that day yet. On the last day
// of a month, subscriptions billed on a later day number are due as well.
// A failing subscription is logged and does not stop the others; the
// returned error joins every failure.
func (r *Runner) ProcessDue(ctx context.Context, day time.Time) (RunReport, error) {
	report := RunReport{Day: day}

	due, err := r.dueOn(ctx, day)
	if err != nil {
		return report, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var errs []error
	for _, sub := range due {
		if !sub.InWindow(day) {
			report.Skipped++
			continue
		}

		charged, err := r.scheduler.transactions.GetFiltered(ctx, models.TransactionFilter{
			SubscriptionID: sub.ID,
			StartDate:      &start,
			EndDate:        &end,
		})
		if err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
			continue
		}
		if len(charged) > 0 {
			report.Skipped++
			continue
		}

		tx, err := r.scheduler.charge(ctx, sub, day)
		if err != nil {
			report.Failed++
			r.logger.Warn("charge subscription failed", zap.String("subscription_id", sub.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
			continue
		}
		report.Processed = append(report.Processed, tx)
	}
	return report, errors.Join(errs...)
}

func (r *Runner) dueOn(ctx context.Context, day time.Time) ([]models.Subscription, error) {
	lastDay := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location()).Day()
	if day.Day() != lastDay {
		return r.scheduler.GetDueOn(ctx, day.Day())
	}

	active, err := r.scheduler.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	var due []models.Subscription
	for _, sub := range active {
		if sub.BillingDay >= lastDay {
			due = append(due, sub)
		}
	}
	return due, nil
}
