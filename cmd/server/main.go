package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/category"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/config"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/credit"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/eventbus"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/ledger"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/logging"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/router"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage/memory"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage/postgres"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/subscription"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/transaction"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var publisher interfaces.EventPublisher = eventbus.NopPublisher{}
	if cfg.Kafka.Enabled {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		defer kp.Close()
		publisher = kp
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	accounts := ledger.NewLedger(store, logger)
	categories := category.NewRegistry(store, logger)
	transactions := transaction.NewEngine(store, accounts, categories, publisher, logger)
	loans := credit.NewLoanEngine(store, accounts, publisher, logger)
	debts := credit.NewDebtEngine(store, accounts, publisher, logger)
	scheduler := subscription.NewScheduler(store, accounts, categories, transactions, logger)

	if _, err := categories.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := accounts.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("seed default account: %w", err)
	}

	var runner *subscription.Runner
	if cfg.Scheduler.Enabled {
		loc, err := cfg.Scheduler.Location()
		if err != nil {
			return err
		}
		runner = subscription.NewRunner(scheduler, cfg.Scheduler.Cron, loc, logger)
		if err := runner.Start(); err != nil {
			return err
		}
	}

	svc := router.Services{
		Ledger:       accounts,
		Categories:   categories,
		Transactions: transactions,
		Loans:        loans,
		Debts:        debts,
		Scheduler:    scheduler,
		Runner:       runner,
	}
	if db != nil {
		svc.DB = db
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRouter(cfg.Server.Mode, svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("database", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if runner != nil {
		runner.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore returns the configured record store. The *sql.DB is nil for the
// memory driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (interfaces.Store, *sql.DB, error) {
	if cfg.Driver != config.DriverPostgres {
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.NewMemoryStore(), nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DSN, cfg.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("database migrations applied")
	}
	return postgres.NewPostgresStore(db), db, nil
}
