package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/modules/capacity"
	"marketplace/internal/repository"
)

// reconcile recomputes every offering's reserved count from the reservations
// that still hold a slot. It runs once with -once, otherwise every
// RECONCILE_EVERY until interrupted.
func main() {
	once := flag.Bool("once", false, "run a single pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	store := repository.NewStore(db, repository.WithAttempts(cfg.TxAttempts), repository.WithLogger(logger))
	ledger := capacity.NewLedger(store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := pass(ctx, ledger, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("scheduler", "error", err)
		os.Exit(1)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(cfg.ReconcileEvery),
		gocron.NewTask(func() { _ = pass(ctx, ledger, logger) }),
		gocron.WithName("capacity-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		logger.Error("schedule reconcile", "error", err)
		os.Exit(1)
	}

	sched.Start()
	logger.Info("reconcile scheduled", "every", cfg.ReconcileEvery)
	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", "error", err)
	}
}

func pass(ctx context.Context, ledger *capacity.Ledger, logger *slog.Logger) error {
	fixed, err := ledger.Reconcile(ctx)
	if err != nil {
		logger.Error("reconcile failed", "error", err)
		return err
	}
	logger.Info("reconcile complete", "offerings_fixed", fixed)
	return nil
}
