package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/events"
	"marketplace/internal/modules/identity"
	"marketplace/internal/payments"
	"marketplace/internal/pkg/firebaseauth"
	jwtsvc "marketplace/internal/pkg/jwt"
	"marketplace/internal/repository"
	"marketplace/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	var cache identity.AccountCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, account cache disabled", "error", err)
		} else {
			cache = identity.NewRedisAccountCache(rdb, cfg.AccountCacheTTL, logger)
		}
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	refunds := newRefundGateway(cfg, publisher)

	if cfg.AppEnv != "dev" && cfg.AppEnv != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := server.New(server.Deps{
		DB:                 db,
		Store:              repository.NewStore(db, repository.WithAttempts(cfg.TxAttempts), repository.WithLogger(logger)),
		Verifier:           verifier,
		AccountCache:       cache,
		Refunds:            refunds,
		Events:             publisher,
		RefundTimeout:      cfg.RefundTimeout,
		HideForbiddenAs404: cfg.HideForbiddenAs404,
		CORSOrigins:        cfg.CORSAllowedOrigins,
		Logger:             logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv, "auth", cfg.AuthProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Let in-flight refunds and events finish before the publisher closes.
	app.Reservations.Wait()
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.AppEnv == "dev" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newVerifier(ctx context.Context, cfg *config.Config) (identity.CredentialVerifier, error) {
	if cfg.AuthProvider == "firebase" {
		return firebaseauth.New(ctx, cfg.FirebaseCredentials, cfg.FirebaseProjectID)
	}
	return jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL), nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.EventsBroker {
	case "kafka":
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic), nil
	case "rabbitmq":
		return events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsTopic)
	default:
		return events.Nop{}, nil
	}
}

func newRefundGateway(cfg *config.Config, publisher events.Publisher) payments.RefundGateway {
	switch cfg.RefundGateway {
	case "stripe":
		return payments.NewStripeGateway(cfg.StripeSecretKey)
	case "broker":
		return payments.NewBrokerGateway(publisher)
	default:
		return payments.Nop{}
	}
}
