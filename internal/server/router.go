package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace/internal/events"
	"marketplace/internal/middleware"
	"marketplace/internal/modules/auth"
	"marketplace/internal/modules/capacity"
	"marketplace/internal/modules/catalog"
	"marketplace/internal/modules/gate"
	"marketplace/internal/modules/identity"
	"marketplace/internal/modules/ownership"
	"marketplace/internal/modules/reservation"
	"marketplace/internal/modules/review"
	"marketplace/internal/payments"
	"marketplace/internal/pkg/response"
	"marketplace/internal/repository"
)

// Deps are the process-level collaborators built in main.
type Deps struct {
	DB                 *gorm.DB
	Store              *repository.Store
	Verifier           identity.CredentialVerifier
	AccountCache       identity.AccountCache
	Refunds            payments.RefundGateway
	Events             events.Publisher
	RefundTimeout      time.Duration
	HideForbiddenAs404 bool
	CORSOrigins        []string
	Logger             *slog.Logger
}

// App is the wired HTTP application.
type App struct {
	Router       *gin.Engine
	Ledger       *capacity.Ledger
	Reservations *reservation.Service
}

func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	accountRepo := repository.NewAccountRepository(d.DB)
	venueRepo := repository.NewVenueRepository(d.DB)
	offeringRepo := repository.NewOfferingRepository(d.DB)
	reservationRepo := repository.NewReservationRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)

	chain := ownership.NewValidator(repository.NewResources(d.DB))
	resolver := identity.NewResolver(d.Verifier, accountRepo, d.AccountCache, d.Logger)
	g := gate.New(resolver, chain, d.Logger)

	ledger := capacity.NewLedger(d.Store, d.Logger)
	reservations := reservation.NewService(d.Store, ledger, chain, d.Refunds, d.Events, reservation.Config{
		RefundTimeout: d.RefundTimeout,
		Logger:        d.Logger,
	})

	authHandler := auth.NewHandler(g, resolver)
	catalogHandler := catalog.NewHandler(g, catalog.NewService(venueRepo, offeringRepo, d.Logger))
	reservationHandler := reservation.NewHandler(g, reservations)
	reviewHandler := review.NewHandler(g, review.NewService(reviewRepo, offeringRepo, reservationRepo, d.Logger))

	r := gin.New()
	r.Use(middleware.ErrorLogger(d.Logger))
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.HideForbidden(d.HideForbiddenAs404))

	r.GET("/health", health(d.DB))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		reservationHandler.RegisterRoutes(v1)
		reviewHandler.RegisterRoutes(v1)
	}

	return &App{Router: r, Ledger: ledger, Reservations: reservations}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
