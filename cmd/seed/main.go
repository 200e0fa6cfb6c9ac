package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/domain"
	jwtsvc "marketplace/internal/pkg/jwt"
	"marketplace/internal/repository"
)

type seedAccount struct {
	id    string
	email string
	role  domain.Role
}

var accounts = []seedAccount{
	{id: "seed-owner-1", email: "owner1@marketplace.test", role: domain.RoleBusinessOwner},
	{id: "seed-owner-2", email: "owner2@marketplace.test", role: domain.RoleBusinessOwner},
	{id: "seed-customer-1", email: "customer1@marketplace.test", role: domain.RoleCustomer},
	{id: "seed-customer-2", email: "customer2@marketplace.test", role: domain.RoleCustomer},
	{id: "seed-admin", email: "admin@marketplace.test", role: domain.RoleAdmin},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db connection failed", "error", err)
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	slog.Info("cleaning old data")
	for _, table := range []string{"reviews", "reservations", "offerings", "venues", "accounts"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			slog.Error("cleanup failed", "table", table, "error", err)
			os.Exit(1)
		}
	}

	if err := seed(context.Background(), db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	if cfg.AuthProvider != "jwt" {
		slog.Info("seed complete; sign in through the configured provider to obtain tokens")
		return
	}
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	fmt.Println("Development tokens:")
	for _, a := range accounts {
		tok, err := j.GenerateToken(a.id, a.email)
		if err != nil {
			slog.Error("token", "account", a.id, "error", err)
			os.Exit(1)
		}
		fmt.Printf("  %-16s %-15s %s\n", a.id, a.role, tok)
	}
}

func seed(ctx context.Context, db *gorm.DB) error {
	accountRepo := repository.NewAccountRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)

	for _, a := range accounts {
		if err := accountRepo.Create(ctx, &domain.Account{ID: a.id, Email: a.email, Role: a.role}); err != nil {
			return fmt.Errorf("account %s: %w", a.id, err)
		}
	}

	venues := []domain.Venue{
		{OwnerID: "seed-owner-1", Name: "Riverside Loft", Address: "12 Quay St", City: "Almaty", Description: "Daylight studio by the river"},
		{OwnerID: "seed-owner-1", Name: "Basement Club", Address: "3 Abay Ave", City: "Almaty"},
		{OwnerID: "seed-owner-2", Name: "Sky Hall", Address: "88 Kabanbay Batyr", City: "Astana"},
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	for i := range venues {
		v := &venues[i]
		if err := venueRepo.Create(ctx, v); err != nil {
			return fmt.Errorf("venue %s: %w", v.Name, err)
		}
		for slot := 0; slot < 3; slot++ {
			start := day.Add(time.Duration(10+slot*3) * time.Hour)
			o := &domain.Offering{
				VenueID:  v.ID,
				Name:     fmt.Sprintf("%s session %d", v.Name, slot+1),
				StartsAt: start,
				EndsAt:   start.Add(2 * time.Hour),
				Capacity: 1 + slot*4,
				Price:    int64(2000 + slot*1500),
			}
			if err := offeringRepo.Create(ctx, o); err != nil {
				return fmt.Errorf("offering %s: %w", o.Name, err)
			}
		}
		slog.Info("venue seeded", "venue_id", v.ID, "name", v.Name)
	}
	return nil
}
