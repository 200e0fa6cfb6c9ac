package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"marketplace/internal/database"
	"marketplace/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name), database.Quiet())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedOffering(t *testing.T, db *gorm.DB, capacity int) (*domain.Venue, *domain.Offering) {
	t.Helper()
	ctx := context.Background()

	venue := &domain.Venue{OwnerID: "owner-1", Name: "Loft", Address: "1 Main St"}
	require.NoError(t, NewVenueRepository(db).Create(ctx, venue))

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	offering := &domain.Offering{
		VenueID:  venue.ID,
		Name:     "Morning session",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
		Capacity: capacity,
		Price:    5000,
	}
	require.NoError(t, NewOfferingRepository(db).Create(ctx, offering))
	return venue, offering
}
