package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	acc := &domain.Account{ID: "uid-1", Email: " Alice@Example.com ", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, acc))
	assert.Equal(t, "alice@example.com", acc.Email)

	got, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, got.Role)

	err = repo.Create(ctx, &domain.Account{ID: "uid-1", Email: "other@example.com", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueRepository_UpdateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVenueRepository(db)
	ctx := context.Background()

	v := &domain.Venue{OwnerID: "owner-1", Name: "Loft", Address: "1 Main St", City: "Almaty"}
	require.NoError(t, repo.Create(ctx, v))
	require.NotEmpty(t, v.ID)
	require.NoError(t, repo.Create(ctx, &domain.Venue{OwnerID: "owner-2", Name: "Hall", Address: "2 Main St"}))

	v.Name = "Big Loft"
	require.NoError(t, repo.Update(ctx, v))

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big Loft", got.Name)
	assert.Equal(t, "owner-1", got.OwnerID)

	list, total, err := repo.List(ctx, VenueFilters{OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	err = repo.Update(ctx, &domain.Venue{ID: "nope", Name: "x", Address: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferingRepository_TakeSlotStopsAtCapacity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOfferingRepository(db)
	ctx := context.Background()
	_, o := seedOffering(t, db, 2)

	for i := 0; i < 2; i++ {
		ok, err := repo.TakeSlot(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.TakeSlot(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	returned, err := repo.ReturnSlot(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, returned)
	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReservedCount)
	assert.Equal(t, 1, got.Available())

	ok, err = repo.TakeSlot(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOfferingRepository_UpdateRejectsCapacityBelowHeld(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOfferingRepository(db)
	ctx := context.Background()
	_, o := seedOffering(t, db, 3)

	for i := 0; i < 2; i++ {
		_, err := repo.TakeSlot(ctx, o.ID)
		require.NoError(t, err)
	}

	o.Capacity = 1
	assert.ErrorIs(t, repo.Update(ctx, o), domain.ErrConflict)

	o.Capacity = 2
	require.NoError(t, repo.Update(ctx, o))

	o.ID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, o), domain.ErrNotFound)
}

func TestOfferingRepository_ListByWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOfferingRepository(db)
	ctx := context.Background()
	venue, first := seedOffering(t, db, 1)

	later := &domain.Offering{
		VenueID:  venue.ID,
		Name:     "Evening",
		StartsAt: first.StartsAt.Add(48 * time.Hour),
		EndsAt:   first.StartsAt.Add(50 * time.Hour),
		Capacity: 4,
	}
	require.NoError(t, repo.Create(ctx, later))

	all, err := repo.List(ctx, OfferingFilters{VenueID: venue.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	from := first.StartsAt.Add(time.Hour)
	window, err := repo.List(ctx, OfferingFilters{VenueID: venue.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, later.ID, window[0].ID)
}

func TestReservationRepository_CompareAndSwap(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	_, o := seedOffering(t, db, 1)

	res := &domain.Reservation{
		CustomerID:    "cust-1",
		OfferingID:    o.ID,
		Status:        domain.ReservationPending,
		PaymentStatus: domain.PaymentPending,
	}
	require.NoError(t, repo.Create(ctx, res))
	assert.EqualValues(t, 1, res.Version)

	stale := *res
	res.Status = domain.ReservationConfirmed
	require.NoError(t, repo.CompareAndSwap(ctx, res, 1))
	assert.EqualValues(t, 2, res.Version)

	stale.Status = domain.ReservationCancelled
	assert.ErrorIs(t, repo.CompareAndSwap(ctx, &stale, 1), ErrStaleWrite)

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status)
	assert.EqualValues(t, 2, got.Version)
}

func TestReservationRepository_MarkSlotReleasedOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	_, o := seedOffering(t, db, 1)

	res := &domain.Reservation{CustomerID: "cust-1", OfferingID: o.ID, Status: domain.ReservationPending, PaymentStatus: domain.PaymentPending}
	require.NoError(t, repo.Create(ctx, res))

	flipped, err := repo.MarkSlotReleased(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkSlotReleased(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, flipped)
}

func TestReservationRepository_ListAndCountHolding(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	_, o := seedOffering(t, db, 5)

	statuses := []domain.ReservationStatus{domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCancelled}
	for i, s := range statuses {
		res := &domain.Reservation{CustomerID: "cust-1", OfferingID: o.ID, Status: s, PaymentStatus: domain.PaymentPending}
		if i == 2 {
			res.CustomerID = "cust-2"
		}
		require.NoError(t, repo.Create(ctx, res))
	}

	mine, err := repo.List(ctx, ReservationFilters{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	cancelled, err := repo.List(ctx, ReservationFilters{OfferingID: o.ID, Status: domain.ReservationCancelled})
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	holding, err := repo.CountHolding(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, holding)
}

func TestReviewRepository_OnePerCustomerAndOffering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	venue, o := seedOffering(t, db, 1)

	rv := &domain.Review{CustomerID: "cust-1", OfferingID: o.ID, VenueID: venue.ID, Rating: 5, Comment: "great"}
	require.NoError(t, repo.Create(ctx, rv))

	err := repo.Create(ctx, &domain.Review{CustomerID: "cust-1", OfferingID: o.ID, VenueID: venue.ID, Rating: 3})
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := repo.ListByVenue(ctx, venue.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "great", list[0].Comment)

	res := NewResources(db)
	got, err := res.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, venue.ID, got.VenueID)
}
