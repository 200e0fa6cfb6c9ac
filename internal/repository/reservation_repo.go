package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/domain"
)

type ReservationFilters struct {
	CustomerID string
	OfferingID string
	Status     domain.ReservationStatus
	Limit      int
	Offset     int
}

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

// Create inserts a fresh reservation at version 1.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	now := time.Now().UTC()
	res.Version = 1
	res.SlotReleased = false
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	m := toReservationModel(res)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "reservation %s not found", id)
	}
	return toDomainReservation(m), nil
}

func (r *ReservationRepository) List(ctx context.Context, f ReservationFilters) ([]domain.Reservation, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&reservationModel{})
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.OfferingID != "" {
		q = q.Where("offering_id = ?", f.OfferingID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var rows []reservationModel
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// CompareAndSwap persists the status, payment and cancellation fields of res
// only if the stored version still equals expected. On success res.Version is
// advanced; otherwise ErrStaleWrite is returned and nothing is written.
func (r *ReservationRepository) CompareAndSwap(ctx context.Context, res *domain.Reservation, expected int64) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND version = ?", res.ID, expected).
		Updates(map[string]any{
			"status":         string(res.Status),
			"payment_status": string(res.PaymentStatus),
			"payment_ref":    optional(res.PaymentRef),
			"cancelled_at":   res.CancelledAt,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleWrite
	}
	res.Version = expected + 1
	res.UpdatedAt = now
	return nil
}

// MarkSlotReleased flips the release guard. It reports false when the flag
// was already set, so callers return the slot at most once.
func (r *ReservationRepository) MarkSlotReleased(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND slot_released = ?", id, false).
		Update("slot_released", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// CountHolding returns the number of reservations of an offering that still
// occupy a slot.
func (r *ReservationRepository) CountHolding(ctx context.Context, offeringID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("offering_id = ? AND status IN ?", offeringID,
			[]string{string(domain.ReservationPending), string(domain.ReservationConfirmed)}).
		Count(&n).Error
	return int(n), err
}

// HasConfirmed reports whether the customer holds a confirmed reservation for
// the offering.
func (r *ReservationRepository) HasConfirmed(ctx context.Context, customerID, offeringID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("customer_id = ? AND offering_id = ? AND status = ?", customerID, offeringID, string(domain.ReservationConfirmed)).
		Count(&n).Error
	return n > 0, err
}
