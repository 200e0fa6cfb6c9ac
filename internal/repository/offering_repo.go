package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/domain"
)

type OfferingFilters struct {
	VenueID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type OfferingRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OfferingRepository) WithTx(tx *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: tx}
}

func (r *OfferingRepository) Create(ctx context.Context, o *domain.Offering) error {
	o.ReservedCount = 0
	m := toOfferingModel(o)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*o = *toDomainOffering(m)
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	var m offeringModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "offering %s not found", id)
	}
	return toDomainOffering(m), nil
}

// Update writes the descriptive fields and capacity. Capacity may not drop
// below the number of slots currently held.
func (r *OfferingRepository) Update(ctx context.Context, o *domain.Offering) error {
	tx := r.db.WithContext(ctx).
		Model(&offeringModel{}).
		Where("id = ? AND reserved_count <= ?", o.ID, o.Capacity).
		Updates(map[string]any{
			"name":        o.Name,
			"description": optional(o.Description),
			"starts_at":   o.StartsAt.UTC(),
			"ends_at":     o.EndsAt.UTC(),
			"capacity":    o.Capacity,
			"price":       o.Price,
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, o.ID); err != nil {
			return err
		}
		return domain.Errorf(domain.ErrConflict, "capacity %d is below the number of held reservations", o.Capacity)
	}
	return nil
}

func (r *OfferingRepository) List(ctx context.Context, f OfferingFilters) ([]domain.Offering, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&offeringModel{})
	if f.VenueID != "" {
		q = q.Where("venue_id = ?", f.VenueID)
	}
	if f.From != nil {
		q = q.Where("starts_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("starts_at < ?", f.To.UTC())
	}

	var rows []offeringModel
	if err := q.Order("starts_at ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Offering, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOffering(m))
	}
	return out, nil
}

// TakeSlot is the ledger's conditional write: the counter moves only while it
// is below capacity, checked and incremented in one statement. It reports
// whether a slot was taken.
func (r *OfferingRepository) TakeSlot(ctx context.Context, offeringID string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&offeringModel{}).
		Where("id = ? AND reserved_count < capacity", offeringID).
		Updates(map[string]any{
			"reserved_count": gorm.Expr("reserved_count + 1"),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// ReturnSlot gives one slot back. The counter never goes below zero; false
// means there was nothing to return.
func (r *OfferingRepository) ReturnSlot(ctx context.Context, offeringID string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&offeringModel{}).
		Where("id = ? AND reserved_count > 0", offeringID).
		Updates(map[string]any{
			"reserved_count": gorm.Expr("reserved_count - 1"),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// GetForUpdate reads the offering and locks its row until the surrounding
// transaction ends.
func (r *OfferingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Offering, error) {
	var m offeringModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, "offering %s not found", id)
	}
	return toDomainOffering(m), nil
}

func (r *OfferingRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&offeringModel{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// SetReservedCount overwrites the counter. Used by reconciliation only.
func (r *OfferingRepository) SetReservedCount(ctx context.Context, offeringID string, count int) error {
	return r.db.WithContext(ctx).
		Model(&offeringModel{}).
		Where("id = ?", offeringID).
		Updates(map[string]any{
			"reserved_count": count,
			"updated_at":     time.Now().UTC(),
		}).Error
}
