package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/domain"
)

type VenueFilters struct {
	OwnerID string
	City    string
	Limit   int
	Offset  int
}

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(ctx context.Context, v *domain.Venue) error {
	m := toVenueModel(v)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*v = *toDomainVenue(m)
	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	var m venueModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "venue %s not found", id)
	}
	return toDomainVenue(m), nil
}

// Update writes the descriptive fields. OwnerID is never changed here.
func (r *VenueRepository) Update(ctx context.Context, v *domain.Venue) error {
	tx := r.db.WithContext(ctx).
		Model(&venueModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]any{
			"name":        v.Name,
			"address":     v.Address,
			"city":        optional(v.City),
			"description": optional(v.Description),
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "venue %s not found", v.ID)
	}
	return nil
}

func (r *VenueRepository) List(ctx context.Context, f VenueFilters) ([]domain.Venue, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&venueModel{})
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []venueModel
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Venue, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVenue(m))
	}
	return out, total, nil
}
