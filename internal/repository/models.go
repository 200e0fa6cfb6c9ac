package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/domain"
)

type accountModel struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(128)"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	Role      string    `gorm:"column:role;type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (accountModel) TableName() string { return "accounts" }

type venueModel struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	OwnerID     string    `gorm:"column:owner_id;type:varchar(128);not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Address     string    `gorm:"column:address;not null"`
	City        *string   `gorm:"column:city;index"`
	Description *string   `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (venueModel) TableName() string { return "venues" }

func (m *venueModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type offeringModel struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	VenueID       string    `gorm:"column:venue_id;type:varchar(36);not null;index:idx_offerings_venue_start,priority:1"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description;type:text"`
	StartsAt      time.Time `gorm:"column:starts_at;not null;index:idx_offerings_venue_start,priority:2"`
	EndsAt        time.Time `gorm:"column:ends_at;not null"`
	Capacity      int       `gorm:"column:capacity;not null;check:chk_offerings_capacity,capacity > 0"`
	Price         int64     `gorm:"column:price;not null;default:0;check:chk_offerings_price,price >= 0"`
	ReservedCount int       `gorm:"column:reserved_count;not null;default:0;check:chk_offerings_reserved,reserved_count >= 0 AND reserved_count <= capacity"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (offeringModel) TableName() string { return "offerings" }

func (m *offeringModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type reservationModel struct {
	ID            string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	CustomerID    string     `gorm:"column:customer_id;type:varchar(128);not null;index"`
	OfferingID    string     `gorm:"column:offering_id;type:varchar(36);not null;index:idx_reservations_offering_status,priority:1"`
	Status        string     `gorm:"column:status;type:varchar(16);not null;index:idx_reservations_offering_status,priority:2"`
	PaymentStatus string     `gorm:"column:payment_status;type:varchar(16);not null"`
	PaymentRef    *string    `gorm:"column:payment_ref"`
	SlotReleased  bool       `gorm:"column:slot_released;not null;default:false"`
	Version       int64      `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func (m *reservationModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type reviewModel struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	CustomerID string    `gorm:"column:customer_id;type:varchar(128);not null;uniqueIndex:idx_reviews_customer_offering,priority:1"`
	OfferingID string    `gorm:"column:offering_id;type:varchar(36);not null;uniqueIndex:idx_reviews_customer_offering,priority:2"`
	VenueID    string    `gorm:"column:venue_id;type:varchar(36);not null;index"`
	Rating     int       `gorm:"column:rating;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Comment    *string   `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func (m *reviewModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AutoMigrate creates or updates every table the core uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&venueModel{},
		&offeringModel{},
		&reservationModel{},
		&reviewModel{},
	)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainAccount(m accountModel) *domain.Account {
	return &domain.Account{
		ID:        m.ID,
		Email:     m.Email,
		Role:      domain.Role(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

func toAccountModel(a *domain.Account) accountModel {
	return accountModel{
		ID:        a.ID,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}

func toDomainVenue(m venueModel) *domain.Venue {
	return &domain.Venue{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Address:     m.Address,
		City:        deref(m.City),
		Description: deref(m.Description),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toVenueModel(v *domain.Venue) venueModel {
	return venueModel{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Name:        v.Name,
		Address:     v.Address,
		City:        optional(v.City),
		Description: optional(v.Description),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toDomainOffering(m offeringModel) *domain.Offering {
	return &domain.Offering{
		ID:            m.ID,
		VenueID:       m.VenueID,
		Name:          m.Name,
		Description:   deref(m.Description),
		StartsAt:      m.StartsAt.UTC(),
		EndsAt:        m.EndsAt.UTC(),
		Capacity:      m.Capacity,
		Price:         m.Price,
		ReservedCount: m.ReservedCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toOfferingModel(o *domain.Offering) offeringModel {
	return offeringModel{
		ID:            o.ID,
		VenueID:       o.VenueID,
		Name:          o.Name,
		Description:   optional(o.Description),
		StartsAt:      o.StartsAt.UTC(),
		EndsAt:        o.EndsAt.UTC(),
		Capacity:      o.Capacity,
		Price:         o.Price,
		ReservedCount: o.ReservedCount,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		OfferingID:    m.OfferingID,
		Status:        domain.ReservationStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		PaymentRef:    deref(m.PaymentRef),
		SlotReleased:  m.SlotReleased,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		OfferingID:    r.OfferingID,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		PaymentRef:    optional(r.PaymentRef),
		SlotReleased:  r.SlotReleased,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CancelledAt:   r.CancelledAt,
	}
}

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		OfferingID: m.OfferingID,
		VenueID:    m.VenueID,
		Rating:     m.Rating,
		Comment:    deref(m.Comment),
		CreatedAt:  m.CreatedAt,
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	return reviewModel{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		OfferingID: r.OfferingID,
		VenueID:    r.VenueID,
		Rating:     r.Rating,
		Comment:    optional(r.Comment),
		CreatedAt:  r.CreatedAt,
	}
}
