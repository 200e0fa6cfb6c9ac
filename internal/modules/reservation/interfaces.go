package reservation

import (
	"context"

	"gorm.io/gorm"

	"marketplace/internal/domain"
	"marketplace/internal/modules/capacity"
	"marketplace/internal/modules/ownership"
)

type CapacityLedger interface {
	TryReserve(ctx context.Context, draft *domain.Reservation) (capacity.SlotToken, error)
	ReleaseTx(ctx context.Context, tx *gorm.DB, reservationID string) (bool, error)
}

type ChainValidator interface {
	Authorize(ctx context.Context, account *domain.Account, ref ownership.ResourceRef, required domain.Role) error
}
