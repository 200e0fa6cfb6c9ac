package capacity

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// SlotToken proves a slot was taken for a reservation.
type SlotToken struct {
	OfferingID    string
	ReservationID string
}

// Ledger keeps offerings.reserved_count equal to the number of reservations
// holding a slot. The counter only moves through conditional writes, so any
// number of processes may share one database.
type Ledger struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewLedger(store *repository.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, logger: logger}
}

// TryReserve takes a slot and inserts draft in one transaction. The draft is
// filled in with its stored id and version.
func (l *Ledger) TryReserve(ctx context.Context, draft *domain.Reservation) (SlotToken, error) {
	err := l.store.Transaction(ctx, func(tx *gorm.DB) error {
		return l.ReserveTx(ctx, tx, draft)
	})
	if err != nil {
		return SlotToken{}, err
	}
	return SlotToken{OfferingID: draft.OfferingID, ReservationID: draft.ID}, nil
}

// ReserveTx is TryReserve inside a caller-owned transaction.
func (l *Ledger) ReserveTx(ctx context.Context, tx *gorm.DB, draft *domain.Reservation) error {
	offerings := repository.NewOfferingRepository(tx)

	taken, err := offerings.TakeSlot(ctx, draft.OfferingID)
	if err != nil {
		return err
	}
	if !taken {
		if _, err := offerings.GetByID(ctx, draft.OfferingID); err != nil {
			return err
		}
		return domain.Errorf(domain.ErrCapacityExceeded, "offering %s is fully booked", draft.OfferingID)
	}

	return repository.NewReservationRepository(tx).Create(ctx, draft)
}

// Release returns the reservation's slot. Calling it again is a no-op.
func (l *Ledger) Release(ctx context.Context, reservationID string) (bool, error) {
	var released bool
	err := l.store.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		released, err = l.ReleaseTx(ctx, tx, reservationID)
		return err
	})
	return released, err
}

// ReleaseTx is Release inside a caller-owned transaction. It reports whether
// this call was the one that returned the slot.
func (l *Ledger) ReleaseTx(ctx context.Context, tx *gorm.DB, reservationID string) (bool, error) {
	reservations := repository.NewReservationRepository(tx)

	res, err := reservations.GetByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	flipped, err := reservations.MarkSlotReleased(ctx, reservationID)
	if err != nil || !flipped {
		return false, err
	}

	returned, err := repository.NewOfferingRepository(tx).ReturnSlot(ctx, res.OfferingID)
	if err != nil {
		return false, err
	}
	if !returned {
		l.logger.Warn("capacity counter already at zero", "offering_id", res.OfferingID, "reservation_id", reservationID)
	}
	return true, nil
}

// Available returns the number of free slots.
func (l *Ledger) Available(ctx context.Context, offeringID string) (int, error) {
	o, err := repository.NewOfferingRepository(l.store.DB()).GetByID(ctx, offeringID)
	if err != nil {
		return 0, err
	}
	return o.Available(), nil
}

// Reconcile recounts every offering's held reservations and repairs counters
// that drifted. It returns the number of offerings it corrected.
func (l *Ledger) Reconcile(ctx context.Context) (int, error) {
	ids, err := repository.NewOfferingRepository(l.store.DB()).ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		changed, err := l.reconcileOne(ctx, id)
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed++
		}
	}
	return fixed, nil
}

func (l *Ledger) reconcileOne(ctx context.Context, offeringID string) (bool, error) {
	changed := false
	err := l.store.Transaction(ctx, func(tx *gorm.DB) error {
		changed = false
		offerings := repository.NewOfferingRepository(tx)

		// Lock first so in-flight reservations commit before the recount.
		o, err := offerings.GetForUpdate(ctx, offeringID)
		if err != nil {
			return err
		}
		holding, err := repository.NewReservationRepository(tx).CountHolding(ctx, offeringID)
		if err != nil {
			return err
		}
		if holding == o.ReservedCount {
			return nil
		}
		if holding > o.Capacity {
			l.logger.Error("offering overbooked", "offering_id", offeringID, "holding", holding, "capacity", o.Capacity)
			return nil
		}

		l.logger.Warn("capacity counter drift", "offering_id", offeringID, "counter", o.ReservedCount, "holding", holding)
		if err := offerings.SetReservedCount(ctx, offeringID, holding); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}
