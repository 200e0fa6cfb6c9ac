package reservation

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/domain"
	"marketplace/internal/events"
	"marketplace/internal/modules/ownership"
	"marketplace/internal/payments"
	"marketplace/internal/repository"
)

const defaultSideEffectTimeout = 10 * time.Second

type Config struct {
	RefundTimeout time.Duration
	Logger        *slog.Logger
}

// Service owns the reservation state machine. Mutations run in a store
// transaction; refunds and events go out after commit and never affect the
// result.
type Service struct {
	store     *repository.Store
	ledger    CapacityLedger
	chain     ChainValidator
	refunds   payments.RefundGateway
	publisher events.Publisher
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

func NewService(
	store *repository.Store,
	ledger CapacityLedger,
	chain ChainValidator,
	refunds payments.RefundGateway,
	publisher events.Publisher,
	cfg Config,
) *Service {
	if refunds == nil {
		refunds = payments.Nop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if cfg.RefundTimeout <= 0 {
		cfg.RefundTimeout = defaultSideEffectTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		store:     store,
		ledger:    ledger,
		chain:     chain,
		refunds:   refunds,
		publisher: publisher,
		timeout:   cfg.RefundTimeout,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// Create takes a capacity slot and stores a pending reservation for the
// customer.
func (s *Service) Create(ctx context.Context, customerID, offeringID string) (*domain.Reservation, error) {
	draft := &domain.Reservation{
		CustomerID:    customerID,
		OfferingID:    offeringID,
		Status:        domain.ReservationPending,
		PaymentStatus: domain.PaymentPending,
	}
	if _, err := s.ledger.TryReserve(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created", "reservation_id", draft.ID, "offering_id", offeringID, "customer_id", customerID)
	s.emit(ctx, events.FromReservation(events.ReservationCreated, draft, customerID))
	return draft, nil
}

// Transition applies cmd on behalf of actor. Ownership is checked again for
// the specific event; status, payment and the capacity release are written
// together under an optimistic version check.
func (s *Service) Transition(ctx context.Context, reservationID string, cmd Command, actor *domain.Account) (*domain.Reservation, error) {
	roles := cmd.Event.Roles()
	if len(roles) == 0 {
		return nil, domain.Errorf(domain.ErrValidation, "unknown event %q", cmd.Event)
	}
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	required := roles[0]
	if slices.Contains(roles, actor.Role) {
		required = actor.Role
	}
	if err := s.chain.Authorize(ctx, actor, ownership.Reservation(reservationID), required); err != nil {
		return nil, err
	}

	var (
		updated *domain.Reservation
		fx      Effects
		amount  int64
	)
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		reservations := repository.NewReservationRepository(tx)

		cur, err := reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		next, effects, err := Apply(*cur, cmd, s.now())
		if err != nil {
			return err
		}
		if effects.ReleaseSlot {
			if _, err := s.ledger.ReleaseTx(ctx, tx, reservationID); err != nil {
				return err
			}
			next.SlotReleased = true
		}
		if effects.Refund {
			offering, err := repository.NewOfferingRepository(tx).GetByID(ctx, cur.OfferingID)
			if err != nil {
				return err
			}
			amount = offering.Price
		}
		if err := reservations.CompareAndSwap(ctx, &next, cur.Version); err != nil {
			return err
		}

		updated, fx = &next, effects
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation transitioned",
		"reservation_id", updated.ID,
		"event", cmd.Event,
		"actor_id", actor.ID,
		"status", updated.Status,
		"payment_status", updated.PaymentStatus,
	)

	if fx.Refund {
		s.requestRefund(ctx, updated, amount)
	}
	s.emit(ctx, events.FromReservation(eventType(cmd.Event), updated, actor.ID))
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return repository.NewReservationRepository(s.store.DB()).GetByID(ctx, id)
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Reservation, error) {
	return repository.NewReservationRepository(s.store.DB()).List(ctx, repository.ReservationFilters{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *Service) ListForOffering(ctx context.Context, offeringID string, status domain.ReservationStatus, limit, offset int) ([]domain.Reservation, error) {
	return repository.NewReservationRepository(s.store.DB()).List(ctx, repository.ReservationFilters{
		OfferingID: offeringID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
}

// Wait blocks until every refund and event started so far has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) requestRefund(ctx context.Context, r *domain.Reservation, amount int64) {
	req := payments.RefundRequest{
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		OfferingID:    r.OfferingID,
		PaymentRef:    r.PaymentRef,
		Amount:        amount,
	}
	s.detached(ctx, func(ctx context.Context) {
		if err := s.refunds.RequestRefund(ctx, req); err != nil {
			s.logger.Error("refund request failed", "reservation_id", req.ReservationID, "payment_ref", req.PaymentRef, "amount", req.Amount, "error", err)
			return
		}
		s.logger.Info("refund requested", "reservation_id", req.ReservationID)
	})
}

func (s *Service) emit(ctx context.Context, e events.Event) {
	s.detached(ctx, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("event publish failed", "type", e.Type, "reservation_id", e.ReservationID, "error", err)
		}
	})
}

// detached runs fn in the background with a context that outlives the
// request but is bounded by the side-effect timeout.
func (s *Service) detached(parent context.Context, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func eventType(e Event) events.Type {
	switch e {
	case EventConfirm:
		return events.ReservationConfirmed
	case EventCancel:
		return events.ReservationCancelled
	default:
		return events.PaymentCaptured
	}
}
