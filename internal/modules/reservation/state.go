package reservation

import (
	"time"

	"marketplace/internal/domain"
)

type Event string

const (
	EventConfirm        Event = "confirm"
	EventCancel         Event = "cancel"
	EventCapturePayment Event = "capture_payment"
)

// Roles lists who may trigger the event. Confirmation and payment capture
// belong to the venue owner; either side may cancel.
func (e Event) Roles() []domain.Role {
	switch e {
	case EventConfirm, EventCapturePayment:
		return []domain.Role{domain.RoleBusinessOwner}
	case EventCancel:
		return []domain.Role{domain.RoleCustomer, domain.RoleBusinessOwner}
	default:
		return nil
	}
}

// Command is one requested transition.
type Command struct {
	Event      Event
	PaymentRef string
}

// Effects are the side effects a transition demands.
type Effects struct {
	ReleaseSlot bool
	Refund      bool
}

// Apply computes the state that follows cmd. It does not touch storage.
//
//	pending            --confirm-->          confirmed
//	pending|confirmed  --cancel-->           cancelled (paid becomes refunded)
//	confirmed          --capture_payment-->  confirmed (pending becomes paid)
//	cancelled          --any-->              InvalidTransition
func Apply(cur domain.Reservation, cmd Command, now time.Time) (domain.Reservation, Effects, error) {
	next := cur
	var fx Effects

	if cur.Status == domain.ReservationCancelled {
		return cur, fx, domain.Errorf(domain.ErrInvalidTransition, "reservation %s is cancelled", cur.ID)
	}

	switch cmd.Event {
	case EventConfirm:
		if cur.Status != domain.ReservationPending {
			return cur, fx, invalid(cur, cmd.Event)
		}
		next.Status = domain.ReservationConfirmed

	case EventCancel:
		next.Status = domain.ReservationCancelled
		cancelledAt := now.UTC()
		next.CancelledAt = &cancelledAt
		if cur.PaymentStatus == domain.PaymentPaid {
			next.PaymentStatus = domain.PaymentRefunded
			fx.Refund = true
		}
		fx.ReleaseSlot = !cur.SlotReleased

	case EventCapturePayment:
		if cur.Status != domain.ReservationConfirmed || cur.PaymentStatus != domain.PaymentPending {
			return cur, fx, invalid(cur, cmd.Event)
		}
		next.PaymentStatus = domain.PaymentPaid
		next.PaymentRef = cmd.PaymentRef

	default:
		return cur, fx, domain.Errorf(domain.ErrValidation, "unknown event %q", cmd.Event)
	}

	return next, fx, nil
}

func invalid(cur domain.Reservation, e Event) error {
	return domain.Errorf(domain.ErrInvalidTransition, "cannot %s a %s reservation with %s payment", e, cur.Status, cur.PaymentStatus)
}
