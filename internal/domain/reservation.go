package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Holds reports whether a reservation in this status occupies a capacity slot.
func (s ReservationStatus) Holds() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Reservation invariants:
//   - cancelled is terminal
//   - refunded is reachable only from paid, through a cancellation
//   - the capacity slot is released once, when status first becomes cancelled
type Reservation struct {
	ID            string            `json:"id"`
	CustomerID    string            `json:"customer_id"`
	OfferingID    string            `json:"offering_id"`
	Status        ReservationStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	PaymentRef    string            `json:"payment_ref,omitempty"`
	SlotReleased  bool              `json:"-"`
	Version       int64             `json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
}
