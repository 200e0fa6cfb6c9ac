package reservation

import "marketplace/internal/domain"

type CapturePaymentRequest struct {
	PaymentRef string `json:"payment_ref" binding:"required,max=255"`
}

type ListResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Limit        int                  `json:"limit"`
	Page         int                  `json:"page"`
}
