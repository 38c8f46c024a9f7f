package dto

import (
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a payment.
type CreatePaymentRequest struct {
	ClientID string          `json:"clientId" binding:"required"`
	DebtID   string          `json:"debtId" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     time.Time       `json:"date" binding:"required"`
	Note     string          `json:"note"`
}

// UpdatePaymentRequest allows amending the free-text note only; recorded
// amounts and dates are immutable.
type UpdatePaymentRequest struct {
	Note *string `json:"note"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	DebtID    string          `json:"debtId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.PaymentID,
		ClientID:  p.ClientID,
		DebtID:    p.DebtID,
		Amount:    p.Amount,
		Date:      p.Date,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
