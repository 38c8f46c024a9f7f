package dto

import (
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest defines the data needed to register a new debt.
// MonthlyRatePercent and GraceMonths fall back to the domain defaults
// (3% and 2 months) when omitted.
type CreateDebtRequest struct {
	ClientID           string           `json:"clientId" binding:"required"`
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	DueDate            time.Time        `json:"dueDate" binding:"required"`
	Description        string           `json:"description"`
	MonthlyRatePercent *decimal.Decimal `json:"monthlyRatePercent"`
	GraceMonths        *int             `json:"graceMonths" binding:"omitempty,min=0"`
}

// UpdateDebtRequest defines the fields allowed when updating a debt.
type UpdateDebtRequest struct {
	Amount             *decimal.Decimal `json:"amount"`
	DueDate            *time.Time       `json:"dueDate"`
	Description        *string          `json:"description"`
	MonthlyRatePercent *decimal.Decimal `json:"monthlyRatePercent"`
	GraceMonths        *int             `json:"graceMonths" binding:"omitempty,min=0"`
}

// DebtResponse defines the data returned for a debt.
type DebtResponse struct {
	ID                 string            `json:"id"`
	ClientID           string            `json:"clientId"`
	Amount             decimal.Decimal   `json:"amount"`
	DueDate            time.Time         `json:"dueDate"`
	Description        string            `json:"description"`
	Status             domain.DebtStatus `json:"status"`
	MonthlyRatePercent decimal.Decimal   `json:"monthlyRatePercent"`
	GraceMonths        int               `json:"graceMonths"`
	AdjustedAmount     decimal.Decimal   `json:"adjustedAmount"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// ToDebtResponse converts a domain.Debt to its response DTO.
func ToDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		ID:                 d.DebtID,
		ClientID:           d.ClientID,
		Amount:             d.Amount,
		DueDate:            d.DueDate,
		Description:        d.Description,
		Status:             d.Status,
		MonthlyRatePercent: d.MonthlyRatePercent,
		GraceMonths:        d.GraceMonths,
		AdjustedAmount:     d.AdjustedAmount,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}
