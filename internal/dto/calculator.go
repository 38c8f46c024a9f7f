package dto

import (
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculatorRequest is a pure interest preview: nothing is persisted.
// AsOf defaults to the current time when omitted.
type CalculatorRequest struct {
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	DueDate            time.Time        `json:"dueDate" binding:"required"`
	MonthlyRatePercent *decimal.Decimal `json:"monthlyRatePercent"`
	GraceMonths        *int             `json:"graceMonths" binding:"omitempty,min=0"`
	AsOf               *time.Time       `json:"asOf"`
}

// CalculatorResponse returns the accrual breakdown for the given inputs.
type CalculatorResponse struct {
	MonthsOverdue   int               `json:"monthsOverdue"`
	Status          domain.DebtStatus `json:"status"`
	Amount          decimal.Decimal   `json:"amount"`
	CorrectedAmount decimal.Decimal   `json:"correctedAmount"`
	Interest        decimal.Decimal   `json:"interest"`
}
