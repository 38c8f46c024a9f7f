package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	DebtPending DebtStatus = "pending"
	DebtPaid    DebtStatus = "paid"
	DebtOverdue DebtStatus = "overdue"
)

// DefaultMonthlyRatePercent is applied when a debt is created without an explicit rate.
var DefaultMonthlyRatePercent = decimal.NewFromInt(3)

// DefaultGraceMonths is the number of months after the due date during which
// no interest accrues (interest begins in the month after the grace period).
const DefaultGraceMonths = 2

// Debt represents a single receivable owed by exactly one client.
//
// AdjustedAmount is derived: principal plus any interest accrued past the
// grace period, as of the last recomputation. Invariants:
//   - AdjustedAmount >= Amount at all times
//   - a paid debt's AdjustedAmount is frozen and never recomputed again
type Debt struct {
	DebtID      string          `json:"id"`
	ClientID    string          `json:"clientId"` // Owning client reference
	Amount      decimal.Decimal `json:"amount"`   // Principal, positive
	DueDate     time.Time       `json:"dueDate"`
	Description string          `json:"description"`
	Status      DebtStatus      `json:"status"`

	MonthlyRatePercent decimal.Decimal `json:"monthlyRatePercent"`
	GraceMonths        int             `json:"graceMonths"`
	AdjustedAmount     decimal.Decimal `json:"adjustedAmount"`

	AuditFields
}
