// Package interest implements the accrual math for overdue debts.
//
// Months overdue are counted on a flat 30-day month: elapsed days are
// rounded up, then divided by 30 and rounded up again. This is not
// calendar-month aware. Stored adjusted amounts in existing datasets depend
// on this exact approximation, so it must not be "fixed" to calendar math.
package interest

import (
	"math"
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MonthsOverdue returns how many flat 30-day months have elapsed since the
// due date. Zero when now is on or before the due date.
func MonthsOverdue(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	days := int(math.Ceil(now.Sub(dueDate).Hours() / 24))
	return (days + 29) / 30
}

// CompoundedAmount applies monthly compound interest over the given number
// of months: principal * (1 + rate/100)^months.
// No rounding happens here; callers round at the point of persistence or
// display to avoid compounding rounding error.
func CompoundedAmount(principal, monthlyRatePercent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return principal
	}
	factor := one.Add(monthlyRatePercent.Div(hundred))
	return principal.Mul(factor.Pow(decimal.NewFromInt(int64(months))))
}

// CorrectedAmount returns the principal plus interest accrued beyond the
// grace period, as of now. The grace boundary is inclusive: a debt overdue
// by exactly graceMonths months carries no interest yet.
func CorrectedAmount(principal decimal.Decimal, dueDate time.Time, monthlyRatePercent decimal.Decimal, graceMonths int, now time.Time) decimal.Decimal {
	overdue := MonthsOverdue(dueDate, now)
	if overdue <= graceMonths {
		return principal
	}
	return CompoundedAmount(principal, monthlyRatePercent, overdue-graceMonths)
}

// Status derives the lifecycle state of an unpaid debt from its due date.
// A debt already marked paid must never be passed here; callers check paid
// first and skip.
func Status(dueDate, now time.Time) domain.DebtStatus {
	if now.After(dueDate) {
		return domain.DebtOverdue
	}
	return domain.DebtPending
}

// RoundCurrency rounds a decimal amount to 2 places for persistence/display.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
