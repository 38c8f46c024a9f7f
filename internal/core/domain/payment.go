package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received from a client against one of its debts.
// Payments are immutable once created except for UpdatedAt bookkeeping on the
// optional note. They are not netted against the debt's adjusted amount and
// never transition a debt to paid; marking a debt paid is an explicit action.
type Payment struct {
	PaymentID string          `json:"id"`
	ClientID  string          `json:"clientId"`
	DebtID    string          `json:"debtId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`

	AuditFields
}
