package dto

import "github.com/shopspring/decimal"

// DashboardResponse aggregates the collection portfolio for the dashboard.
// Corrected totals are evaluated against the current time.
type DashboardResponse struct {
	ClientCount    int             `json:"clientCount"`
	DebtCount      int             `json:"debtCount"`
	PendingCount   int             `json:"pendingCount"`
	OverdueCount   int             `json:"overdueCount"`
	PaidCount      int             `json:"paidCount"`
	TotalPrincipal decimal.Decimal `json:"totalPrincipal"`
	TotalCorrected decimal.Decimal `json:"totalCorrected"`
	TotalOverdue   decimal.Decimal `json:"totalOverdue"`
}

// CollectionMessageRequest selects the debt a collection message is built for.
type CollectionMessageRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	DebtID   string `json:"debtId" binding:"required"`
}

// CollectionMessageResponse carries the rendered message and delivery outcome.
type CollectionMessageResponse struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
	Sent  bool   `json:"sent"`
}
