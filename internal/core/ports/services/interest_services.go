package services

import (
	"context"

	"github.com/caiomarques/debtdesk/internal/dto"
)

// InterestSvcFacade exposes the interest engine's stateful entry points.
type InterestSvcFacade interface {
	// Sweep recomputes status and adjusted amount for every non-paid debt
	// against the current time, persisting once when anything changed.
	// Returns the number of debts adjusted.
	Sweep(ctx context.Context) (int, error)

	// Preview computes the accrual breakdown for arbitrary inputs without
	// touching stored data.
	Preview(ctx context.Context, req dto.CalculatorRequest) (dto.CalculatorResponse, error)
}

// ReportingSvcFacade aggregates portfolio figures for the dashboard.
type ReportingSvcFacade interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
}

// MessageSvcFacade builds and dispatches collection messages. The interest
// engine supplies the corrected amount and months overdue used in the text.
type MessageSvcFacade interface {
	// BuildCollectionMessage renders the message without sending it.
	BuildCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error)

	// SendCollectionMessage renders and dispatches the message.
	SendCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error)
}
