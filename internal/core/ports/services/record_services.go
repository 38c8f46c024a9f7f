package services

import (
	"context"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/caiomarques/debtdesk/internal/dto"
)

// ClientReader defines read operations over the client collection.
type ClientReader interface {
	// ListClients returns every client with embedded debts and payments.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// GetClientByID returns a single client, or apperrors.ErrNotFound.
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// SearchClients matches the term case-insensitively against names and
	// emails, and digit-only against tax ids and phones.
	SearchClients(ctx context.Context, term string) ([]domain.Client, error)
}

// ClientWriter defines client mutations. Every mutation persists the whole
// document synchronously before returning.
type ClientWriter interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	RemoveClient(ctx context.Context, clientID string) error
}

// DebtWriter defines debt mutations. Debts are located by id across all
// clients; a missing owning client surfaces as apperrors.ErrNotFound.
type DebtWriter interface {
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest) (*domain.Debt, error)
	UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error)
	RemoveDebt(ctx context.Context, debtID string) error

	// MarkDebtPaid is the terminal transition: the debt's adjusted amount
	// freezes and no further status changes apply.
	MarkDebtPaid(ctx context.Context, debtID string) (*domain.Debt, error)
}

// PaymentWriter defines payment mutations.
type PaymentWriter interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error)
	RemovePayment(ctx context.Context, paymentID string) error
}

// RecordSvcFacade combines all record store operations.
type RecordSvcFacade interface {
	ClientReader
	ClientWriter
	DebtWriter
	PaymentWriter
}
