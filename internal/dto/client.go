package dto

import (
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// CreateClientRequest defines the data needed to register a new client.
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"taxId" binding:"required,digitsonly"`
	Phone   string `json:"phone" binding:"required,digitsonly"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// UpdateClientRequest defines the fields allowed when updating a client.
// Pointers distinguish "not provided" from zero-value updates.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"taxId" binding:"omitempty,digitsonly"`
	Phone   *string `json:"phone" binding:"omitempty,digitsonly"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// ClientResponse defines the data returned for a client, including its
// embedded debts and payments.
type ClientResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	TaxID     string            `json:"taxId"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email,omitempty"`
	Address   string            `json:"address,omitempty"`
	Debts     []DebtResponse    `json:"debts"`
	Payments  []PaymentResponse `json:"payments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ListClientsResponse wraps the list of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// SearchClientsParams defines query parameters for client search.
type SearchClientsParams struct {
	Term string `form:"q"`
}

// ToClientResponse converts a domain.Client to its response DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	debts := make([]DebtResponse, len(c.Debts))
	for i := range c.Debts {
		debts[i] = ToDebtResponse(&c.Debts[i])
	}
	payments := make([]PaymentResponse, len(c.Payments))
	for i := range c.Payments {
		payments[i] = ToPaymentResponse(&c.Payments[i])
	}
	return ClientResponse{
		ID:        c.ClientID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Debts:     debts,
		Payments:  payments,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToListClientsResponse converts a slice of domain.Client to the list DTO.
func ToListClientsResponse(clients []domain.Client) ListClientsResponse {
	res := make([]ClientResponse, len(clients))
	for i := range clients {
		res[i] = ToClientResponse(&clients[i])
	}
	return ListClientsResponse{Clients: res}
}
