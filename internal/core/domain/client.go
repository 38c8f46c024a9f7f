package domain

// Client represents a debtor within the core domain.
// A client owns its debts and payments (composition): removing the client
// removes everything nested under it.
type Client struct {
	ClientID string `json:"id"`   // Primary key (UUID), immutable after creation
	Name     string `json:"name"` // Display name
	TaxID    string `json:"taxId"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`

	Debts    []Debt    `json:"debts"`
	Payments []Payment `json:"payments"`

	AuditFields
}

// Clone returns a copy of the client with its own debt and payment slices,
// safe to hand out while the store keeps mutating the original.
func (c *Client) Clone() Client {
	out := *c
	out.Debts = append([]Debt(nil), c.Debts...)
	out.Payments = append([]Payment(nil), c.Payments...)
	return out
}

// FindDebt returns a pointer into the client's debt slice, or nil when absent.
func (c *Client) FindDebt(debtID string) *Debt {
	for i := range c.Debts {
		if c.Debts[i].DebtID == debtID {
			return &c.Debts[i]
		}
	}
	return nil
}

// FindPayment returns a pointer into the client's payment slice, or nil when absent.
func (c *Client) FindPayment(paymentID string) *Payment {
	for i := range c.Payments {
		if c.Payments[i].PaymentID == paymentID {
			return &c.Payments[i]
		}
	}
	return nil
}
