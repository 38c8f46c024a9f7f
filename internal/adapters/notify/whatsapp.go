// Package notify holds outbound messaging adapters. Delivery is a thin
// call to an external API; the core only supplies the rendered text.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
)

// WhatsAppDispatcher posts collection messages to the external WhatsApp
// gateway. A dispatcher with an empty URL reports the feature unsupported.
type WhatsAppDispatcher struct {
	apiURL string
	client *http.Client
}

// NewWhatsAppDispatcher creates a dispatcher for the given gateway URL.
func NewWhatsAppDispatcher(apiURL string) *WhatsAppDispatcher {
	return &WhatsAppDispatcher{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send delivers the text to the phone number through the gateway.
func (d *WhatsAppDispatcher) Send(ctx context.Context, phone string, text string) error {
	if d.apiURL == "" {
		return apperrors.ErrUnsupported
	}

	body, err := json.Marshal(sendRequest{Phone: phone, Message: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}
