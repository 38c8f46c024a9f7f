package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	portsrepo "github.com/caiomarques/debtdesk/internal/core/ports/repositories"
	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/caiomarques/debtdesk/internal/utils/interest"
)

// MessageService renders collection messages from the interest engine's
// numbers and hands them to the dispatcher.
type MessageService struct {
	records    portssvc.ClientReader
	dispatcher portsrepo.MessageDispatcher
	now        func() time.Time
}

// NewMessageService creates a MessageService with an injectable clock.
func NewMessageService(records portssvc.ClientReader, dispatcher portsrepo.MessageDispatcher, now func() time.Time) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{records: records, dispatcher: dispatcher, now: now}
}

// BuildCollectionMessage renders the message without sending it.
func (s *MessageService) BuildCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error) {
	client, err := s.records.GetClientByID(ctx, clientID)
	if err != nil {
		return dto.CollectionMessageResponse{}, err
	}
	debt := client.FindDebt(debtID)
	if debt == nil {
		return dto.CollectionMessageResponse{}, fmt.Errorf("debt %s: %w", debtID, apperrors.ErrNotFound)
	}
	if debt.Status == domain.DebtPaid {
		return dto.CollectionMessageResponse{}, fmt.Errorf("%w: debt %s is already paid", apperrors.ErrValidation, debtID)
	}

	now := s.now()
	months := interest.MonthsOverdue(debt.DueDate, now)
	corrected := interest.RoundCurrency(
		interest.CorrectedAmount(debt.Amount, debt.DueDate, debt.MonthlyRatePercent, debt.GraceMonths, now))

	var text string
	if months == 0 {
		text = fmt.Sprintf(
			"Hello %s! This is a friendly reminder: your debt \"%s\" of %s is due on %s. Please get in touch to arrange payment.",
			client.Name, debt.Description, debt.Amount.StringFixed(2), debt.DueDate.Format("2006-01-02"))
	} else {
		text = fmt.Sprintf(
			"Hello %s! Your debt \"%s\" of %s was due on %s and is %d month(s) overdue. The updated balance is %s. Please get in touch to arrange payment.",
			client.Name, debt.Description, debt.Amount.StringFixed(2), debt.DueDate.Format("2006-01-02"), months, corrected.StringFixed(2))
	}

	return dto.CollectionMessageResponse{Phone: client.Phone, Text: text}, nil
}

// SendCollectionMessage renders and dispatches the message. Delivery
// failure comes back as an error alongside the rendered message, so the
// caller can still show what would have been sent.
func (s *MessageService) SendCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	resp, err := s.BuildCollectionMessage(ctx, clientID, debtID)
	if err != nil {
		return resp, err
	}

	if err := s.dispatcher.Send(ctx, resp.Phone, resp.Text); err != nil {
		logger.Warn("Collection message delivery failed", slog.String("client_id", clientID), slog.String("error", err.Error()))
		return resp, err
	}

	resp.Sent = true
	logger.Info("Collection message sent", slog.String("client_id", clientID), slog.String("debt_id", debtID))
	return resp, nil
}
