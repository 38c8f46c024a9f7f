package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	portsrepo "github.com/caiomarques/debtdesk/internal/core/ports/repositories"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/caiomarques/debtdesk/internal/utils/interest"
	"github.com/google/uuid"
)

// mutationNotifier receives a non-blocking signal after every successful
// persist, so sync can be triggered without being part of the mutation's
// success contract.
type mutationNotifier interface {
	NotifyMutation()
}

// RecordService is the single source of truth for the in-memory document.
// Every mutation persists the whole document synchronously before
// returning; readers never observe a partial write.
//
// Debts and payments are logically owned by their client but addressed by
// globally unique ids, so secondary id->clientID indexes avoid scanning
// every client on each lookup.
type RecordService struct {
	mu   sync.Mutex
	repo portsrepo.DocumentRepositoryFacade
	doc  *domain.Document
	now  func() time.Time

	debtOwner    map[string]string
	paymentOwner map[string]string

	notifier mutationNotifier
}

// NewRecordService loads the document and builds the id indexes.
func NewRecordService(ctx context.Context, repo portsrepo.DocumentRepositoryFacade, now func() time.Time) (*RecordService, error) {
	if now == nil {
		now = time.Now
	}
	s := &RecordService{repo: repo, now: now}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SetNotifier wires the sync coordinator's mutation trigger. Optional.
func (s *RecordService) SetNotifier(n mutationNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Reload replaces the in-memory document with the stored one and rebuilds
// the indexes. The sync coordinator calls this after the sync file wins a
// reconciliation.
func (s *RecordService) Reload(ctx context.Context) error {
	doc, err := s.repo.LoadDocument(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.rebuildIndexes()
	return nil
}

func (s *RecordService) rebuildIndexes() {
	s.debtOwner = make(map[string]string)
	s.paymentOwner = make(map[string]string)
	for i := range s.doc.Clients {
		c := &s.doc.Clients[i]
		for j := range c.Debts {
			s.debtOwner[c.Debts[j].DebtID] = c.ClientID
		}
		for j := range c.Payments {
			s.paymentOwner[c.Payments[j].PaymentID] = c.ClientID
		}
	}
}

// persist writes the whole document and fires the mutation notifier.
// Callers hold s.mu.
func (s *RecordService) persist(ctx context.Context) error {
	if err := s.repo.SaveDocument(ctx, s.doc); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.NotifyMutation()
	}
	return nil
}

// --- Clients ---

func (s *RecordService) ListClients(ctx context.Context) ([]domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Client, len(s.doc.Clients))
	for i := range s.doc.Clients {
		out[i] = s.doc.Clients[i].Clone()
	}
	return out, nil
}

func (s *RecordService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client := s.doc.FindClient(clientID)
	if client == nil {
		return nil, apperrors.ErrNotFound
	}
	out := client.Clone()
	return &out, nil
}

// SearchClients matches the term case-insensitively against names and
// emails. When the term contains digits, the digit sequence is also matched
// against tax ids and phones so formatted input ("(11) 9...") still finds
// the stored digits.
func (s *RecordService) SearchClients(ctx context.Context, term string) ([]domain.Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListClients(ctx)
	}

	lower := strings.ToLower(term)
	digits := digitsOnly(term)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Client
	for i := range s.doc.Clients {
		c := &s.doc.Clients[i]
		match := strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower)
		if !match && digits != "" {
			match = strings.Contains(digitsOnly(c.TaxID), digits) ||
				strings.Contains(digitsOnly(c.Phone), digits)
		}
		if match {
			out = append(out, c.Clone())
		}
	}
	if out == nil {
		out = []domain.Client{}
	}
	return out, nil
}

func (s *RecordService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.now()

	client := domain.Client{
		ClientID: uuid.NewString(),
		Name:     req.Name,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Debts:    []domain.Debt{},
		Payments: []domain.Payment{},
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Clients = append(s.doc.Clients, client)
	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist new client", slog.String("error", err.Error()), slog.String("client_id", client.ClientID))
		return nil, err
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID))
	out := client.Clone()
	return &out, nil
}

func (s *RecordService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	client := s.doc.FindClient(clientID)
	if client == nil {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.TaxID != nil {
		client.TaxID = *req.TaxID
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.UpdatedAt = s.now()

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist client update", slog.String("error", err.Error()), slog.String("client_id", clientID))
		return nil, err
	}

	out := client.Clone()
	return &out, nil
}

func (s *RecordService) RemoveClient(ctx context.Context, clientID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.doc.Clients {
		if s.doc.Clients[i].ClientID == clientID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrNotFound
	}

	// Removing the client removes everything nested under it.
	removed := s.doc.Clients[idx]
	for i := range removed.Debts {
		delete(s.debtOwner, removed.Debts[i].DebtID)
	}
	for i := range removed.Payments {
		delete(s.paymentOwner, removed.Payments[i].PaymentID)
	}
	s.doc.Clients = append(s.doc.Clients[:idx], s.doc.Clients[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist client removal", slog.String("error", err.Error()), slog.String("client_id", clientID))
		return err
	}

	logger.Info("Client removed", slog.String("client_id", clientID), slog.Int("debts_removed", len(removed.Debts)))
	return nil
}

// --- Debts ---

func (s *RecordService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest) (*domain.Debt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: debt amount must be positive", apperrors.ErrValidation)
	}

	now := s.now()
	rate := domain.DefaultMonthlyRatePercent
	if req.MonthlyRatePercent != nil {
		rate = *req.MonthlyRatePercent
	}
	grace := domain.DefaultGraceMonths
	if req.GraceMonths != nil {
		grace = *req.GraceMonths
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client := s.doc.FindClient(req.ClientID)
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", req.ClientID, apperrors.ErrNotFound)
	}

	debt := domain.Debt{
		DebtID:             uuid.NewString(),
		ClientID:           client.ClientID,
		Amount:             req.Amount,
		DueDate:            req.DueDate,
		Description:        req.Description,
		Status:             interest.Status(req.DueDate, now),
		MonthlyRatePercent: rate,
		GraceMonths:        grace,
		AdjustedAmount:     req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	client.Debts = append(client.Debts, debt)
	client.UpdatedAt = now
	s.debtOwner[debt.DebtID] = client.ClientID

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist new debt", slog.String("error", err.Error()), slog.String("debt_id", debt.DebtID))
		return nil, err
	}

	logger.Info("Debt created", slog.String("debt_id", debt.DebtID), slog.String("client_id", client.ClientID), slog.String("status", string(debt.Status)))
	return &debt, nil
}

// findDebtLocked resolves a debt through the owner index. Callers hold s.mu.
func (s *RecordService) findDebtLocked(debtID string) (*domain.Client, *domain.Debt) {
	clientID, ok := s.debtOwner[debtID]
	if !ok {
		return nil, nil
	}
	client := s.doc.FindClient(clientID)
	if client == nil {
		return nil, nil
	}
	return client, client.FindDebt(debtID)
}

func (s *RecordService) UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: debt amount must be positive", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client, debt := s.findDebtLocked(debtID)
	if debt == nil {
		return nil, apperrors.ErrNotFound
	}

	if req.Amount != nil {
		debt.Amount = *req.Amount
	}
	if req.DueDate != nil {
		debt.DueDate = *req.DueDate
	}
	if req.Description != nil {
		debt.Description = *req.Description
	}
	if req.MonthlyRatePercent != nil {
		debt.MonthlyRatePercent = *req.MonthlyRatePercent
	}
	if req.GraceMonths != nil {
		debt.GraceMonths = *req.GraceMonths
	}

	now := s.now()
	// Paid debts stay frozen; everything else is recomputed against the
	// possibly-changed principal, due date, rate or grace period.
	if debt.Status != domain.DebtPaid {
		debt.Status = interest.Status(debt.DueDate, now)
		debt.AdjustedAmount = interest.RoundCurrency(
			interest.CorrectedAmount(debt.Amount, debt.DueDate, debt.MonthlyRatePercent, debt.GraceMonths, now))
	}
	debt.UpdatedAt = now
	client.UpdatedAt = now

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist debt update", slog.String("error", err.Error()), slog.String("debt_id", debtID))
		return nil, err
	}

	out := *debt
	return &out, nil
}

func (s *RecordService) RemoveDebt(ctx context.Context, debtID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	client, debt := s.findDebtLocked(debtID)
	if debt == nil {
		return apperrors.ErrNotFound
	}

	for i := range client.Debts {
		if client.Debts[i].DebtID == debtID {
			client.Debts = append(client.Debts[:i], client.Debts[i+1:]...)
			break
		}
	}
	delete(s.debtOwner, debtID)
	client.UpdatedAt = s.now()

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist debt removal", slog.String("error", err.Error()), slog.String("debt_id", debtID))
		return err
	}
	return nil
}

// MarkDebtPaid is the terminal transition. The adjusted amount is frozen at
// whatever the last recomputation produced; the sweep skips paid debts from
// here on. Marking an already-paid debt is a no-op.
func (s *RecordService) MarkDebtPaid(ctx context.Context, debtID string) (*domain.Debt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	client, debt := s.findDebtLocked(debtID)
	if debt == nil {
		return nil, apperrors.ErrNotFound
	}

	if debt.Status != domain.DebtPaid {
		now := s.now()
		debt.Status = domain.DebtPaid
		debt.UpdatedAt = now
		client.UpdatedAt = now
		if err := s.persist(ctx); err != nil {
			logger.Error("Failed to persist debt payoff", slog.String("error", err.Error()), slog.String("debt_id", debtID))
			return nil, err
		}
		logger.Info("Debt marked paid", slog.String("debt_id", debtID))
	}

	out := *debt
	return &out, nil
}

// --- Payments ---

func (s *RecordService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client := s.doc.FindClient(req.ClientID)
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", req.ClientID, apperrors.ErrNotFound)
	}
	debt := client.FindDebt(req.DebtID)
	if debt == nil {
		if _, owned := s.debtOwner[req.DebtID]; owned {
			return nil, fmt.Errorf("%w: debt %s belongs to another client", apperrors.ErrValidation, req.DebtID)
		}
		return nil, fmt.Errorf("debt %s: %w", req.DebtID, apperrors.ErrNotFound)
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		ClientID:  client.ClientID,
		DebtID:    debt.DebtID,
		Amount:    req.Amount,
		Date:      req.Date,
		Note:      req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	client.Payments = append(client.Payments, payment)
	client.UpdatedAt = now
	s.paymentOwner[payment.PaymentID] = client.ClientID

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist new payment", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID))
		return nil, err
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("debt_id", debt.DebtID))
	return &payment, nil
}

func (s *RecordService) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	clientID, ok := s.paymentOwner[paymentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	client := s.doc.FindClient(clientID)
	if client == nil {
		return nil, apperrors.ErrNotFound
	}
	payment := client.FindPayment(paymentID)
	if payment == nil {
		return nil, apperrors.ErrNotFound
	}

	// Amount and date are immutable once recorded; only the note may change.
	if req.Note != nil {
		payment.Note = *req.Note
	}
	payment.UpdatedAt = s.now()

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist payment update", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	out := *payment
	return &out, nil
}

func (s *RecordService) RemovePayment(ctx context.Context, paymentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	clientID, ok := s.paymentOwner[paymentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	client := s.doc.FindClient(clientID)
	if client == nil {
		return apperrors.ErrNotFound
	}

	found := false
	for i := range client.Payments {
		if client.Payments[i].PaymentID == paymentID {
			client.Payments = append(client.Payments[:i], client.Payments[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return apperrors.ErrNotFound
	}
	delete(s.paymentOwner, paymentID)
	client.UpdatedAt = s.now()

	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist payment removal", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return err
	}
	return nil
}

// --- Interest sweep support ---

// SweepInterest recomputes status and adjusted amount for every non-paid
// debt as of now, persisting once when anything changed. Returns how many
// debts changed.
func (s *RecordService) SweepInterest(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.doc.Clients {
		client := &s.doc.Clients[i]
		for j := range client.Debts {
			debt := &client.Debts[j]
			if debt.Status == domain.DebtPaid {
				continue
			}
			newStatus := interest.Status(debt.DueDate, now)
			newAdjusted := interest.RoundCurrency(
				interest.CorrectedAmount(debt.Amount, debt.DueDate, debt.MonthlyRatePercent, debt.GraceMonths, now))
			if newStatus != debt.Status || !newAdjusted.Equal(debt.AdjustedAmount) {
				debt.Status = newStatus
				debt.AdjustedAmount = newAdjusted
				debt.UpdatedAt = now
				changed++
			}
		}
	}

	if changed == 0 {
		return 0, nil
	}
	if err := s.persist(ctx); err != nil {
		logger.Error("Failed to persist interest sweep", slog.String("error", err.Error()))
		return 0, err
	}

	logger.Info("Interest sweep persisted", slog.Int("debts_changed", changed))
	return changed, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
