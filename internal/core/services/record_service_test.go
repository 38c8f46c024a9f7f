package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/caiomarques/debtdesk/internal/core/services"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type countingNotifier struct {
	count int
}

func (n *countingNotifier) NotifyMutation() { n.count++ }

// --- Test Suite ---
type RecordServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDocumentRepository
	notifier *countingNotifier
	service  *services.RecordService

	now time.Time
}

func (suite *RecordServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDocumentRepository)
	suite.notifier = &countingNotifier{}
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	suite.mockRepo.On("LoadDocument", mock.Anything).Return(domain.NewDocument("tester", suite.now), nil).Once()
	suite.mockRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)

	svc, err := services.NewRecordService(context.Background(), suite.mockRepo, func() time.Time { return suite.now })
	suite.Require().NoError(err)
	svc.SetNotifier(suite.notifier)
	suite.service = svc
}

func (suite *RecordServiceTestSuite) createClient(name, taxID, phone, email string) *domain.Client {
	client, err := suite.service.CreateClient(context.Background(), dto.CreateClientRequest{
		Name:  name,
		TaxID: taxID,
		Phone: phone,
		Email: email,
	})
	suite.Require().NoError(err)
	return client
}

func (suite *RecordServiceTestSuite) createDebt(clientID string, amount decimal.Decimal, dueDate time.Time, grace *int) *domain.Debt {
	debt, err := suite.service.CreateDebt(context.Background(), dto.CreateDebtRequest{
		ClientID:    clientID,
		Amount:      amount,
		DueDate:     dueDate,
		Description: "invoice",
		GraceMonths: grace,
	})
	suite.Require().NoError(err)
	return debt
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// --- Clients ---

func (suite *RecordServiceTestSuite) TestCreateClient() {
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "ana@example.com")

	suite.NotEmpty(client.ClientID)
	suite.Equal("Ana Souza", client.Name)
	suite.NotNil(client.Debts)
	suite.NotNil(client.Payments)
	suite.Equal(suite.now, client.CreatedAt)
	suite.Equal(1, suite.notifier.count)
}

func (suite *RecordServiceTestSuite) TestGetClientByID_NotFound() {
	_, err := suite.service.GetClientByID(context.Background(), "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestUpdateClient_PatchesOnlyProvidedFields() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "ana@example.com")

	updated, err := suite.service.UpdateClient(ctx, client.ClientID, dto.UpdateClientRequest{
		Phone: strPtr("11912340000"),
	})

	suite.Require().NoError(err)
	suite.Equal("11912340000", updated.Phone)
	suite.Equal("Ana Souza", updated.Name)
	suite.Equal("ana@example.com", updated.Email)
}

func (suite *RecordServiceTestSuite) TestRemoveClient_CascadesToDebts() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(500), suite.now.AddDate(0, 1, 0), nil)

	err := suite.service.RemoveClient(ctx, client.ClientID)
	suite.Require().NoError(err)

	_, err = suite.service.GetClientByID(ctx, client.ClientID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// The nested debt went with it, so a payment against it must fail.
	_, err = suite.service.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		DebtID:   debt.DebtID,
		Amount:   decimal.NewFromInt(100),
		Date:     suite.now,
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestRemoveClient_NotFound() {
	err := suite.service.RemoveClient(context.Background(), "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestSearchClients() {
	ctx := context.Background()
	suite.createClient("Ana Souza", "12345678900", "11987654321", "ana@example.com")
	suite.createClient("Bruno Lima", "98765432100", "21912345678", "bruno@example.com")

	byName, err := suite.service.SearchClients(ctx, "ana")
	suite.Require().NoError(err)
	suite.Require().Len(byName, 1)
	suite.Equal("Ana Souza", byName[0].Name)

	// Formatted phone input still matches the stored digit sequence.
	byPhone, err := suite.service.SearchClients(ctx, "(11) 98765-4321")
	suite.Require().NoError(err)
	suite.Require().Len(byPhone, 1)
	suite.Equal("Ana Souza", byPhone[0].Name)

	all, err := suite.service.SearchClients(ctx, "  ")
	suite.Require().NoError(err)
	suite.Len(all, 2)

	none, err := suite.service.SearchClients(ctx, "zzz")
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *RecordServiceTestSuite) TestListClients_ReturnsClones() {
	ctx := context.Background()
	suite.createClient("Ana Souza", "12345678900", "11987654321", "")

	clients, err := suite.service.ListClients(ctx)
	suite.Require().NoError(err)
	clients[0].Name = "mutated"

	again, err := suite.service.ListClients(ctx)
	suite.Require().NoError(err)
	suite.Equal("Ana Souza", again[0].Name)
}

// --- Debts ---

func (suite *RecordServiceTestSuite) TestCreateDebt_Defaults() {
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)

	suite.Equal(domain.DebtPending, debt.Status)
	suite.True(debt.MonthlyRatePercent.Equal(decimal.NewFromInt(3)))
	suite.Equal(domain.DefaultGraceMonths, debt.GraceMonths)
	suite.True(debt.AdjustedAmount.Equal(debt.Amount))
}

func (suite *RecordServiceTestSuite) TestCreateDebt_PastDueIsOverdue() {
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 0, -40), nil)

	suite.Equal(domain.DebtOverdue, debt.Status)
}

func (suite *RecordServiceTestSuite) TestCreateDebt_RejectsNonPositiveAmount() {
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")

	_, err := suite.service.CreateDebt(context.Background(), dto.CreateDebtRequest{
		ClientID: client.ClientID,
		Amount:   decimal.Zero,
		DueDate:  suite.now,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestCreateDebt_ClientNotFound() {
	_, err := suite.service.CreateDebt(context.Background(), dto.CreateDebtRequest{
		ClientID: "missing",
		Amount:   decimal.NewFromInt(100),
		DueDate:  suite.now,
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestUpdateDebt_RecomputesAdjustedAmount() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), intPtr(0))

	// Pull the due date 65 days into the past: 3 overdue months at 3%.
	updated, err := suite.service.UpdateDebt(ctx, debt.DebtID, dto.UpdateDebtRequest{
		DueDate: timePtr(suite.now.AddDate(0, 0, -65)),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.DebtOverdue, updated.Status)
	suite.True(updated.AdjustedAmount.Equal(decimal.RequireFromString("1092.73")),
		"got %s", updated.AdjustedAmount)
}

func (suite *RecordServiceTestSuite) TestUpdateDebt_PaidStaysFrozen() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), intPtr(0))

	_, err := suite.service.MarkDebtPaid(ctx, debt.DebtID)
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateDebt(ctx, debt.DebtID, dto.UpdateDebtRequest{
		Description: strPtr("settled invoice"),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.DebtPaid, updated.Status)
	suite.True(updated.AdjustedAmount.Equal(decimal.NewFromInt(1000)))
}

func (suite *RecordServiceTestSuite) TestMarkDebtPaid_Idempotent() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)

	first, err := suite.service.MarkDebtPaid(ctx, debt.DebtID)
	suite.Require().NoError(err)
	suite.Equal(domain.DebtPaid, first.Status)
	persists := suite.notifier.count

	second, err := suite.service.MarkDebtPaid(ctx, debt.DebtID)
	suite.Require().NoError(err)
	suite.Equal(domain.DebtPaid, second.Status)
	suite.Equal(persists, suite.notifier.count)
}

func (suite *RecordServiceTestSuite) TestRemoveDebt() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)

	suite.Require().NoError(suite.service.RemoveDebt(ctx, debt.DebtID))
	suite.ErrorIs(suite.service.RemoveDebt(ctx, debt.DebtID), apperrors.ErrNotFound)
}

// --- Payments ---

func (suite *RecordServiceTestSuite) TestCreatePayment() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)

	payment, err := suite.service.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		DebtID:   debt.DebtID,
		Amount:   decimal.NewFromInt(300),
		Date:     suite.now,
		Note:     "partial",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(payment.PaymentID)
	suite.Equal(debt.DebtID, payment.DebtID)

	// Recording a payment never changes the debt's status.
	stored, err := suite.service.GetClientByID(ctx, client.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.DebtPending, stored.FindDebt(debt.DebtID).Status)
}

func (suite *RecordServiceTestSuite) TestCreatePayment_DebtOwnedByAnotherClient() {
	ctx := context.Background()
	ana := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	bruno := suite.createClient("Bruno Lima", "98765432100", "21912345678", "")
	debt := suite.createDebt(ana.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)

	_, err := suite.service.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: bruno.ClientID,
		DebtID:   debt.DebtID,
		Amount:   decimal.NewFromInt(100),
		Date:     suite.now,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestUpdatePayment_NoteOnly() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")
	debt := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 1, 0), nil)
	payment, err := suite.service.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		DebtID:   debt.DebtID,
		Amount:   decimal.NewFromInt(300),
		Date:     suite.now,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdatePayment(ctx, payment.PaymentID, dto.UpdatePaymentRequest{
		Note: strPtr("paid in cash"),
	})

	suite.Require().NoError(err)
	suite.Equal("paid in cash", updated.Note)
	suite.True(updated.Amount.Equal(decimal.NewFromInt(300)))
}

func (suite *RecordServiceTestSuite) TestRemovePayment_NotFound() {
	err := suite.service.RemovePayment(context.Background(), "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Interest sweep ---

func (suite *RecordServiceTestSuite) TestSweepInterest() {
	ctx := context.Background()
	client := suite.createClient("Ana Souza", "12345678900", "11987654321", "")

	// 1000 due 65 days ago, no grace: 3 months at 3% compounds to 1092.73.
	overdue := suite.createDebt(client.ClientID, decimal.NewFromInt(1000), suite.now.AddDate(0, 0, -65), intPtr(0))
	suite.createDebt(client.ClientID, decimal.NewFromInt(500), suite.now.AddDate(0, 1, 0), nil)
	paid := suite.createDebt(client.ClientID, decimal.NewFromInt(200), suite.now.AddDate(0, 0, -100), intPtr(0))
	_, err := suite.service.MarkDebtPaid(ctx, paid.DebtID)
	suite.Require().NoError(err)

	changed, err := suite.service.SweepInterest(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal(1, changed)

	stored, err := suite.service.GetClientByID(ctx, client.ClientID)
	suite.Require().NoError(err)
	suite.True(stored.FindDebt(overdue.DebtID).AdjustedAmount.Equal(decimal.RequireFromString("1092.73")))
	suite.True(stored.FindDebt(paid.DebtID).AdjustedAmount.Equal(decimal.NewFromInt(200)))

	// Same clock, nothing moves, nothing persists.
	persists := suite.notifier.count
	changed, err = suite.service.SweepInterest(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Zero(changed)
	suite.Equal(persists, suite.notifier.count)
}

// --- Persistence failures ---

func (suite *RecordServiceTestSuite) TestMutationSurfacesStorageError() {
	ctx := context.Background()

	mockRepo := new(MockDocumentRepository)
	mockRepo.On("LoadDocument", mock.Anything).Return(domain.NewDocument("tester", suite.now), nil).Once()
	mockRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(apperrors.ErrStorageWrite)

	svc, err := services.NewRecordService(ctx, mockRepo, func() time.Time { return suite.now })
	suite.Require().NoError(err)

	_, err = svc.CreateClient(ctx, dto.CreateClientRequest{Name: "Ana", TaxID: "123", Phone: "456"})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStorageWrite)
}

func timePtr(v time.Time) *time.Time { return &v }

// --- Run Suite ---
func TestRecordService(t *testing.T) {
	suite.Run(t, new(RecordServiceTestSuite))
}
