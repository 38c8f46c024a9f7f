package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/handlers"
	"github.com/caiomarques/debtdesk/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecordService ---
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockRecordService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockRecordService) SearchClients(ctx context.Context, term string) ([]domain.Client, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockRecordService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockRecordService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockRecordService) RemoveClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}
func (m *MockRecordService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockRecordService) UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockRecordService) RemoveDebt(ctx context.Context, debtID string) error {
	args := m.Called(ctx, debtID)
	return args.Error(0)
}
func (m *MockRecordService) MarkDebtPaid(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockRecordService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockRecordService) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockRecordService) RemovePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

var _ portssvc.RecordSvcFacade = (*MockRecordService)(nil)

// --- Mock SyncService ---
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Status(ctx context.Context) domain.SyncStatus {
	args := m.Called(ctx)
	return args.Get(0).(domain.SyncStatus)
}
func (m *MockSyncService) ConfigureFolder(ctx context.Context, path string) (domain.SyncStatus, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.SyncStatus), args.Error(1)
}
func (m *MockSyncService) DisconnectFolder(ctx context.Context) (domain.SyncStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SyncStatus), args.Error(1)
}
func (m *MockSyncService) ReconcileNow(ctx context.Context) (domain.SyncStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SyncStatus), args.Error(1)
}
func (m *MockSyncService) Backup(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ portssvc.SyncSvcFacade = (*MockSyncService)(nil)

// --- Mock InterestService ---
type MockInterestService struct {
	mock.Mock
}

func (m *MockInterestService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockInterestService) Preview(ctx context.Context, req dto.CalculatorRequest) (dto.CalculatorResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.CalculatorResponse), args.Error(1)
}

var _ portssvc.InterestSvcFacade = (*MockInterestService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.DashboardResponse), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

// --- Mock MessageService ---
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) BuildCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error) {
	args := m.Called(ctx, clientID, debtID)
	return args.Get(0).(dto.CollectionMessageResponse), args.Error(1)
}
func (m *MockMessageService) SendCollectionMessage(ctx context.Context, clientID, debtID string) (dto.CollectionMessageResponse, error) {
	args := m.Called(ctx, clientID, debtID)
	return args.Get(0).(dto.CollectionMessageResponse), args.Error(1)
}

var _ portssvc.MessageSvcFacade = (*MockMessageService)(nil)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockRecord    *MockRecordService
	mockSync      *MockSyncService
	mockInterest  *MockInterestService
	mockReporting *MockReportingService
	mockMessage   *MockMessageService
	jwtSecret     string
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockRecord = new(MockRecordService)
	suite.mockSync = new(MockSyncService)
	suite.mockInterest = new(MockInterestService)
	suite.mockReporting = new(MockReportingService)
	suite.mockMessage = new(MockMessageService)

	cfg := &config.Config{
		Port:           "8080",
		JWTSecret:      suite.jwtSecret,
		RateLimit:      "1000-M",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	services := &portssvc.ServiceContainer{
		Record:    suite.mockRecord,
		Sync:      suite.mockSync,
		Interest:  suite.mockInterest,
		Reporting: suite.mockReporting,
		Message:   suite.mockMessage,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

func (suite *HandlersTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "debtdesk-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Auth ---

func (suite *HandlersTestSuite) TestRequestWithoutTokenIsRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

// --- Clients ---

func (suite *HandlersTestSuite) TestCreateClient_Success() {
	expected := &domain.Client{ClientID: "c1", Name: "Ana Souza", TaxID: "12345678900", Phone: "11987654321"}
	suite.mockRecord.On("CreateClient", mock.Anything, mock.MatchedBy(func(r dto.CreateClientRequest) bool {
		return r.Name == "Ana Souza" && r.TaxID == "12345678900"
	})).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{
		Name:  "Ana Souza",
		TaxID: "12345678900",
		Phone: "11987654321",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ClientResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("c1", resp.ID)
	suite.mockRecord.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCreateClient_FormattedTaxIDRejected() {
	w := suite.doRequest(http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{
		Name:  "Ana Souza",
		TaxID: "123.456.789-00",
		Phone: "11987654321",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecord.AssertNotCalled(suite.T(), "CreateClient", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetClientByID_NotFound() {
	suite.mockRecord.On("GetClientByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/clients/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListClients_PassesSearchTerm() {
	suite.mockRecord.On("SearchClients", mock.Anything, "ana").Return([]domain.Client{}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/clients?q=ana", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRecord.AssertExpectations(suite.T())
}

// --- Debts ---

func (suite *HandlersTestSuite) TestMarkDebtPaid() {
	expected := &domain.Debt{DebtID: "d1", ClientID: "c1", Status: domain.DebtPaid,
		Amount: decimal.NewFromInt(100), AdjustedAmount: decimal.NewFromInt(100)}
	suite.mockRecord.On("MarkDebtPaid", mock.Anything, "d1").Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/debts/d1/paid", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.DebtPaid, resp.Status)
}

func (suite *HandlersTestSuite) TestCreateDebt_ClientNotFound() {
	suite.mockRecord.On("CreateDebt", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/debts", dto.CreateDebtRequest{
		ClientID: "missing",
		Amount:   decimal.NewFromInt(100),
		DueDate:  time.Now(),
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Sync ---

func (suite *HandlersTestSuite) TestGetSyncStatus() {
	last := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.mockSync.On("Status", mock.Anything).Return(domain.SyncStatus{
		Available: true, Connected: true, FolderConfigured: true, LastSync: &last,
	}).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/sync/status", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SyncStatusResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Connected)
	suite.Require().NotNil(resp.LastSync)
}

func (suite *HandlersTestSuite) TestConfigureFolder_CancelledIsNotAnError() {
	suite.mockSync.On("ConfigureFolder", mock.Anything, "").
		Return(domain.SyncStatus{Available: true}, apperrors.ErrCancelled).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/sync/folder", dto.ConfigureFolderRequest{Path: ""})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestConfigureFolder_PermissionDenied() {
	suite.mockSync.On("ConfigureFolder", mock.Anything, "/no/access").
		Return(domain.SyncStatus{Available: true}, apperrors.ErrPermissionDenied).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/sync/folder", dto.ConfigureFolderRequest{Path: "/no/access"})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestBackup_NoFolderConfigured() {
	suite.mockSync.On("Backup", mock.Anything).Return("", apperrors.ErrFolderNotConfigured).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/sync/backup", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Calculator and dashboard ---

func (suite *HandlersTestSuite) TestCalculatorPreview() {
	expected := dto.CalculatorResponse{
		MonthsOverdue:   2,
		Status:          domain.DebtOverdue,
		Amount:          decimal.NewFromInt(1000),
		CorrectedAmount: decimal.RequireFromString("1060.90"),
		Interest:        decimal.RequireFromString("60.90"),
	}
	suite.mockInterest.On("Preview", mock.Anything, mock.Anything).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/calculator", dto.CalculatorRequest{
		Amount:  decimal.NewFromInt(1000),
		DueDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CalculatorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.MonthsOverdue)
}

func (suite *HandlersTestSuite) TestDashboard() {
	suite.mockReporting.On("Dashboard", mock.Anything).Return(dto.DashboardResponse{
		ClientCount:    2,
		DebtCount:      3,
		OverdueCount:   1,
		TotalPrincipal: decimal.NewFromInt(1500),
		TotalCorrected: decimal.RequireFromString("1560.90"),
		TotalOverdue:   decimal.RequireFromString("1060.90"),
	}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/dashboard", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DashboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.ClientCount)
}

// --- Messages ---

func (suite *HandlersTestSuite) TestPreviewCollectionMessage() {
	expected := dto.CollectionMessageResponse{Phone: "11987654321", Text: "Hello Ana!"}
	suite.mockMessage.On("BuildCollectionMessage", mock.Anything, "c1", "d1").Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/messages/collection/preview", dto.CollectionMessageRequest{
		ClientID: "c1",
		DebtID:   "d1",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CollectionMessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Sent)
	suite.Equal("Hello Ana!", resp.Text)
}

// --- Run Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
