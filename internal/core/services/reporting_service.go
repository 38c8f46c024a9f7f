package services

import (
	"context"
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/utils/interest"
	"github.com/shopspring/decimal"
)

// ReportingService aggregates the portfolio for the dashboard.
type ReportingService struct {
	records portssvc.ClientReader
	now     func() time.Time
}

// NewReportingService creates a ReportingService with an injectable clock.
func NewReportingService(records portssvc.ClientReader, now func() time.Time) *ReportingService {
	if now == nil {
		now = time.Now
	}
	return &ReportingService{records: records, now: now}
}

// Dashboard returns counts by status plus principal and corrected totals.
// Corrected figures for open debts are evaluated against the current time;
// paid debts keep their frozen adjusted amount and stay out of the totals.
func (s *ReportingService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	clients, err := s.records.ListClients(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	now := s.now()
	resp := dto.DashboardResponse{
		ClientCount:    len(clients),
		TotalPrincipal: decimal.Zero,
		TotalCorrected: decimal.Zero,
		TotalOverdue:   decimal.Zero,
	}

	for i := range clients {
		for j := range clients[i].Debts {
			debt := &clients[i].Debts[j]
			resp.DebtCount++

			if debt.Status == domain.DebtPaid {
				resp.PaidCount++
				continue
			}

			status := interest.Status(debt.DueDate, now)
			corrected := interest.CorrectedAmount(debt.Amount, debt.DueDate, debt.MonthlyRatePercent, debt.GraceMonths, now)

			resp.TotalPrincipal = resp.TotalPrincipal.Add(debt.Amount)
			resp.TotalCorrected = resp.TotalCorrected.Add(corrected)
			if status == domain.DebtOverdue {
				resp.OverdueCount++
				resp.TotalOverdue = resp.TotalOverdue.Add(corrected)
			} else {
				resp.PendingCount++
			}
		}
	}

	resp.TotalPrincipal = interest.RoundCurrency(resp.TotalPrincipal)
	resp.TotalCorrected = interest.RoundCurrency(resp.TotalCorrected)
	resp.TotalOverdue = interest.RoundCurrency(resp.TotalOverdue)
	return resp, nil
}
