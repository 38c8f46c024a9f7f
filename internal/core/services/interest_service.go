package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/metrics"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/caiomarques/debtdesk/internal/utils/interest"
)

// debtSweeper is the slice of the record store the interest service needs.
type debtSweeper interface {
	SweepInterest(ctx context.Context, now time.Time) (int, error)
}

// InterestService runs the periodic accrual sweep and the stateless
// calculator preview.
type InterestService struct {
	records debtSweeper
	now     func() time.Time
}

// NewInterestService creates an InterestService with an injectable clock.
func NewInterestService(records debtSweeper, now func() time.Time) *InterestService {
	if now == nil {
		now = time.Now
	}
	return &InterestService{records: records, now: now}
}

// Sweep recomputes every non-paid debt against the current time.
func (s *InterestService) Sweep(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	changed, err := s.records.SweepInterest(ctx, s.now())
	metrics.SweepRuns.Inc()
	if err != nil {
		logger.Error("Interest sweep failed", slog.String("error", err.Error()))
		return 0, err
	}
	metrics.SweepDebtsAdjusted.Add(float64(changed))

	logger.Debug("Interest sweep completed", slog.Int("debts_changed", changed))
	return changed, nil
}

// Preview computes the accrual breakdown for arbitrary inputs. Nothing is
// read from or written to the store.
func (s *InterestService) Preview(ctx context.Context, req dto.CalculatorRequest) (dto.CalculatorResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.CalculatorResponse{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	rate := domain.DefaultMonthlyRatePercent
	if req.MonthlyRatePercent != nil {
		rate = *req.MonthlyRatePercent
	}
	grace := domain.DefaultGraceMonths
	if req.GraceMonths != nil {
		grace = *req.GraceMonths
	}
	asOf := s.now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	corrected := interest.RoundCurrency(interest.CorrectedAmount(req.Amount, req.DueDate, rate, grace, asOf))
	return dto.CalculatorResponse{
		MonthsOverdue:   interest.MonthsOverdue(req.DueDate, asOf),
		Status:          interest.Status(req.DueDate, asOf),
		Amount:          req.Amount,
		CorrectedAmount: corrected,
		Interest:        corrected.Sub(req.Amount),
	}, nil
}
