// Package analytics builds the dashboard summary for a tenant.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatusCount is one row of a by-status breakdown
type StatusCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Counts summarizes one kind of record
type Counts struct {
	Total     int64         `json:"total"`
	Active    int64         `json:"active"`
	Completed int64         `json:"completed"`
	ThisMonth int64         `json:"this_month"`
	ByStatus  []StatusCount `json:"by_status"`
}

// Finance is the month-to-date money view
type Finance struct {
	Income   finance.Balance `json:"income"`
	Expenses finance.Balance `json:"expenses"`
	Profit   finance.Balance `json:"profit"`
}

// Summary is the dashboard payload
type Summary struct {
	Shipments Counts  `json:"shipments"`
	Requests  Counts  `json:"requests"`
	Finance   Finance `json:"finance"`
}

// IncomeSource reports income and expenses since a point in time
type IncomeSource interface {
	IncomeExpensesSince(ctx context.Context, tenantID uuid.UUID, since *time.Time) (finance.IncomeExpenses, error)
}

type counter interface {
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]logistics.StatusCount, error)
	CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// Service computes summaries
type Service struct {
	shipments logistics.ShipmentRepository
	requests  logistics.RequestRepository
	ledger    IncomeSource
	guard     *access.Guard
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates the analytics service
func NewService(
	shipments logistics.ShipmentRepository,
	requests logistics.RequestRepository,
	ledger IncomeSource,
	guard *access.Guard,
	logger *zap.Logger,
) *Service {
	return &Service{
		shipments: shipments,
		requests:  requests,
		ledger:    ledger,
		guard:     guard,
		now:       time.Now,
		logger:    logger,
	}
}

// MonthStart returns midnight of the first day of t's month, in t's location
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Summary gathers counts and month-to-date finance in parallel. Needs manager or higher.
func (s *Service) Summary(ctx context.Context, p *identity.Principal) (*Summary, error) {
	if err := s.guard.RequireCollection(p, identity.RoleManager); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}
	since := MonthStart(s.now())

	var out Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := collect(gctx, s.shipments, tenantID, since)
		if err != nil {
			return err
		}
		out.Shipments = counts
		return nil
	})
	g.Go(func() error {
		counts, err := collect(gctx, s.requests, tenantID, since)
		if err != nil {
			return err
		}
		out.Requests = counts
		return nil
	})
	g.Go(func() error {
		ie, err := s.ledger.IncomeExpensesSince(gctx, tenantID, &since)
		if err != nil {
			return err
		}
		out.Finance = Finance{Income: ie.Income, Expenses: ie.Expenses, Profit: ie.Balance}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build analytics summary",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return &out, nil
}

func collect(ctx context.Context, c counter, tenantID uuid.UUID, since time.Time) (Counts, error) {
	rows, err := c.CountByStatus(ctx, tenantID)
	if err != nil {
		return Counts{}, err
	}
	thisMonth, err := c.CountCreatedSince(ctx, tenantID, since)
	if err != nil {
		return Counts{}, err
	}

	out := Counts{ThisMonth: thisMonth, ByStatus: make([]StatusCount, 0, len(rows))}
	for _, r := range rows {
		out.Total += r.Count
		if r.IsFinal {
			out.Completed += r.Count
		} else {
			out.Active += r.Count
		}
		out.ByStatus = append(out.ByStatus, StatusCount{Code: r.Code, Name: r.Name, Count: r.Count})
	}
	return out, nil
}
