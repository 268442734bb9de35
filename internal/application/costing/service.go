// Package costing runs the shipment cost report over the rate snapshot
// stored with each shipment.
package costing

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Metrics receives calculation events
type Metrics interface {
	CostCalculated(ctx context.Context, requests, warnings int)
}

type noopMetrics struct{}

func (noopMetrics) CostCalculated(context.Context, int, int) {}

// Calculator is the cost report contract used by handlers
type Calculator interface {
	Calculate(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID, euroRate, usdRate *decimal.Decimal) (*finance.CostReport, error)
}

// Service implements Calculator plus rate snapshot management. Everything
// needs boss or higher.
type Service struct {
	calcs     finance.CalculationRepository
	shipments logistics.ShipmentRepository
	requests  logistics.RequestRepository
	users     identity.UserRepository
	guard     *access.Guard
	metrics   Metrics
	logger    *zap.Logger
}

// NewService creates the calculator service. metrics may be nil.
func NewService(
	calcs finance.CalculationRepository,
	shipments logistics.ShipmentRepository,
	requests logistics.RequestRepository,
	users identity.UserRepository,
	guard *access.Guard,
	metrics Metrics,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		calcs:     calcs,
		shipments: shipments,
		requests:  requests,
		users:     users,
		guard:     guard,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *Service) tenant(p *identity.Principal) (uuid.UUID, error) {
	if err := s.guard.RequireCollection(p, identity.RoleBoss); err != nil {
		return uuid.Nil, err
	}
	return access.TenantOf(p)
}

// ByShipment returns the calculation of a shipment, creating it with zero rates
func (s *Service) ByShipment(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID) (*finance.ShipmentCalculation, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	shipment, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, identity.RoleBoss, shipment); err != nil {
		return nil, err
	}
	return s.calcs.GetOrCreate(ctx, tenantID, shipment.ID)
}

// Get returns a calculation by id
func (s *Service) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*finance.ShipmentCalculation, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	calc, err := s.calcs.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, identity.RoleBoss, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// Update stores new rates. A nil rate keeps the stored value.
func (s *Service) Update(ctx context.Context, p *identity.Principal, id uuid.UUID, euroRate, usdRate *decimal.Decimal) (*finance.ShipmentCalculation, error) {
	calc, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.saveRates(ctx, calc, euroRate, usdRate); err != nil {
		return nil, err
	}
	return calc, nil
}

func (s *Service) saveRates(ctx context.Context, calc *finance.ShipmentCalculation, euroRate, usdRate *decimal.Decimal) error {
	if euroRate == nil && usdRate == nil {
		return nil
	}
	if err := calc.SetRates(euroRate, usdRate); err != nil {
		return err
	}
	if err := s.calcs.Save(ctx, calc); err != nil {
		return err
	}
	s.logger.Info("Shipment rates updated",
		zap.String("calculation_id", calc.ID.String()),
		zap.String("euro_rate", calc.EuroRate.StringFixed(finance.RatePlaces)),
		zap.String("usd_rate", calc.USDRate.StringFixed(finance.RatePlaces)),
	)
	return nil
}

// RelatedRequests lists the requests attached to the calculation's shipment
func (s *Service) RelatedRequests(ctx context.Context, p *identity.Principal, id uuid.UUID) ([]logistics.Request, error) {
	calc, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.requests.FindByShipment(ctx, calc.TenantID, calc.ShipmentID)
}

// Calculate gets or creates the shipment's calculation, stores the supplied
// rates and converts every linked request. Malformed breakdowns come back
// as warnings.
func (s *Service) Calculate(ctx context.Context, p *identity.Principal, shipmentID uuid.UUID, euroRate, usdRate *decimal.Decimal) (report *finance.CostReport, err error) {
	ctx, span := telemetry.StartSpan(ctx, "costing.Calculate", attribute.String("shipment_id", shipmentID.String()))
	defer func() { telemetry.End(span, err) }()

	calc, err := s.ByShipment(ctx, p, shipmentID)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, calc, euroRate, usdRate)
}

// CalculateByID is Calculate addressed by calculation id
func (s *Service) CalculateByID(ctx context.Context, p *identity.Principal, id uuid.UUID, euroRate, usdRate *decimal.Decimal) (*finance.CostReport, error) {
	calc, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, calc, euroRate, usdRate)
}

func (s *Service) calculate(ctx context.Context, calc *finance.ShipmentCalculation, euroRate, usdRate *decimal.Decimal) (*finance.CostReport, error) {
	if err := s.saveRates(ctx, calc, euroRate, usdRate); err != nil {
		return nil, err
	}

	requests, err := s.requests.FindByShipment(ctx, calc.TenantID, calc.ShipmentID)
	if err != nil {
		return nil, err
	}
	names, err := s.clientNames(ctx, requests)
	if err != nil {
		return nil, err
	}

	inputs := make([]finance.CostInput, 0, len(requests))
	for i := range requests {
		r := &requests[i]
		inputs = append(inputs, finance.CostInput{
			RequestID: r.ID,
			Number:    r.Number,
			Client:    names[r.ClientID],
			Rate:      r.Rate,
		})
	}
	report := finance.CalculateCosts(calc.Rates(), inputs)

	for _, w := range report.Warnings {
		s.logger.Warn("Request skipped in cost report",
			zap.String("request_id", w.RequestID.String()),
			zap.Int("number", w.Number),
			zap.String("reason", w.Reason),
		)
	}
	s.metrics.CostCalculated(ctx, len(report.Requests), len(report.Warnings))
	return report, nil
}

func (s *Service) clientNames(ctx context.Context, requests []logistics.Request) (map[uuid.UUID]string, error) {
	if len(requests) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(requests))
	for i := range requests {
		if id := requests[i].ClientID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return s.users.FindNames(ctx, ids)
}

// Ensure Service implements Calculator
var _ Calculator = (*Service)(nil)
