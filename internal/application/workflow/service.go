// Package workflow runs the per-tenant status registry: baseline seeding,
// the single-default rule, delete protection and status transitions.
package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/logistics/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Metrics receives workflow events
type Metrics interface {
	StatusTransitioned(ctx context.Context, kind, statusCode string)
	BaselineSeeded(ctx context.Context, inserted int)
}

type noopMetrics struct{}

func (noopMetrics) StatusTransitioned(context.Context, string, string) {}
func (noopMetrics) BaselineSeeded(context.Context, int)                {}

// Registry is the contract other services use to resolve and move statuses
type Registry interface {
	EnsureBaseline(ctx context.Context, tenantID uuid.UUID) error
	GetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error)
	Transition(ctx context.Context, target workflow.Transitionable, statusID uuid.UUID, fields workflow.TransitionFields) error
}

var errStatusUnavailable = shared.NewDomainError(shared.CodeValidationConflict, "Status is not available for this record")

// Service implements Registry plus status administration
type Service struct {
	repo    workflow.StatusRepository
	store   workflow.TransitionStore
	metrics Metrics
	seeds   singleflight.Group
	logger  *zap.Logger
}

// NewService creates the registry. metrics may be nil.
func NewService(repo workflow.StatusRepository, store workflow.TransitionStore, metrics Metrics, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:    repo,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// EnsureBaseline inserts the missing baseline statuses of tenantID.
// Concurrent calls for one tenant share a single run, which is not cancelled
// with the caller that started it.
func (s *Service) EnsureBaseline(ctx context.Context, tenantID uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	_, err, _ := s.seeds.Do(tenantID.String(), func() (any, error) {
		inserted, err := s.repo.InsertMissing(ctx, tenantID, workflow.BaselineStatuses(tenantID))
		if err != nil {
			return nil, err
		}
		if inserted > 0 {
			s.logger.Info("Baseline statuses seeded",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("inserted", inserted),
			)
			s.metrics.BaselineSeeded(ctx, inserted)
		}
		return nil, nil
	})
	return err
}

// GetDefault returns the default status of kind. A missing default triggers
// one baseline run; if it is still missing the tenant is misconfigured.
func (s *Service) GetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error) {
	status, err := s.repo.FindDefault(ctx, tenantID, kind)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.EnsureBaseline(ctx, tenantID); err != nil {
		return nil, err
	}
	status, err = s.repo.FindDefault(ctx, tenantID, kind)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("No default status after baseline",
			zap.String("tenant_id", tenantID.String()),
			zap.String("kind", string(kind)),
		)
		return nil, shared.NewDomainError(shared.CodeConfiguration, "No default "+string(kind)+" status is configured")
	}
	return status, err
}

// SetDefault makes statusID the only default of its kind
func (s *Service) SetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, statusID uuid.UUID) error {
	if err := s.repo.SetDefault(ctx, tenantID, kind, statusID); err != nil {
		return err
	}
	s.logger.Info("Default status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", string(kind)),
		zap.String("status_id", statusID.String()),
	)
	return nil
}

// List returns the statuses of kind by order, then name
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) ([]workflow.Status, error) {
	return s.repo.FindByKind(ctx, tenantID, kind)
}

// Get returns one status of the tenant
func (s *Service) Get(ctx context.Context, tenantID, statusID uuid.UUID) (*workflow.Status, error) {
	return s.repo.FindByID(ctx, tenantID, statusID)
}

// Create adds a status. Code and name must be unique within tenant and kind.
func (s *Service) Create(ctx context.Context, input CreateStatusInput) (*workflow.Status, error) {
	existing, err := s.repo.FindByKind(ctx, input.TenantID, input.Kind)
	if err != nil {
		return nil, err
	}

	order := input.Order
	if order <= 0 {
		order = nextOrder(existing)
	}
	status, err := workflow.NewStatus(input.TenantID, input.Kind, input.Code, input.Name, order, input.IsFinal)
	if err != nil {
		return nil, err
	}
	if err := checkConflicts(status, existing); err != nil {
		return nil, err
	}

	status.IsDefault = input.IsDefault
	if err := s.repo.Create(ctx, status); err != nil {
		return nil, err
	}

	s.logger.Info("Status created",
		zap.String("tenant_id", status.TenantID.String()),
		zap.String("kind", string(status.Kind)),
		zap.String("code", status.Code),
		zap.Bool("default", status.IsDefault),
	)
	return status, nil
}

// Update changes a status in place
func (s *Service) Update(ctx context.Context, input UpdateStatusInput) (*workflow.Status, error) {
	status, err := s.repo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	code, name := status.Code, status.Name
	if input.Code != nil {
		code = *input.Code
	}
	if input.Name != nil {
		name = *input.Name
	}
	if err := status.Rename(code, name); err != nil {
		return nil, err
	}
	if input.Order != nil {
		status.Order = *input.Order
	}
	if input.IsFinal != nil {
		status.IsFinal = *input.IsFinal
	}

	existing, err := s.repo.FindByKind(ctx, status.TenantID, status.Kind)
	if err != nil {
		return nil, err
	}
	if err := checkConflicts(status, existing); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, status); err != nil {
		return nil, err
	}
	if input.IsDefault && !status.IsDefault {
		if err := s.SetDefault(ctx, status.TenantID, status.Kind, status.ID); err != nil {
			return nil, err
		}
		status.IsDefault = true
	}
	return status, nil
}

// Delete removes a status that no shipment or request uses. The default of a
// kind cannot be deleted until another status takes its place.
func (s *Service) Delete(ctx context.Context, tenantID, statusID uuid.UUID) error {
	status, err := s.repo.FindByID(ctx, tenantID, statusID)
	if err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, tenantID, statusID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError(shared.CodeReferentialIntegrity, "Status is used by shipments or requests")
	}
	if status.IsDefault {
		return workflow.ErrDefaultStatusDelete
	}
	if err := s.repo.Delete(ctx, tenantID, statusID); err != nil {
		return err
	}
	s.logger.Info("Status deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("status_id", statusID.String()),
	)
	return nil
}

// Reorder assigns order 1..n following ids. ids must list every status of kind.
func (s *Service) Reorder(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, ids []uuid.UUID) error {
	existing, err := s.repo.FindByKind(ctx, tenantID, kind)
	if err != nil {
		return err
	}
	if len(ids) != len(existing) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Reorder must list every status of the kind")
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return shared.ErrNotFound
		}
		delete(known, id)
	}
	return s.repo.UpdateOrder(ctx, tenantID, kind, ids)
}

// Transition moves target into statusID and writes fields with it. Any
// status of the right tenant and kind may follow any other.
func (s *Service) Transition(ctx context.Context, target workflow.Transitionable, statusID uuid.UUID, fields workflow.TransitionFields) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "workflow.Transition",
		attribute.String("kind", string(target.WorkflowKind())),
		attribute.String("target_id", target.GetID().String()),
	)
	defer func() { telemetry.End(span, err) }()

	if err := fields.Validate(); err != nil {
		return err
	}
	status, err := s.repo.FindByID(ctx, target.GetTenantID(), statusID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errStatusUnavailable
		}
		return err
	}
	if err := workflow.ValidateTransition(target, status); err != nil {
		return err
	}

	target.ApplyTransition(status.ID, fields)
	if err := s.store.SaveTransition(ctx, target); err != nil {
		return err
	}

	s.metrics.StatusTransitioned(ctx, string(status.Kind), status.Code)
	s.logger.Info("Status transitioned",
		zap.String("kind", string(status.Kind)),
		zap.String("target_id", target.GetID().String()),
		zap.String("status", status.Code),
	)
	return nil
}

func checkConflicts(status *workflow.Status, existing []workflow.Status) error {
	for i := range existing {
		if status.Conflicts(&existing[i]) {
			return shared.NewDomainError(shared.CodeValidationConflict, "Status with this code or name already exists")
		}
	}
	return nil
}

func nextOrder(existing []workflow.Status) int {
	last := 0
	for i := range existing {
		if existing[i].Order > last {
			last = existing[i].Order
		}
	}
	return last + 1
}

// Ensure Service implements Registry
var _ Registry = (*Service)(nil)
