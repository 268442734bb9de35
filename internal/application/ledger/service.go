// Package ledger records financial entries and aggregates them into
// balances. Every reference an entry carries is checked against the
// entry's tenant before anything is written.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Metrics receives ledger events
type Metrics interface {
	LedgerEntryRecorded(ctx context.Context, operation, currency string)
	LedgerEntryReplayed(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) LedgerEntryRecorded(context.Context, string, string) {}
func (noopMetrics) LedgerEntryReplayed(context.Context)                 {}

// Ledger is the engine contract used by handlers and other services
type Ledger interface {
	Record(ctx context.Context, p *identity.Principal, input RecordInput) (*RecordResult, error)
	Balance(ctx context.Context, tenantID uuid.UUID) (finance.Balance, error)
	CounterpartyBalances(ctx context.Context, tenantID uuid.UUID) ([]finance.CounterpartyBalance, error)
	ExpensesForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*finance.ShipmentExpenses, error)
}

var errKeyInFlight = shared.NewDomainError(shared.CodeValidationConflict, "A request with this idempotency key is still being processed")

func referenceUnavailable(what string) error {
	return shared.NewDomainError(shared.CodeValidationConflict, what+" is not available in this company")
}

// Service implements Ledger plus entry administration
type Service struct {
	entries   finance.LedgerRepository
	articles  finance.ArticleRepository
	shipments logistics.ShipmentRepository
	requests  logistics.RequestRepository
	users     identity.UserRepository
	idem      shared.IdempotencyStore
	guard     *access.Guard
	metrics   Metrics
	cfg       Config
	logger    *zap.Logger
}

// Deps groups the collaborators of Service
type Deps struct {
	Entries     finance.LedgerRepository
	Articles    finance.ArticleRepository
	Shipments   logistics.ShipmentRepository
	Requests    logistics.RequestRepository
	Users       identity.UserRepository
	Idempotency shared.IdempotencyStore
	Guard       *access.Guard
	Metrics     Metrics
}

// NewService creates the ledger engine
func NewService(deps Deps, cfg Config, logger *zap.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.MaxBasisDepth <= 0 {
		cfg.MaxBasisDepth = defaults.MaxBasisDepth
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaults.IdempotencyTTL
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		entries:   deps.Entries,
		articles:  deps.Articles,
		shipments: deps.Shipments,
		requests:  deps.Requests,
		users:     deps.Users,
		idem:      deps.Idempotency,
		guard:     deps.Guard,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
	}
}

// Record validates and stores a new entry. With an idempotency key a
// repeated call returns the entry stored by the first one.
func (s *Service) Record(ctx context.Context, p *identity.Principal, input RecordInput) (result *RecordResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.Record",
		attribute.String("operation_type", string(input.OperationType)),
		attribute.String("currency", string(input.Currency)),
	)
	defer func() { telemetry.End(span, err) }()

	if err := s.guard.RequireCollection(p, identity.RoleBoss); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}

	entry, err := finance.NewLedgerEntry(tenantID, p.ID, input.EntryDetails)
	if err != nil {
		return nil, err
	}
	entry.SetIdempotencyKey(input.IdempotencyKey)

	claimKey := ""
	if entry.IdempotencyKey != nil {
		if replay, err := s.replay(ctx, tenantID, *entry.IdempotencyKey); replay != nil || err != nil {
			return replay, err
		}
		claimKey, err = s.claim(ctx, tenantID, *entry.IdempotencyKey)
		if err != nil {
			return nil, err
		}
	}
	release := func() {
		if claimKey == "" {
			return
		}
		if err := s.idem.Release(ctx, claimKey); err != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", claimKey), zap.Error(err))
		}
	}

	if err := s.validateReferences(ctx, entry); err != nil {
		release()
		return nil, err
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		release()
		if entry.IdempotencyKey != nil && errors.Is(err, shared.ErrValidationConflict) {
			// another instance won the unique index
			replay, rerr := s.replay(ctx, tenantID, *entry.IdempotencyKey)
			if rerr != nil {
				return nil, rerr
			}
			if replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}

	s.metrics.LedgerEntryRecorded(ctx, string(entry.OperationType), string(entry.Currency))
	s.logger.Info("Ledger entry recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.Int64("number", entry.Number),
		zap.String("operation_type", string(entry.OperationType)),
		zap.String("currency", string(entry.Currency)),
		zap.String("amount", entry.Amount.StringFixed(finance.AmountPlaces)),
	)
	return &RecordResult{Entry: entry}, nil
}

// replay returns the entry already stored under key, or nil
func (s *Service) replay(ctx context.Context, tenantID uuid.UUID, key string) (*RecordResult, error) {
	existing, err := s.entries.FindByIdempotencyKey(ctx, tenantID, key)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.metrics.LedgerEntryReplayed(ctx)
	s.logger.Info("Ledger entry replayed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", existing.ID.String()),
	)
	return &RecordResult{Entry: existing, Replayed: true}, nil
}

// claim marks the key as in flight. A store outage leaves the unique index
// as the only guard and is not fatal.
func (s *Service) claim(ctx context.Context, tenantID uuid.UUID, key string) (string, error) {
	if s.idem == nil {
		return "", nil
	}
	claimKey := fmt.Sprintf("ledger:%s:%s", tenantID, key)
	claimed, err := s.idem.MarkProcessed(ctx, claimKey, s.cfg.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable", zap.Error(err))
		return "", nil
	}
	if !claimed {
		return "", errKeyInFlight
	}
	return claimKey, nil
}

func (s *Service) validateReferences(ctx context.Context, entry *finance.LedgerEntry) error {
	tenantID := entry.TenantID
	if entry.ShipmentID != nil {
		if _, err := s.shipments.FindByIDForTenant(ctx, tenantID, *entry.ShipmentID); err != nil {
			return mapReference(err, "Shipment")
		}
	}
	if entry.RequestID != nil {
		if _, err := s.requests.FindByIDForTenant(ctx, tenantID, *entry.RequestID); err != nil {
			return mapReference(err, "Request")
		}
	}
	if entry.ArticleID != nil {
		if _, err := s.articles.FindByIDForTenant(ctx, tenantID, *entry.ArticleID); err != nil {
			return mapReference(err, "Article")
		}
	}
	if entry.CounterpartyID != nil {
		user, err := s.users.FindByID(ctx, *entry.CounterpartyID)
		if err != nil {
			return mapReference(err, "Counterparty")
		}
		if user.GetTenantID() != tenantID {
			return referenceUnavailable("Counterparty")
		}
	}
	return finance.CheckBasisChain(ctx, s.entries, entry, s.cfg.MaxBasisDepth)
}

func mapReference(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return referenceUnavailable(what)
	}
	return err
}

// Get returns one entry. Clients only see entries on their own requests.
func (s *Service) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*finance.LedgerEntry, error) {
	if err := s.guard.RequireCollection(p, identity.RoleClient); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}
	entry, err := s.entries.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(ctx, p, entry) {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func (s *Service) visible(ctx context.Context, p *identity.Principal, entry *finance.LedgerEntry) bool {
	if !p.IsClient() {
		return s.guard.AuthorizeObject(p, identity.RoleManager, entry)
	}
	if entry.RequestID == nil || !s.guard.AuthorizeObject(p, identity.RoleClient, entry) {
		return false
	}
	req, err := s.requests.FindByIDForTenant(ctx, entry.TenantID, *entry.RequestID)
	return err == nil && req.ClientID == p.ID
}

// List returns the tenant's entries, newest first. Clients only see
// entries on their own requests.
func (s *Service) List(ctx context.Context, p *identity.Principal, filter ListFilter) ([]finance.LedgerEntry, error) {
	required := identity.RoleManager
	if p != nil && p.IsClient() {
		required = identity.RoleClient
	}
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}

	f := finance.EntryFilter{
		ShipmentID:    filter.ShipmentID,
		RequestID:     filter.RequestID,
		OperationType: filter.OperationType,
		Currency:      filter.Currency,
	}
	if p.IsClient() {
		id := p.ID
		f.ClientID = &id
	}
	return s.entries.FindAllForTenant(ctx, tenantID, f)
}

// Update replaces the mutable fields of an entry and re-checks its references
func (s *Service) Update(ctx context.Context, p *identity.Principal, id uuid.UUID, details finance.EntryDetails) (*finance.LedgerEntry, error) {
	if err := s.guard.RequireCollection(p, identity.RoleBoss); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}
	entry, err := s.entries.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, identity.RoleBoss, entry); err != nil {
		return nil, err
	}

	if err := entry.Apply(details); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Ledger entry updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entry.ID.String()),
	)
	return entry, nil
}

// Delete removes an entry. Entries that used it as basis lose the link.
func (s *Service) Delete(ctx context.Context, p *identity.Principal, id uuid.UUID) error {
	if err := s.guard.RequireCollection(p, identity.RoleAdmin); err != nil {
		return err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return err
	}
	entry, err := s.entries.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireObject(p, identity.RoleAdmin, entry); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Ledger entry deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", id.String()),
	)
	return nil
}

// Balance is in minus out per currency over the whole ledger
func (s *Service) Balance(ctx context.Context, tenantID uuid.UUID) (finance.Balance, error) {
	totals, err := s.entries.SumByCurrency(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}
	return finance.BalanceFromTotals(totals), nil
}

// IncomeExpenses is the balance split into its two directions
func (s *Service) IncomeExpenses(ctx context.Context, tenantID uuid.UUID) (finance.IncomeExpenses, error) {
	return s.IncomeExpensesSince(ctx, tenantID, nil)
}

// IncomeExpensesSince limits IncomeExpenses to payments on or after since
func (s *Service) IncomeExpensesSince(ctx context.Context, tenantID uuid.UUID, since *time.Time) (finance.IncomeExpenses, error) {
	totals, err := s.entries.SumByCurrency(ctx, tenantID, since)
	if err != nil {
		return finance.IncomeExpenses{}, err
	}
	return finance.IncomeExpensesFromTotals(totals), nil
}

// CounterpartyBalances groups signed totals by counterparty, named after the user
func (s *Service) CounterpartyBalances(ctx context.Context, tenantID uuid.UUID) ([]finance.CounterpartyBalance, error) {
	totals, err := s.entries.SumByCounterparty(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return []finance.CounterpartyBalance{}, nil
	}

	seen := make(map[uuid.UUID]bool, len(totals))
	ids := make([]uuid.UUID, 0, len(totals))
	for _, t := range totals {
		if !seen[t.CounterpartyID] {
			seen[t.CounterpartyID] = true
			ids = append(ids, t.CounterpartyID)
		}
	}
	names, err := s.users.FindNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	return finance.GroupCounterpartyTotals(totals, names), nil
}

// ExpensesForShipment lists the out entries of a shipment with totals over
// the currencies that occur
func (s *Service) ExpensesForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*finance.ShipmentExpenses, error) {
	if _, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindAllForTenant(ctx, tenantID, finance.EntryFilter{
		ShipmentID:    &shipmentID,
		OperationType: finance.OperationOut,
	})
	if err != nil {
		return nil, err
	}
	return finance.SummarizeExpenses(entries), nil
}

// Ensure Service implements Ledger
var _ Ledger = (*Service)(nil)
