package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter narrows ledger listings
type EntryFilter struct {
	ShipmentID    *uuid.UUID
	RequestID     *uuid.UUID
	OperationType OperationType
	Currency      Currency
	// ClientID limits entries to requests of that client
	ClientID *uuid.UUID
}

// LedgerRepository persists ledger entries and computes aggregates
type LedgerRepository interface {
	BasisLookup
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)
	FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*LedgerEntry, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]LedgerEntry, error)

	// Create inserts the entry and fills Number from the global sequence
	Create(ctx context.Context, entry *LedgerEntry) error
	Update(ctx context.Context, entry *LedgerEntry) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	SumByCurrency(ctx context.Context, tenantID uuid.UUID, since *time.Time) ([]CurrencyTotal, error)
	SumByCounterparty(ctx context.Context, tenantID uuid.UUID) ([]CounterpartyTotal, error)
}

// ArticleRepository persists articles
type ArticleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Article, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Article, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, article *Article) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CalculationRepository persists shipment calculations
type CalculationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ShipmentCalculation, error)

	// GetOrCreate returns the calculation of the shipment, creating it with zero rates
	GetOrCreate(ctx context.Context, tenantID, shipmentID uuid.UUID) (*ShipmentCalculation, error)
	Save(ctx context.Context, calc *ShipmentCalculation) error
}
