package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
)

// Config tunes the ledger engine
type Config struct {
	MaxBasisDepth  int
	IdempotencyTTL time.Duration
}

// DefaultConfig returns the defaults used when config leaves values unset
func DefaultConfig() Config {
	return Config{
		MaxBasisDepth:  finance.DefaultMaxBasisDepth,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// RecordInput creates a ledger entry. IdempotencyKey is optional.
type RecordInput struct {
	finance.EntryDetails
	IdempotencyKey string
}

// RecordResult reports whether the entry was written now or replayed from
// an earlier call with the same idempotency key
type RecordResult struct {
	Entry    *finance.LedgerEntry
	Replayed bool
}

// ListFilter narrows ledger listings
type ListFilter struct {
	ShipmentID    *uuid.UUID
	RequestID     *uuid.UUID
	OperationType finance.OperationType
	Currency      finance.Currency
}
