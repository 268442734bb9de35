package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the fixed-point precision of ledger amounts
const AmountPlaces = 2

// LedgerEntry is one financial operation of a tenant
type LedgerEntry struct {
	shared.TenantEntity
	Number         int64 // assigned by storage from a global sequence
	OperationType  OperationType
	DocumentType   DocumentType
	Currency       Currency
	Amount         decimal.Decimal
	CounterpartyID *uuid.UUID
	ArticleID      *uuid.UUID
	ShipmentID     *uuid.UUID
	RequestID      *uuid.UUID
	BasisID        *uuid.UUID
	IsPaid         bool
	PaymentDate    *time.Time
	Comment        string
	IdempotencyKey *string
}

// EntryDetails are the mutable fields of a ledger entry
type EntryDetails struct {
	OperationType  OperationType
	DocumentType   DocumentType
	Currency       Currency
	Amount         decimal.Decimal
	CounterpartyID *uuid.UUID
	ArticleID      *uuid.UUID
	ShipmentID     *uuid.UUID
	RequestID      *uuid.UUID
	BasisID        *uuid.UUID
	IsPaid         bool
	PaymentDate    *time.Time
	Comment        string
}

// NewLedgerEntry creates an unnumbered entry
func NewLedgerEntry(tenantID, createdBy uuid.UUID, details EntryDetails) (*LedgerEntry, error) {
	e := &LedgerEntry{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, createdBy),
	}
	if err := e.Apply(details); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply validates and copies details onto the entry
func (e *LedgerEntry) Apply(d EntryDetails) error {
	if !d.OperationType.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Operation type must be in or out")
	}
	if !d.DocumentType.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Document type must be bill or payment")
	}
	if !d.Currency.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown currency")
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Amount cannot be negative")
	}
	if d.BasisID != nil && *d.BasisID == e.ID {
		return shared.NewDomainError(shared.CodeValidationConflict, "Entry cannot be its own basis")
	}

	e.OperationType = d.OperationType
	e.DocumentType = d.DocumentType
	e.Currency = d.Currency
	e.Amount = d.Amount.Round(AmountPlaces)
	e.CounterpartyID = d.CounterpartyID
	e.ArticleID = d.ArticleID
	e.ShipmentID = d.ShipmentID
	e.RequestID = d.RequestID
	e.BasisID = d.BasisID
	e.IsPaid = d.IsPaid
	e.PaymentDate = d.PaymentDate
	e.Comment = strings.TrimSpace(d.Comment)
	e.Touch()
	return nil
}

// SetIdempotencyKey attaches the client supplied retry key
func (e *LedgerEntry) SetIdempotencyKey(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		e.IdempotencyKey = nil
		return
	}
	e.IdempotencyKey = &key
}

// SignedAmount returns the amount with the sign of its direction
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.OperationType == OperationOut {
		return e.Amount.Neg()
	}
	return e.Amount
}
