package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type linkMap map[uuid.UUID]*BasisLink

func (m linkMap) FindBasisLink(_ context.Context, id uuid.UUID) (*BasisLink, error) {
	l, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func chain(tenantID uuid.UUID, n int) (linkMap, []uuid.UUID) {
	links := linkMap{}
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	for i, id := range ids {
		l := &BasisLink{ID: id, TenantID: tenantID}
		if i+1 < n {
			next := ids[i+1]
			l.BasisID = &next
		}
		links[id] = l
	}
	return links, ids
}

func newEntryWithBasis(t *testing.T, tenantID uuid.UUID, basis *uuid.UUID) *LedgerEntry {
	t.Helper()
	e, err := NewLedgerEntry(tenantID, uuid.New(), EntryDetails{
		OperationType: OperationOut,
		DocumentType:  DocumentPayment,
		Currency:      CurrencyRUB,
		Amount:        dec("1"),
		BasisID:       basis,
	})
	require.NoError(t, err)
	return e
}

func TestCheckBasisChain(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("no basis", func(t *testing.T) {
		e := newEntryWithBasis(t, tenantID, nil)
		assert.NoError(t, CheckBasisChain(ctx, linkMap{}, e, 3))
	})

	t.Run("valid chain", func(t *testing.T) {
		links, ids := chain(tenantID, 3)
		e := newEntryWithBasis(t, tenantID, &ids[0])
		assert.NoError(t, CheckBasisChain(ctx, links, e, 3))
	})

	t.Run("too deep", func(t *testing.T) {
		links, ids := chain(tenantID, 4)
		e := newEntryWithBasis(t, tenantID, &ids[0])
		err := CheckBasisChain(ctx, links, e, 3)
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		assert.Contains(t, err.Error(), "too deep")
	})

	t.Run("cycle back to the entry", func(t *testing.T) {
		links, ids := chain(tenantID, 2)
		e := newEntryWithBasis(t, tenantID, &ids[0])
		links[ids[1]].BasisID = &e.ID
		err := CheckBasisChain(ctx, links, e, 10)
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("cycle among existing entries", func(t *testing.T) {
		links, ids := chain(tenantID, 3)
		links[ids[2]].BasisID = &ids[1]
		e := newEntryWithBasis(t, tenantID, &ids[0])
		assert.ErrorIs(t, CheckBasisChain(ctx, links, e, 10), shared.ErrValidationConflict)
	})

	t.Run("basis in another tenant", func(t *testing.T) {
		links, ids := chain(uuid.New(), 1)
		e := newEntryWithBasis(t, tenantID, &ids[0])
		assert.ErrorIs(t, CheckBasisChain(ctx, links, e, 10), shared.ErrValidationConflict)
	})

	t.Run("missing basis", func(t *testing.T) {
		missing := uuid.New()
		e := newEntryWithBasis(t, tenantID, &missing)
		assert.ErrorIs(t, CheckBasisChain(ctx, linkMap{}, e, 10), shared.ErrValidationConflict)
	})
}

func TestLedgerEntry_Apply(t *testing.T) {
	tenantID := uuid.New()

	t.Run("rounds amount half-up", func(t *testing.T) {
		e := newEntryWithBasis(t, tenantID, nil)
		require.NoError(t, e.Apply(EntryDetails{
			OperationType: OperationIn, DocumentType: DocumentBill, Currency: CurrencyEUR, Amount: dec("10.005"),
		}))
		assert.True(t, dec("10.01").Equal(e.Amount))
		assert.True(t, dec("10.01").Equal(e.SignedAmount()))
	})

	t.Run("rejects self basis", func(t *testing.T) {
		e := newEntryWithBasis(t, tenantID, nil)
		err := e.Apply(EntryDetails{
			OperationType: OperationIn, DocumentType: DocumentBill, Currency: CurrencyEUR, Amount: dec("1"), BasisID: &e.ID,
		})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
	})

	t.Run("rejects negative and unknown values", func(t *testing.T) {
		_, err := NewLedgerEntry(tenantID, uuid.New(), EntryDetails{OperationType: OperationIn, DocumentType: DocumentBill, Currency: CurrencyRUB, Amount: dec("-1")})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = NewLedgerEntry(tenantID, uuid.New(), EntryDetails{OperationType: "transfer", DocumentType: DocumentBill, Currency: CurrencyRUB})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = NewLedgerEntry(tenantID, uuid.New(), EntryDetails{OperationType: OperationIn, DocumentType: DocumentBill, Currency: "gbp"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("idempotency key", func(t *testing.T) {
		e := newEntryWithBasis(t, tenantID, nil)
		e.SetIdempotencyKey("  ")
		assert.Nil(t, e.IdempotencyKey)
		e.SetIdempotencyKey("abc")
		require.NotNil(t, e.IdempotencyKey)
		assert.Equal(t, "abc", *e.IdempotencyKey)
	})
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" USD ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)
	_, err = ParseCurrency("gbp")
	assert.Error(t, err)
	assert.Equal(t, "Безнал", CurrencyRUBBN.DisplayName())
}
