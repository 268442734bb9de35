package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	entries   *MockLedgerRepository
	articles  *MockArticleRepository
	shipments *MockShipmentRepository
	requests  *MockRequestRepository
	users     *MockUserRepository
	idem      *cache.InMemoryIdempotencyStore
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		entries:   new(MockLedgerRepository),
		articles:  new(MockArticleRepository),
		shipments: new(MockShipmentRepository),
		requests:  new(MockRequestRepository),
		users:     new(MockUserRepository),
		idem:      cache.NewInMemoryIdempotencyStore(),
	}
	t.Cleanup(func() { _ = f.idem.Close() })
	f.svc = NewService(Deps{
		Entries:     f.entries,
		Articles:    f.articles,
		Shipments:   f.shipments,
		Requests:    f.requests,
		Users:       f.users,
		Idempotency: f.idem,
		Guard:       access.NewGuard(nil),
	}, Config{MaxBasisDepth: 3}, zap.NewNop())
	return f
}

func member(tenantID uuid.UUID, role identity.Role) *identity.Principal {
	return &identity.Principal{ID: uuid.New(), TenantID: &tenantID, Role: role, Active: true}
}

func usdIn(amount string) finance.EntryDetails {
	return finance.EntryDetails{
		OperationType: finance.OperationIn,
		DocumentType:  finance.DocumentPayment,
		Currency:      finance.CurrencyUSD,
		Amount:        decimal.RequireFromString(amount),
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	boss := member(tenantID, identity.RoleBoss)

	t.Run("stores entry with sequence number", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(args mock.Arguments) { args.Get(1).(*finance.LedgerEntry).Number = 7 }).
			Return(nil)

		res, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: usdIn("100.005")})
		require.NoError(t, err)
		assert.False(t, res.Replayed)
		assert.Equal(t, int64(7), res.Entry.Number)
		assert.Equal(t, tenantID, res.Entry.TenantID)
		assert.Equal(t, "100.01", res.Entry.Amount.StringFixed(2))
		require.NotNil(t, res.Entry.CreatedBy)
		assert.Equal(t, boss.ID, *res.Entry.CreatedBy)
	})

	t.Run("below boss is denied", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Record(ctx, member(tenantID, identity.RoleManager), RecordInput{EntryDetails: usdIn("1")})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("replay returns the stored entry", func(t *testing.T) {
		f := newFixture(t)
		stored, err := finance.NewLedgerEntry(tenantID, boss.ID, usdIn("5"))
		require.NoError(t, err)
		stored.Number = 3
		f.entries.On("FindByIdempotencyKey", mock.Anything, tenantID, "pay-1").Return(stored, nil)

		res, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: usdIn("5"), IdempotencyKey: " pay-1 "})
		require.NoError(t, err)
		assert.True(t, res.Replayed)
		assert.Equal(t, stored.ID, res.Entry.ID)
		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("key in flight elsewhere is a conflict", func(t *testing.T) {
		f := newFixture(t)
		claimed, err := f.idem.MarkProcessed(ctx, "ledger:"+tenantID.String()+":pay-2", f.svc.cfg.IdempotencyTTL)
		require.NoError(t, err)
		require.True(t, claimed)
		f.entries.On("FindByIdempotencyKey", mock.Anything, tenantID, "pay-2").Return(nil, shared.ErrNotFound)

		_, err = f.svc.Record(ctx, boss, RecordInput{EntryDetails: usdIn("5"), IdempotencyKey: "pay-2"})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
	})

	t.Run("failed write releases the key", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("FindByIdempotencyKey", mock.Anything, tenantID, "pay-3").Return(nil, shared.ErrNotFound)
		f.entries.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: usdIn("5"), IdempotencyKey: "pay-3"})
		require.Error(t, err)
		held, err := f.idem.IsProcessed(ctx, "ledger:"+tenantID.String()+":pay-3")
		require.NoError(t, err)
		assert.False(t, held)
	})

	t.Run("lost unique race replays the winner", func(t *testing.T) {
		f := newFixture(t)
		winner, err := finance.NewLedgerEntry(tenantID, boss.ID, usdIn("5"))
		require.NoError(t, err)
		f.entries.On("FindByIdempotencyKey", mock.Anything, tenantID, "pay-4").Return(nil, shared.ErrNotFound).Once()
		f.entries.On("Create", mock.Anything, mock.Anything).Return(shared.ErrValidationConflict)
		f.entries.On("FindByIdempotencyKey", mock.Anything, tenantID, "pay-4").Return(winner, nil).Once()

		res, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: usdIn("5"), IdempotencyKey: "pay-4"})
		require.NoError(t, err)
		assert.True(t, res.Replayed)
		assert.Equal(t, winner.ID, res.Entry.ID)
	})

	t.Run("shipment of another tenant is a conflict", func(t *testing.T) {
		f := newFixture(t)
		foreign := uuid.New()
		d := usdIn("5")
		d.ShipmentID = &foreign
		f.shipments.On("FindByIDForTenant", mock.Anything, tenantID, foreign).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: d})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("counterparty must belong to the tenant", func(t *testing.T) {
		f := newFixture(t)
		otherTenant := uuid.New()
		counterparty, err := identity.NewUser(&otherTenant, "carrier", "secret123", identity.RoleClient)
		require.NoError(t, err)
		d := usdIn("5")
		d.CounterpartyID = &counterparty.ID
		f.users.On("FindByID", mock.Anything, counterparty.ID).Return(counterparty, nil)

		_, err = f.svc.Record(ctx, boss, RecordInput{EntryDetails: d})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
	})

	t.Run("basis chain cycle is rejected", func(t *testing.T) {
		f := newFixture(t)
		a, b := uuid.New(), uuid.New()
		d := usdIn("5")
		d.BasisID = &a
		f.entries.On("FindBasisLink", mock.Anything, a).Return(&finance.BasisLink{ID: a, TenantID: tenantID, BasisID: &b}, nil)
		f.entries.On("FindBasisLink", mock.Anything, b).Return(&finance.BasisLink{ID: b, TenantID: tenantID, BasisID: &a}, nil)

		_, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: d})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
	})

	t.Run("basis chain deeper than the limit is rejected", func(t *testing.T) {
		f := newFixture(t)
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
		for i, id := range ids {
			link := &finance.BasisLink{ID: id, TenantID: tenantID}
			if i+1 < len(ids) {
				link.BasisID = &ids[i+1]
			}
			f.entries.On("FindBasisLink", mock.Anything, id).Return(link, nil)
		}
		d := usdIn("5")
		d.BasisID = &ids[0]

		_, err := f.svc.Record(ctx, boss, RecordInput{EntryDetails: d})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
	})
}

func TestService_Balance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture(t)
	f.entries.On("SumByCurrency", ctx, tenantID, (*time.Time)(nil)).Return([]finance.CurrencyTotal{
		{Currency: finance.CurrencyUSD, OperationType: finance.OperationIn, Total: decimal.RequireFromString("100.10")},
		{Currency: finance.CurrencyUSD, OperationType: finance.OperationOut, Total: decimal.RequireFromString("30.05")},
		{Currency: finance.CurrencyRUB, OperationType: finance.OperationOut, Total: decimal.RequireFromString("500")},
	}, nil)

	b, err := f.svc.Balance(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "70.05", b[finance.CurrencyUSD].StringFixed(2))
	assert.Equal(t, "-500.00", b[finance.CurrencyRUB].StringFixed(2))

	ie, err := f.svc.IncomeExpenses(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "100.10", ie.Income[finance.CurrencyUSD].StringFixed(2))
	assert.Equal(t, "500.00", ie.Expenses[finance.CurrencyRUB].StringFixed(2))
}

func TestService_CounterpartyBalances(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	carrier := uuid.New()

	t.Run("names counterparties and signs amounts", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("SumByCounterparty", ctx, tenantID).Return([]finance.CounterpartyTotal{
			{CounterpartyID: carrier, CurrencyTotal: finance.CurrencyTotal{Currency: finance.CurrencyEUR, OperationType: finance.OperationIn, Total: decimal.NewFromInt(10)}},
			{CounterpartyID: carrier, CurrencyTotal: finance.CurrencyTotal{Currency: finance.CurrencyEUR, OperationType: finance.OperationOut, Total: decimal.NewFromInt(25)}},
		}, nil)
		f.users.On("FindNames", ctx, []uuid.UUID{carrier}).Return(map[uuid.UUID]string{carrier: "Иван Петров"}, nil)

		rows, err := f.svc.CounterpartyBalances(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Иван Петров", rows[0].Name)
		assert.Equal(t, "-15.00", rows[0].Balances[finance.CurrencyEUR].StringFixed(2))
	})

	t.Run("empty ledger skips the name lookup", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("SumByCounterparty", ctx, tenantID).Return([]finance.CounterpartyTotal{}, nil)

		rows, err := f.svc.CounterpartyBalances(ctx, tenantID)
		require.NoError(t, err)
		assert.Empty(t, rows)
		f.users.AssertNotCalled(t, "FindNames", mock.Anything, mock.Anything)
	})
}

func TestService_ExpensesForShipment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	shipmentID := uuid.New()

	t.Run("totals only present currencies", func(t *testing.T) {
		f := newFixture(t)
		f.shipments.On("FindByIDForTenant", ctx, tenantID, shipmentID).Return(&logistics.Shipment{}, nil)
		out, err := finance.NewLedgerEntry(tenantID, uuid.New(), finance.EntryDetails{
			OperationType: finance.OperationOut, DocumentType: finance.DocumentBill,
			Currency: finance.CurrencyEUR, Amount: decimal.NewFromInt(40), ShipmentID: &shipmentID,
		})
		require.NoError(t, err)
		f.entries.On("FindAllForTenant", ctx, tenantID, finance.EntryFilter{
			ShipmentID: &shipmentID, OperationType: finance.OperationOut,
		}).Return([]finance.LedgerEntry{*out}, nil)

		exp, err := f.svc.ExpensesForShipment(ctx, tenantID, shipmentID)
		require.NoError(t, err)
		require.Len(t, exp.Items, 1)
		assert.Len(t, exp.Totals, 1)
		assert.Equal(t, "40.00", exp.Totals[finance.CurrencyEUR].StringFixed(2))
	})

	t.Run("unknown shipment", func(t *testing.T) {
		f := newFixture(t)
		f.shipments.On("FindByIDForTenant", ctx, tenantID, shipmentID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.ExpensesForShipment(ctx, tenantID, shipmentID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("client is narrowed to own requests", func(t *testing.T) {
		f := newFixture(t)
		client := member(tenantID, identity.RoleClient)
		f.entries.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(filter finance.EntryFilter) bool {
			return filter.ClientID != nil && *filter.ClientID == client.ID
		})).Return([]finance.LedgerEntry{}, nil)

		_, err := f.svc.List(ctx, client, ListFilter{})
		require.NoError(t, err)
		f.entries.AssertExpectations(t)
	})

	t.Run("manager sees the whole tenant", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(filter finance.EntryFilter) bool {
			return filter.ClientID == nil && filter.Currency == finance.CurrencyRUB
		})).Return([]finance.LedgerEntry{}, nil)

		_, err := f.svc.List(ctx, member(tenantID, identity.RoleManager), ListFilter{Currency: finance.CurrencyRUB})
		require.NoError(t, err)
	})

	t.Run("warehouse is denied", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.List(ctx, member(tenantID, identity.RoleWarehouse), ListFilter{})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client := member(tenantID, identity.RoleClient)

	requestOf := func(t *testing.T, clientID uuid.UUID) *logistics.Request {
		r, err := logistics.NewRequest(tenantID, clientID, 1, clientID, uuid.New(), logistics.RequestDetails{})
		require.NoError(t, err)
		return r
	}

	t.Run("client reads entry on own request", func(t *testing.T) {
		f := newFixture(t)
		req := requestOf(t, client.ID)
		d := usdIn("5")
		d.RequestID = &req.ID
		entry, err := finance.NewLedgerEntry(tenantID, uuid.New(), d)
		require.NoError(t, err)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
		f.requests.On("FindByIDForTenant", ctx, tenantID, req.ID).Return(req, nil)

		got, err := f.svc.Get(ctx, client, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
	})

	t.Run("entry on someone else's request is not found", func(t *testing.T) {
		f := newFixture(t)
		req := requestOf(t, uuid.New())
		d := usdIn("5")
		d.RequestID = &req.ID
		entry, err := finance.NewLedgerEntry(tenantID, uuid.New(), d)
		require.NoError(t, err)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
		f.requests.On("FindByIDForTenant", ctx, tenantID, req.ID).Return(req, nil)

		_, err = f.svc.Get(ctx, client, entry.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entry, err := finance.NewLedgerEntry(tenantID, uuid.New(), usdIn("5"))
	require.NoError(t, err)

	t.Run("update revalidates and saves", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
		f.entries.On("Update", ctx, entry).Return(nil)

		d := usdIn("9.99")
		d.IsPaid = true
		got, err := f.svc.Update(ctx, member(tenantID, identity.RoleBoss), entry.ID, d)
		require.NoError(t, err)
		assert.True(t, got.IsPaid)
		assert.Equal(t, "9.99", got.Amount.StringFixed(2))
	})

	t.Run("self basis is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
		d := usdIn("1")
		d.BasisID = &entry.ID

		_, err := f.svc.Update(ctx, member(tenantID, identity.RoleBoss), entry.ID, d)
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		f.entries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("delete needs admin", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Delete(ctx, member(tenantID, identity.RoleBoss), entry.ID)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)

		f.entries.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
		f.entries.On("Delete", ctx, tenantID, entry.ID).Return(nil)
		require.NoError(t, f.svc.Delete(ctx, member(tenantID, identity.RoleAdmin), entry.ID))
	})
}

func TestArticleService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	boss := member(tenantID, identity.RoleBoss)

	t.Run("create rejects a duplicate name", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo, access.NewGuard(nil), zap.NewNop())
		repo.On("ExistsByName", ctx, tenantID, "Фрахт", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, boss, " Фрахт ")
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("create saves", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo, access.NewGuard(nil), zap.NewNop())
		repo.On("ExistsByName", ctx, tenantID, "Таможня", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*finance.Article")).Return(nil)

		a, err := svc.Create(ctx, boss, "Таможня")
		require.NoError(t, err)
		assert.Equal(t, tenantID, a.TenantID)
	})

	t.Run("manager is denied", func(t *testing.T) {
		svc := NewArticleService(new(MockArticleRepository), access.NewGuard(nil), zap.NewNop())
		_, err := svc.List(ctx, member(tenantID, identity.RoleManager))
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}
