package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements finance.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindBasisLink resolves one hop of a basis chain regardless of tenant
func (r *GormLedgerRepository) FindBasisLink(ctx context.Context, id uuid.UUID) (*finance.BasisLink, error) {
	var link finance.BasisLink
	result := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Select("id, tenant_id, basis_id").
		Where("id = ?", id).
		Limit(1).
		Scan(&link)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return &link, nil
}

// FindByIDForTenant finds an entry within a tenant
func (r *GormLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey finds the entry recorded under a retry key
func (r *GormLedgerRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("idempotency_key = ?", key).
		First(&model).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists entries newest first
func (r *GormLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.EntryFilter) ([]finance.LedgerEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Scopes(tenant.Scope(tenantID))
	if filter.ShipmentID != nil {
		query = query.Where("shipment_id = ?", *filter.ShipmentID)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}
	if filter.OperationType != "" {
		query = query.Where("operation_type = ?", string(filter.OperationType))
	}
	if filter.Currency != "" {
		query = query.Where("currency = ?", string(filter.Currency))
	}
	if filter.ClientID != nil {
		query = query.Where("request_id IN (SELECT id FROM requests WHERE client_id = ?)", *filter.ClientID)
	}

	var entryModels []models.LedgerEntryModel
	if err := query.Order("created_at DESC").Order("number DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]finance.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Create inserts the entry and reads back the number the sequence assigned
func (r *GormLedgerRepository) Create(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "number"}}}).
		Create(model).Error; err != nil {
		return translateError(err, "Entry with this idempotency key already exists")
	}
	entry.Number = model.Number
	return nil
}

// Update writes the mutable fields of an entry
func (r *GormLedgerRepository) Update(ctx context.Context, entry *finance.LedgerEntry) error {
	result := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Scopes(tenant.Scope(entry.TenantID)).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"operation_type":  string(entry.OperationType),
			"document_type":   string(entry.DocumentType),
			"currency":        string(entry.Currency),
			"amount":          entry.Amount,
			"counterparty_id": entry.CounterpartyID,
			"article_id":      entry.ArticleID,
			"shipment_id":     entry.ShipmentID,
			"request_id":      entry.RequestID,
			"basis_id":        entry.BasisID,
			"is_paid":         entry.IsPaid,
			"payment_date":    entry.PaymentDate,
			"comment":         entry.Comment,
			"updated_at":      entry.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Entry conflicts with existing data")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an entry within a tenant. Entries based on it lose their basis.
func (r *GormLedgerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LedgerEntryModel{}).
			Scopes(tenant.Scope(tenantID)).
			Where("basis_id = ?", id).
			Update("basis_id", nil).Error; err != nil {
			return err
		}
		result := tx.Scopes(tenant.Scope(tenantID)).Delete(&models.LedgerEntryModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error, "")
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

type currencyTotalRow struct {
	CounterpartyID uuid.UUID
	Currency       string
	OperationType  string
	Total          decimal.Decimal
}

// SumByCurrency sums amounts per currency and direction. A non-nil since
// keeps only entries paid on or after that date.
func (r *GormLedgerRepository) SumByCurrency(ctx context.Context, tenantID uuid.UUID, since *time.Time) ([]finance.CurrencyTotal, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Select("currency, operation_type, SUM(amount) AS total").
		Scopes(tenant.Scope(tenantID))
	if since != nil {
		query = query.Where("payment_date >= ?", *since)
	}

	var rows []currencyTotalRow
	if err := query.Group("currency, operation_type").
		Order("currency, operation_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]finance.CurrencyTotal, len(rows))
	for i, row := range rows {
		totals[i] = row.currencyTotal()
	}
	return totals, nil
}

// SumByCounterparty sums amounts per counterparty, currency and direction
func (r *GormLedgerRepository) SumByCounterparty(ctx context.Context, tenantID uuid.UUID) ([]finance.CounterpartyTotal, error) {
	var rows []currencyTotalRow
	if err := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Select("counterparty_id, currency, operation_type, SUM(amount) AS total").
		Scopes(tenant.Scope(tenantID)).
		Where("counterparty_id IS NOT NULL").
		Group("counterparty_id, currency, operation_type").
		Order("counterparty_id, currency, operation_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]finance.CounterpartyTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.CounterpartyTotal{
			CounterpartyID: row.CounterpartyID,
			CurrencyTotal:  row.currencyTotal(),
		}
	}
	return totals, nil
}

func (row currencyTotalRow) currencyTotal() finance.CurrencyTotal {
	return finance.CurrencyTotal{
		Currency:      finance.Currency(row.Currency),
		OperationType: finance.OperationType(row.OperationType),
		Total:         row.Total,
	}
}

// Ensure GormLedgerRepository implements finance.LedgerRepository
var _ finance.LedgerRepository = (*GormLedgerRepository)(nil)
