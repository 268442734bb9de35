package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for a ledger entry.
// Number is filled by the database sequence and never written by GORM.
type LedgerEntryModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_ledger_entries_idempotency,priority:1"`
	Number         int64           `gorm:"column:number;<-:false"`
	OperationType  string          `gorm:"type:varchar(10);not null"`
	DocumentType   string          `gorm:"type:varchar(10);not null"`
	Currency       string          `gorm:"type:varchar(10);not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CounterpartyID *uuid.UUID      `gorm:"type:uuid;index"`
	ArticleID      *uuid.UUID      `gorm:"type:uuid"`
	ShipmentID     *uuid.UUID      `gorm:"type:uuid;index"`
	RequestID      *uuid.UUID      `gorm:"type:uuid;index"`
	BasisID        *uuid.UUID      `gorm:"type:uuid"`
	IsPaid         bool            `gorm:"not null"`
	PaymentDate    *time.Time      `gorm:"type:date"`
	Comment        string          `gorm:"type:text;not null"`
	IdempotencyKey *string         `gorm:"type:varchar(255);uniqueIndex:uq_ledger_entries_idempotency,priority:2"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	return &finance.LedgerEntry{
		TenantEntity:   tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy),
		Number:         m.Number,
		OperationType:  finance.OperationType(m.OperationType),
		DocumentType:   finance.DocumentType(m.DocumentType),
		Currency:       finance.Currency(m.Currency),
		Amount:         m.Amount,
		CounterpartyID: m.CounterpartyID,
		ArticleID:      m.ArticleID,
		ShipmentID:     m.ShipmentID,
		RequestID:      m.RequestID,
		BasisID:        m.BasisID,
		IsPaid:         m.IsPaid,
		PaymentDate:    m.PaymentDate,
		Comment:        m.Comment,
		IdempotencyKey: m.IdempotencyKey,
	}
}

// FromDomain populates the model from a domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.CreatedBy = e.CreatedBy
	m.Number = e.Number
	m.OperationType = string(e.OperationType)
	m.DocumentType = string(e.DocumentType)
	m.Currency = string(e.Currency)
	m.Amount = e.Amount
	m.CounterpartyID = e.CounterpartyID
	m.ArticleID = e.ArticleID
	m.ShipmentID = e.ShipmentID
	m.RequestID = e.RequestID
	m.BasisID = e.BasisID
	m.IsPaid = e.IsPaid
	m.PaymentDate = e.PaymentDate
	m.Comment = e.Comment
	m.IdempotencyKey = e.IdempotencyKey
}

// LedgerEntryModelFromDomain creates a new persistence model from domain entity
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// ArticleModel is the persistence model for a ledger article
type ArticleModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_articles_name,priority:1"`
	Name      string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_articles_name,priority:2"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "articles"
}

// ToDomain converts the model to a domain Article
func (m *ArticleModel) ToDomain() *finance.Article {
	return &finance.Article{
		TenantEntity: tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy),
		Name:         m.Name,
	}
}

// FromDomain populates the model from a domain Article
func (m *ArticleModel) FromDomain(a *finance.Article) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.CreatedBy = a.CreatedBy
	m.Name = a.Name
}

// ShipmentCalculationModel is the persistence model for a shipment's rate snapshot
type ShipmentCalculationModel struct {
	TenantScopedModel
	ShipmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	EuroRate   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	USDRate    decimal.Decimal `gorm:"column:usd_rate;type:numeric(10,2);not null"`
}

// TableName returns the table name for GORM
func (ShipmentCalculationModel) TableName() string {
	return "shipment_calculations"
}

// ToDomain converts the model to a domain ShipmentCalculation
func (m *ShipmentCalculationModel) ToDomain() *finance.ShipmentCalculation {
	return &finance.ShipmentCalculation{
		TenantEntity: m.ToTenantEntity(),
		ShipmentID:   m.ShipmentID,
		EuroRate:     m.EuroRate,
		USDRate:      m.USDRate,
	}
}

// FromDomain populates the model from a domain ShipmentCalculation
func (m *ShipmentCalculationModel) FromDomain(c *finance.ShipmentCalculation) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.ShipmentID = c.ShipmentID
	m.EuroRate = c.EuroRate
	m.USDRate = c.USDRate
}
