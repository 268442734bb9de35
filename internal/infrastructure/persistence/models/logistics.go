package models

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/shopspring/decimal"
)

// ShipmentModel is the persistence model for a shipment
type ShipmentModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_shipments_number,priority:1"`
	Number    string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_shipments_number,priority:2"`
	StatusID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Comment   string     `gorm:"type:text;not null"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the model to a domain Shipment
func (m *ShipmentModel) ToDomain() *logistics.Shipment {
	return &logistics.Shipment{
		TenantEntity: tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy),
		Number:       m.Number,
		StatusID:     m.StatusID,
		Comment:      m.Comment,
	}
}

// FromDomain populates the model from a domain Shipment
func (m *ShipmentModel) FromDomain(s *logistics.Shipment) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	m.CreatedBy = s.CreatedBy
	m.Number = s.Number
	m.StatusID = s.StatusID
	m.Comment = s.Comment
}

// ShipmentModelFromDomain creates a new persistence model from domain entity
func ShipmentModelFromDomain(s *logistics.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(s)
	return m
}

// RequestModel is the persistence model for a client request
type RequestModel struct {
	BaseModel
	TenantID        uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_requests_number,priority:1"`
	Number          int                 `gorm:"not null;uniqueIndex:uq_requests_number,priority:2"`
	Description     string              `gorm:"type:text;not null"`
	WarehouseNumber string              `gorm:"type:varchar(50);not null"`
	Places          int                 `gorm:"not null"`
	DeclaredWeight  decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	DeclaredVolume  decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	ActualWeight    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	ActualVolume    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Rate            string              `gorm:"type:text;not null"`
	Comment         string              `gorm:"type:text;not null"`
	StatusID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	ClientID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	ManagerID       *uuid.UUID          `gorm:"type:uuid"`
	ShipmentID      *uuid.UUID          `gorm:"type:uuid;index"`
	CreatedBy       *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RequestModel) TableName() string {
	return "requests"
}

// ToDomain converts the model to a domain Request
func (m *RequestModel) ToDomain() *logistics.Request {
	return &logistics.Request{
		TenantEntity:    tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy),
		Number:          m.Number,
		Description:     m.Description,
		WarehouseNumber: m.WarehouseNumber,
		Places:          m.Places,
		DeclaredWeight:  m.DeclaredWeight,
		DeclaredVolume:  m.DeclaredVolume,
		ActualWeight:    m.ActualWeight,
		ActualVolume:    m.ActualVolume,
		Rate:            m.Rate,
		Comment:         m.Comment,
		StatusID:        m.StatusID,
		ClientID:        m.ClientID,
		ManagerID:       m.ManagerID,
		ShipmentID:      m.ShipmentID,
	}
}

// FromDomain populates the model from a domain Request
func (m *RequestModel) FromDomain(r *logistics.Request) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.TenantID = r.TenantID
	m.CreatedBy = r.CreatedBy
	m.Number = r.Number
	m.Description = r.Description
	m.WarehouseNumber = r.WarehouseNumber
	m.Places = r.Places
	m.DeclaredWeight = r.DeclaredWeight
	m.DeclaredVolume = r.DeclaredVolume
	m.ActualWeight = r.ActualWeight
	m.ActualVolume = r.ActualVolume
	m.Rate = r.Rate
	m.Comment = r.Comment
	m.StatusID = r.StatusID
	m.ClientID = r.ClientID
	m.ManagerID = r.ManagerID
	m.ShipmentID = r.ShipmentID
}

// RequestModelFromDomain creates a new persistence model from domain entity
func RequestModelFromDomain(r *logistics.Request) *RequestModel {
	m := &RequestModel{}
	m.FromDomain(r)
	return m
}

// RequestFileModel is the persistence model for a request attachment
type RequestFileModel struct {
	BaseModel
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	ObjectKey  string    `gorm:"type:varchar(1024);not null"`
	UploadedBy uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RequestFileModel) TableName() string {
	return "request_files"
}

// ToDomain converts the model to a domain RequestFile without its parent
func (m *RequestFileModel) ToDomain() *logistics.RequestFile {
	return &logistics.RequestFile{
		BaseEntity: m.BaseModel.ToDomain(),
		RequestID:  m.RequestID,
		FileName:   m.FileName,
		ObjectKey:  m.ObjectKey,
		UploadedBy: m.UploadedBy,
	}
}

// FromDomain populates the model from a domain RequestFile
func (m *RequestFileModel) FromDomain(f *logistics.RequestFile) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.RequestID = f.RequestID
	m.FileName = f.FileName
	m.ObjectKey = f.ObjectKey
	m.UploadedBy = f.UploadedBy
}

// ShipmentFolderModel is the persistence model for a shipment folder
type ShipmentFolderModel struct {
	BaseModel
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_shipment_folders_name,priority:1"`
	Name       string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_shipment_folders_name,priority:2"`
	CreatedBy  uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ShipmentFolderModel) TableName() string {
	return "shipment_folders"
}

// ToDomain converts the model to a domain ShipmentFolder without its parent
func (m *ShipmentFolderModel) ToDomain() *logistics.ShipmentFolder {
	return &logistics.ShipmentFolder{
		BaseEntity: m.BaseModel.ToDomain(),
		ShipmentID: m.ShipmentID,
		Name:       m.Name,
		CreatedBy:  m.CreatedBy,
	}
}

// FromDomain populates the model from a domain ShipmentFolder
func (m *ShipmentFolderModel) FromDomain(f *logistics.ShipmentFolder) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.ShipmentID = f.ShipmentID
	m.Name = f.Name
	m.CreatedBy = f.CreatedBy
}

// ShipmentFileModel is the persistence model for a shipment attachment
type ShipmentFileModel struct {
	BaseModel
	ShipmentID uuid.UUID  `gorm:"type:uuid;not null;index"`
	FolderID   *uuid.UUID `gorm:"type:uuid;index"`
	FileName   string     `gorm:"type:varchar(255);not null"`
	ObjectKey  string     `gorm:"type:varchar(1024);not null"`
	UploadedBy uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ShipmentFileModel) TableName() string {
	return "shipment_files"
}

// ToDomain converts the model to a domain ShipmentFile without its parent
func (m *ShipmentFileModel) ToDomain() *logistics.ShipmentFile {
	return &logistics.ShipmentFile{
		BaseEntity: m.BaseModel.ToDomain(),
		ShipmentID: m.ShipmentID,
		FolderID:   m.FolderID,
		FileName:   m.FileName,
		ObjectKey:  m.ObjectKey,
		UploadedBy: m.UploadedBy,
	}
}

// FromDomain populates the model from a domain ShipmentFile
func (m *ShipmentFileModel) FromDomain(f *logistics.ShipmentFile) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.ShipmentID = f.ShipmentID
	m.FolderID = f.FolderID
	m.FileName = f.FileName
	m.ObjectKey = f.ObjectKey
	m.UploadedBy = f.UploadedBy
}
