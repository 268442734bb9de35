package models

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/workflow"
)

// StatusModel is the persistence model for a workflow status.
// NameKey holds the folded name that backs name uniqueness.
type StatusModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_workflow_statuses_code,priority:1;uniqueIndex:uq_workflow_statuses_name,priority:1;uniqueIndex:uq_workflow_statuses_default,priority:1,where:is_default"`
	Kind      string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_workflow_statuses_code,priority:2;uniqueIndex:uq_workflow_statuses_name,priority:2;uniqueIndex:uq_workflow_statuses_default,priority:2,where:is_default"`
	Code      string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_workflow_statuses_code,priority:3"`
	Name      string     `gorm:"type:varchar(100);not null"`
	NameKey   string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_workflow_statuses_name,priority:3"`
	IsDefault bool       `gorm:"not null"`
	IsFinal   bool       `gorm:"not null"`
	SortOrder int        `gorm:"not null"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StatusModel) TableName() string {
	return "workflow_statuses"
}

// ToDomain converts the model to a domain Status
func (m *StatusModel) ToDomain() *workflow.Status {
	return &workflow.Status{
		TenantEntity: tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy),
		Kind:         workflow.Kind(m.Kind),
		Code:         m.Code,
		Name:         m.Name,
		IsDefault:    m.IsDefault,
		IsFinal:      m.IsFinal,
		Order:        m.SortOrder,
	}
}

// FromDomain populates the model from a domain Status
func (m *StatusModel) FromDomain(s *workflow.Status) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	m.CreatedBy = s.CreatedBy
	m.Kind = string(s.Kind)
	m.Code = s.Code
	m.Name = s.Name
	m.NameKey = s.NameKey()
	m.IsDefault = s.IsDefault
	m.IsFinal = s.IsFinal
	m.SortOrder = s.Order
}

// StatusModelFromDomain creates a new persistence model from domain entity
func StatusModelFromDomain(s *workflow.Status) *StatusModel {
	m := &StatusModel{}
	m.FromDomain(s)
	return m
}
