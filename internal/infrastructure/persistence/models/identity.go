package models

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
)

// TenantModel is the persistence model for a company
type TenantModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_tenants_name"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// FromDomain populates the model from a domain Tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
}

// TenantModelFromDomain creates a new persistence model from domain entity
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// UserModel is the persistence model for a login account
type UserModel struct {
	BaseModel
	TenantID     *uuid.UUID `gorm:"type:uuid;index"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(255);not null"`
	FirstName    string     `gorm:"type:varchar(150);not null"`
	LastName     string     `gorm:"type:varchar(150);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(20);not null"`
	IsSuperuser  bool       `gorm:"not null"`
	Active       bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		Role:         identity.Role(m.Role),
		IsSuperuser:  m.IsSuperuser,
		Active:       m.Active,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.TenantID = u.TenantID
	m.Username = u.Username
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.Role = string(u.Role)
	m.IsSuperuser = u.IsSuperuser
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from domain entity
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
