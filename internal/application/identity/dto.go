package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // client IP, logged only
}

// TokenResult is an issued access/refresh pair
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LoginResult contains the tokens and the authenticated user
type LoginResult struct {
	TokenResult
	User UserInfo
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID
	TenantID    *uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Role        identity.Role
	IsSuperuser bool
}

// NewUserInfo builds the public view of u
func NewUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

// CreateUserInput creates a user inside the caller's company
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      identity.Role
}

// CreateTenantInput creates a company
type CreateTenantInput struct {
	Name string
}
