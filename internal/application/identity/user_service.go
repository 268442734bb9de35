package identity

import (
	"context"

	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errUsernameTaken = shared.NewDomainError(shared.CodeValidationConflict, "Username already exists")

// UserService manages the users of a company
type UserService struct {
	userRepo identity.UserRepository
	guard    *access.Guard
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, guard *access.Guard, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		guard:    guard,
		logger:   logger,
	}
}

// AssignableRoles returns the roles p may hand out, most privileged first.
// Only a superuser may create another superuser.
func (s *UserService) AssignableRoles(p *identity.Principal) []identity.Role {
	var out []identity.Role
	for _, role := range identity.Roles() {
		if role == identity.RoleSuperuser && !p.IsSuperuser {
			continue
		}
		if p.Dominates(role) {
			out = append(out, role)
		}
	}
	return out
}

// CreateUser adds a user to the caller's company. Needs admin or higher,
// and the new role may not outrank the caller's.
func (s *UserService) CreateUser(ctx context.Context, p *identity.Principal, input CreateUserInput) (*UserInfo, error) {
	if err := s.guard.RequireCollection(p, identity.RoleAdmin); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown role")
	}
	if !s.canAssign(p, input.Role) {
		s.logger.Warn("Role escalation attempt",
			zap.String("user_id", p.ID.String()),
			zap.String("role", input.Role.String()))
		return nil, shared.ErrAuthorizationDenied
	}

	user, err := identity.NewUser(&tenantID, input.Username, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	user.SetName(input.FirstName, input.LastName)

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errUsernameTaken
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	info := NewUserInfo(user)
	return &info, nil
}

func (s *UserService) canAssign(p *identity.Principal, role identity.Role) bool {
	for _, r := range s.AssignableRoles(p) {
		if r == role {
			return true
		}
	}
	return false
}

// ListClients returns the active clients of the caller's company. Needs manager or higher.
func (s *UserService) ListClients(ctx context.Context, p *identity.Principal) ([]UserInfo, error) {
	if err := s.guard.RequireCollection(p, identity.RoleManager); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindActiveByRole(ctx, tenantID, identity.RoleClient)
	if err != nil {
		return nil, err
	}
	out := make([]UserInfo, len(users))
	for i := range users {
		out[i] = NewUserInfo(&users[i])
	}
	return out, nil
}
