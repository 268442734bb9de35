package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_AssignableRoles(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), access.NewGuard(nil), zap.NewNop())
	tenantID := uuid.New()

	assert.Equal(t, []identity.Role{identity.RoleManager, identity.RoleWarehouse, identity.RoleClient},
		svc.AssignableRoles(principal(tenantID, identity.RoleManager)))
	assert.NotContains(t, svc.AssignableRoles(principal(tenantID, identity.RoleAdmin)), identity.RoleSuperuser)

	root := &identity.Principal{ID: uuid.New(), IsSuperuser: true, Role: identity.RoleSuperuser, Active: true}
	assert.Equal(t, identity.Roles(), svc.AssignableRoles(root))
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	admin := principal(tenantID, identity.RoleAdmin)

	t.Run("creates inside the caller's tenant", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByUsername", mock.Anything, "client7").Return(false, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.GetTenantID() == tenantID && u.Role == identity.RoleClient
		})).Return(nil)
		svc := NewUserService(repo, access.NewGuard(nil), zap.NewNop())

		info, err := svc.CreateUser(ctx, admin, CreateUserInput{
			Username: "Client7", Password: "secret123", Email: "C7@example.com", Role: identity.RoleClient,
		})
		require.NoError(t, err)
		assert.Equal(t, "c7@example.com", info.Email)
		repo.AssertExpectations(t)
	})

	t.Run("cannot create a higher role", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), access.NewGuard(nil), zap.NewNop())
		_, err := svc.CreateUser(ctx, admin, CreateUserInput{Username: "root2", Password: "secret123", Role: identity.RoleSuperuser})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("boss cannot create users", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), access.NewGuard(nil), zap.NewNop())
		_, err := svc.CreateUser(ctx, principal(tenantID, identity.RoleBoss), CreateUserInput{Username: "c1", Password: "secret123", Role: identity.RoleClient})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByUsername", mock.Anything, "client7").Return(true, nil)
		svc := NewUserService(repo, access.NewGuard(nil), zap.NewNop())

		_, err := svc.CreateUser(ctx, admin, CreateUserInput{Username: "client7", Password: "secret123", Role: identity.RoleClient})
		assert.ErrorIs(t, err, shared.ErrValidationConflict)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("superuser without a tenant is refused", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), access.NewGuard(nil), zap.NewNop())
		root := &identity.Principal{ID: uuid.New(), IsSuperuser: true, Role: identity.RoleSuperuser, Active: true}
		_, err := svc.CreateUser(ctx, root, CreateUserInput{Username: "c1x", Password: "secret123", Role: identity.RoleClient})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}

func TestUserService_ListClients(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, err := identity.NewUser(&tenantID, "client1", "secret123", identity.RoleClient)
	require.NoError(t, err)
	repo := new(MockUserRepository)
	repo.On("FindActiveByRole", mock.Anything, tenantID, identity.RoleClient).Return([]identity.User{*client}, nil)
	svc := NewUserService(repo, access.NewGuard(nil), zap.NewNop())

	list, err := svc.ListClients(ctx, principal(tenantID, identity.RoleManager))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, client.ID, list[0].ID)

	_, err = svc.ListClients(ctx, principal(tenantID, identity.RoleWarehouse))
	assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
}
