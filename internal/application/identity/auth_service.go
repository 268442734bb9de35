package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")
	errAccountInactive    = shared.NewDomainError(shared.CodeUnauthorized, "Account is not active")
	errTokenExpired       = shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has expired")
	errTokenInvalid       = shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token")
	errTokenMaxRefresh    = shared.NewDomainError(shared.CodeUnauthorized, "Maximum token refresh count exceeded. Please log in again")
)

// TokenIssuer issues and validates token pairs
type TokenIssuer interface {
	GenerateTokenPair(p *identity.Principal) (*auth.TokenPair, error)
	ValidateRefreshToken(token string) (*auth.Claims, error)
	RefreshTokenPair(claims *auth.Claims, p *identity.Principal) (*auth.TokenPair, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a user and returns tokens. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	s.logger.Info("Login attempt", zap.String("username", username), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("User not found during login", zap.String("username", username))
		return nil, errInvalidCredentials
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, errInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		return nil, errAccountInactive
	}

	pair, err := s.tokens.GenerateTokenPair(user.Principal())
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{TokenResult: tokenResult(pair), User: NewUserInfo(user)}, nil
}

// RefreshToken issues a new pair from a valid refresh token. Role and
// activity are reloaded so demoted or disabled users lose access.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, errTokenExpired
		case errors.Is(err, auth.ErrMaxRefreshExceeded):
			return nil, errTokenMaxRefresh
		default:
			return nil, errTokenInvalid
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, errTokenInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errTokenInvalid
		}
		return nil, err
	}
	if !user.Active {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, errAccountInactive
	}

	pair, err := s.tokens.RefreshTokenPair(claims, user.Principal())
	if err != nil {
		return nil, err
	}
	result := tokenResult(pair)
	return &result, nil
}

// CurrentUser reloads the authenticated user
func (s *AuthService) CurrentUser(ctx context.Context, p *identity.Principal) (*UserInfo, error) {
	if p == nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(user)
	return &info, nil
}

func tokenResult(pair *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
