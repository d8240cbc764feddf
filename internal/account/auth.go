// Package account implements registration, sessions, preferences and
// favorites on top of the relational stores.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"sortir/internal/domain"
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token string
	User  *domain.User
	Claims
}

type AuthService struct {
	users     UserRepository
	blacklist TokenBlacklist
	hasher    PasswordHasher
	signer    TokenSigner
	logger    *slog.Logger
}

func NewAuthService(users UserRepository, blacklist TokenBlacklist, hasher PasswordHasher, signer TokenSigner, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		hasher:    hasher,
		signer:    signer,
		logger:    logger.With("component", "auth"),
	}
}

// Register creates a user with the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrConflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown e-mail
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFoundRecord) {
			return nil, domain.ErrUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	token, exp, err := s.signer.Sign(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:  token,
		User:   user,
		Claims: Claims{UserID: user.ID, Role: user.Role, ExpiresAt: exp},
	}, nil
}

// Logout revokes token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return err
	}
	if err := s.blacklist.Add(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate verifies token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Claims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return Claims{}, err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return Claims{}, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return Claims{}, domain.ErrUnauthorized("token revoked")
	}
	return claims, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFoundRecord) {
			return nil, domain.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
