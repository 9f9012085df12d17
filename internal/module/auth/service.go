package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/domain"
)

// adminRole is the only role tokens are issued with.
const adminRole = "admin"

// authService implements domain.AuthService.
type authService struct {
	jwtSvc      jwt.Service
	repo        domain.AccountRepository
	tokenExpiry time.Duration
}

// NewService creates an AuthService that issues and checks tokens with jwtSvc.
func NewService(jwtSvc jwt.Service, repo domain.AccountRepository, tokenExpiry time.Duration) domain.AuthService {
	return &authService{jwtSvc: jwtSvc, repo: repo, tokenExpiry: tokenExpiry}
}

// Login checks the password of the account with the given email and issues
// a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	account, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Unknown accounts look the same as wrong passwords.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "admin login failed", slog.String("email", account.Email))
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwtSvc.GenerateToken(account.ID, []string{adminRole}, s.tokenExpiry)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}
	parsed, err := s.jwtSvc.ParseToken(token)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to parse generated token", err)
	}

	slog.InfoContext(ctx, "admin logged in", slog.String("email", account.Email))
	return &domain.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   parsed.ExpiresAt.Unix(),
	}, nil
}

// Verify validates a token issued by Login and resolves the account behind
// it. Revoked tokens and tokens of accounts that no longer exist are
// rejected.
func (s *authService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	parsed, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
	}
	if s.jwtSvc.IsTokenRevoked(token) {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "token revoked", nil)
	}
	if parsed.UserID == "" {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid token", errors.New("missing subject"))
	}
	account, err := s.repo.GetByID(ctx, parsed.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewAppError(domain.CodeUnauthorized, "unknown account", err)
		}
		return nil, err
	}
	return &domain.Claims{AccountID: account.ID, Email: account.Email}, nil
}

// Logout revokes token so Verify rejects it from now on.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.jwtSvc.RevokeToken(token); err != nil {
		return domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
	}
	slog.InfoContext(ctx, "admin logged out")
	return nil
}

// Bootstrap upserts the configured administrator. Without an admin email
// nobody can log in, which is logged as a warning.
func Bootstrap(ctx context.Context, repo domain.AccountRepository, admin config.AdminConfig) error {
	if admin.Email == "" {
		slog.WarnContext(ctx, "no admin account configured, the admin API is unreachable")
		return nil
	}
	if _, err := bcrypt.Cost([]byte(admin.PasswordHash)); err != nil {
		return fmt.Errorf("auth.admin.password_hash is not a bcrypt hash: %w", err)
	}
	account := &domain.Account{
		Name:         admin.Name,
		Email:        strings.ToLower(strings.TrimSpace(admin.Email)),
		PasswordHash: admin.PasswordHash,
	}
	if err := repo.Upsert(ctx, account); err != nil {
		return fmt.Errorf("bootstrap admin account: %w", err)
	}
	slog.InfoContext(ctx, "admin account ready", slog.String("email", account.Email))
	return nil
}
