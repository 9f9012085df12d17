// Package auth logs the administrator in and verifies admin bearer tokens.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/middleware"
	"github.com/simp-lee/folio/internal/pkg"
)

// LoginRequest is the admin login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,max=72"`
}

// Module wires the account repository, the token service and the login route.
type Module struct {
	repo   domain.AccountRepository
	jwtSvc jwt.Service
	svc    domain.AuthService
}

// NewModule creates the auth module from cfg. Close releases the token
// service.
func NewModule(db *gorm.DB, cfg config.AuthConfig) (*Module, error) {
	expiry, err := time.ParseDuration(cfg.TokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse auth.token_expiry: %w", err)
	}
	jwtSvc, err := jwt.New(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}
	repo := NewRepository(db)
	return &Module{
		repo:   repo,
		jwtSvc: jwtSvc,
		svc:    NewService(jwtSvc, repo, expiry),
	}, nil
}

// Close stops the token service.
func (m *Module) Close() {
	m.jwtSvc.Close()
}

// Service returns the auth service. It is also the admin token verifier.
func (m *Module) Service() domain.AuthService {
	return m.svc
}

// Bootstrap upserts the configured administrator account.
func (m *Module) Bootstrap(ctx context.Context, admin config.AdminConfig) error {
	return Bootstrap(ctx, m.repo, admin)
}

// Models lists the entities this module persists, for migrations.
func Models() []any {
	return []any{&domain.Account{}}
}

// RegisterRoutes registers POST /auth/login, GET /admin/me and
// POST /admin/logout.
func (m *Module) RegisterRoutes(api, admin, _ *gin.RouterGroup) {
	api.POST("/auth/login", m.login)
	admin.GET("/me", m.me)
	admin.POST("/logout", m.logout)
}

func (m *Module) login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	token, err := m.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, token)
}

func (m *Module) me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}
	pkg.Success(c, gin.H{"id": claims.AccountID, "email": claims.Email})
}

func (m *Module) logout(c *gin.Context) {
	_, token, _ := strings.Cut(c.GetHeader("Authorization"), " ")
	if err := m.svc.Logout(c.Request.Context(), strings.TrimSpace(token)); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
