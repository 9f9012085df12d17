package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/middleware"
	"github.com/simp-lee/folio/internal/pkg"
	"github.com/simp-lee/folio/web"
)

const (
	apiPrefix   = "/api/v1"
	adminPrefix = apiPrefix + "/admin"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules    []Module
	DB         *gorm.DB
	Mode       string // "debug" or "release"
	CSRFSecret string
	Site       config.SiteConfig
	// Verifier guards the admin group.
	Verifier middleware.TokenVerifier
	// Limiter throttles anonymous writes; nil disables rate limiting.
	Limiter *middleware.RateLimiter
}

func (d *RouteDeps) validate() error {
	switch {
	case len(d.Modules) == 0:
		return errors.New("at least one module is required")
	case strings.TrimSpace(d.CSRFSecret) == "":
		return errors.New("csrf secret is required")
	case d.Verifier == nil:
		return errors.New("admin token verifier is required")
	}
	for i, m := range d.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
	}
	return nil
}

// RegisterRoutes builds the three route groups every module registers on:
//
//	/api/v1        public JSON API, anonymous writes rate limited
//	/api/v1/admin  admin JSON API, bearer token required
//	/              server-rendered pages, CSRF protected and rate limited
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if err := deps.validate(); err != nil {
		return err
	}

	static, err := staticFiles(deps.Mode)
	if err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}
	r.GET("/static/*filepath", static)
	r.GET("/health", healthHandler(deps.DB))

	api := r.Group(apiPrefix)
	// Groups made from the engine do not share middleware, so the limiter
	// never sees admin requests.
	admin := r.Group(adminPrefix, middleware.RequireAdmin(deps.Verifier))
	pages := r.Group("/", middleware.CSRF(deps.CSRFSecret))
	if deps.Limiter != nil {
		api.Use(deps.Limiter.Middleware())
		pages.Use(deps.Limiter.Middleware())
	}

	for _, m := range deps.Modules {
		m.RegisterRoutes(api, admin, pages)
	}

	r.NoRoute(noRouteHandler(deps.Site))
	return nil
}

// healthHandler reports whether the database answers a ping within a second.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		database, status, code := "ok", "ok", http.StatusOK
		if err := pingDB(c.Request.Context(), db); err != nil {
			database, status, code = "error", "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"components": gin.H{"database": database},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("no database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// noRouteHandler answers unknown API paths with JSON and everything else
// through renderError.
func noRouteHandler(site config.SiteConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}
		renderError(c, http.StatusNotFound, "not found", site)
	}
}

// staticFiles serves web/static from disk in debug mode, so edits show up
// without a rebuild, and from the embedded copy with a one day cache
// otherwise.
func staticFiles(mode string) (gin.HandlerFunc, error) {
	if mode == "debug" {
		dir, err := sourceStaticDir()
		if err != nil {
			return nil, err
		}
		return fileServer(http.Dir(dir), ""), nil
	}

	sub, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded static files: %w", err)
	}
	return fileServer(http.FS(sub), "public, max-age=86400"), nil
}

func fileServer(fsys http.FileSystem, cacheControl string) gin.HandlerFunc {
	h := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// sourceStaticDir locates web/static relative to this source file.
func sourceStaticDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("resolve source path")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "web", "static")
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("stat static directory %q: %w", dir, err)
	}
	return filepath.Clean(dir), nil
}
