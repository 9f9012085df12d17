package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/middleware"
	"github.com/simp-lee/folio/internal/module/auth"
	"github.com/simp-lee/folio/internal/module/blog"
	"github.com/simp-lee/folio/internal/module/contact"
	"github.com/simp-lee/folio/internal/module/portfolio"
	"github.com/simp-lee/folio/internal/module/site"
	"github.com/simp-lee/folio/internal/module/upload"
	"github.com/simp-lee/folio/internal/notify"
	"github.com/simp-lee/folio/internal/pkg"
	"github.com/simp-lee/folio/web"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config
	// closeModules stops background work owned by modules.
	closeModules func()
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New builds the folio server from cfg: logging, database, storage, mail,
// the admin account, every module, middleware, page rendering and routes.
// Anything opened before a failing step is closed again.
func New(cfg *config.Config) (_ *App, err error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	var cleanup []func()
	defer func() {
		if err != nil {
			for i := len(cleanup) - 1; i >= 0; i-- {
				cleanup[i]()
			}
		}
	}()

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	cleanup = append(cleanup, func() {
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	})
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("debug mode is listening on all interfaces")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	cleanup = append(cleanup, func() { closeDB(db, log.Logger) })

	if cfg.Server.Mode == gin.DebugMode || cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}
	if err := pkg.RegisterBindingValidations(); err != nil {
		return nil, fmt.Errorf("register validations: %w", err)
	}

	deps, closeModules, err := buildModules(context.Background(), cfg, db)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, closeModules)
	if deps.CSRFSecret, err = resolveCSRFSecret(cfg.Server.Mode, cfg.Server.CSRFSecret, log.Logger); err != nil {
		return nil, err
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		deps.Limiter = middleware.NewRateLimiter(rl.RPS, rl.Burst)
	}

	engine, err := newEngine(cfg, log.Logger)
	if err != nil {
		return nil, err
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	return &App{engine: engine, db: db, logger: log, cfg: cfg, closeModules: closeModules}, nil
}

// buildModules wires repository, service and handler of every module by hand.
// The returned deps still lack the CSRF secret and the limiter. The returned
// func stops what the modules started.
func buildModules(ctx context.Context, cfg *config.Config, db *gorm.DB) (*RouteDeps, func(), error) {
	store, err := upload.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("setup storage: %w", err)
	}
	authModule, err := auth.NewModule(db, cfg.Auth)
	if err != nil {
		return nil, nil, fmt.Errorf("setup auth: %w", err)
	}
	if err := authModule.Bootstrap(ctx, cfg.Auth.Admin); err != nil {
		authModule.Close()
		return nil, nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	portfolioModule := portfolio.NewModule(db)
	blogModule := blog.NewModule(db)
	contactModule := contact.NewModule(db, notify.New(cfg.Mail, cfg.Site))
	siteModule := site.NewModule(site.Deps{
		Site:         cfg.Site,
		Projects:     portfolioModule.Projects.Service(),
		Education:    portfolioModule.Education.Service(),
		Experience:   portfolioModule.Experience.Service(),
		Skills:       portfolioModule.Skills.Service(),
		Gallery:      portfolioModule.Gallery.Service(),
		Testimonials: portfolioModule.Testimonials.Service(),
		Feedback:     portfolioModule.Feedback.Service(),
		Blog:         blogModule.Service(),
		Contact:      contactModule.Service(),
	})

	return &RouteDeps{
		Modules: []Module{
			authModule,
			portfolioModule,
			blogModule,
			contactModule,
			upload.NewModule(store, cfg.Storage),
			siteModule,
		},
		DB:       db,
		Mode:     cfg.Server.Mode,
		Site:     cfg.Site,
		Verifier: authModule.Service(),
	}, authModule.Close, nil
}

// newEngine creates the gin engine with the middleware chain and the page
// renderer. Pages are read from disk in debug mode and from the binary
// otherwise.
func newEngine(cfg *config.Config, log *slog.Logger) (*gin.Engine, error) {
	var timeout time.Duration
	if cfg.Server.Timeout != "" {
		var err error
		if timeout, err = time.ParseDuration(cfg.Server.Timeout); err != nil {
			return nil, fmt.Errorf("parse server.timeout: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log, "/static/", "/health"),
		middleware.CORS(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
		middleware.Timeout(timeout),
	)

	debug := cfg.Server.Mode == gin.DebugMode
	var fsys fs.FS = web.EmbeddedFS
	if debug {
		var err error
		if fsys, err = resolveDebugWebFS(); err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	}
	renderer, err := NewTemplateRenderer(fsys, debug)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer
	return engine, nil
}

// resolveCSRFSecret returns the configured secret. Outside release mode a
// missing or placeholder secret is replaced by a random one, so form tokens do
// not survive a restart.
func resolveCSRFSecret(mode, secret string, log *slog.Logger) (string, error) {
	if !isPlaceholderCSRFSecret(secret) {
		return secret, nil
	}
	if mode == gin.ReleaseMode {
		return "", errors.New("csrf_secret must be a non-placeholder value in release mode")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	log.Warn("no csrf_secret configured, using a random one until restart")
	return hex.EncodeToString(b), nil
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

// Models lists every persisted entity, for migrations.
func Models() []any {
	var models []any
	for _, m := range [][]any{auth.Models(), portfolio.Models(), blog.Models(), contact.Models()} {
		models = append(models, m...)
	}
	return models
}

// Migrate runs the schema migrations against db.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func isPlaceholderCSRFSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return true
	}

	switch strings.ToLower(trimmed) {
	case "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

func resolveCORSConfig(mode string, configured config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(configured.AllowMethods) > 0 {
		corsConfig.AllowMethods = configured.AllowMethods
	}
	if len(configured.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = configured.AllowHeaders
	}
	corsConfig.AllowCredentials = configured.AllowCredentials
	if d, err := time.ParseDuration(configured.MaxAge); err == nil && d > 0 {
		corsConfig.MaxAge = strconv.Itoa(int(d.Seconds()))
	}

	if len(configured.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = configured.AllowOrigins
		return corsConfig
	}

	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts the server down
// within five seconds and closes the database and the logger.
func (a *App) Run() error {
	switch {
	case a == nil:
		return errors.New("app is nil")
	case a.cfg == nil:
		return errors.New("app config is nil")
	case a.engine == nil:
		return errors.New("app engine is nil")
	}
	log := a.log()

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("site", a.cfg.Site.Title))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if a.closeModules != nil {
		a.closeModules()
	}
	if a.db != nil {
		closeDB(a.db, log)
	}
	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
	return runErr
}

func (a *App) log() *slog.Logger {
	if a.logger != nil && a.logger.Logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}
