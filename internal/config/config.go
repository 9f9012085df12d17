package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Site     SiteConfig     `koanf:"site"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Storage  StorageConfig  `koanf:"storage"`
	Mail     MailConfig     `koanf:"mail"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string          `koanf:"host"`
	Port       int             `koanf:"port"`
	Mode       string          `koanf:"mode"`
	CSRFSecret string          `koanf:"csrf_secret"`
	Timeout    string          `koanf:"timeout"`
	CORS       CORSConfig      `koanf:"cors"`
	RateLimit  RateLimitConfig `koanf:"rate_limit"`
}

// SiteConfig describes the public site. BaseURL is used to build absolute
// links for sharing and mail notifications.
type SiteConfig struct {
	Title   string `koanf:"title"`
	Author  string `koanf:"author"`
	BaseURL string `koanf:"base_url"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig limits anonymous writes (comments, likes, contact, feedback,
// login) per client IP.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// AutoMigrate creates and updates tables on startup. Debug mode always
	// migrates.
	AutoMigrate bool           `koanf:"auto_migrate"`
	Driver      string         `koanf:"driver"`
	SQLite      SQLiteConfig   `koanf:"sqlite"`
	Postgres    PostgresConfig `koanf:"postgres"`
	Pool        PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds admin authentication settings. The admin API is always
// protected; Admin seeds the single administrator account on startup.
type AuthConfig struct {
	JWTSecret   string      `koanf:"jwt_secret"`
	TokenExpiry string      `koanf:"token_expiry"`
	Admin       AdminConfig `koanf:"admin"`
}

// AdminConfig is the bootstrap administrator. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Name         string `koanf:"name"`
	Email        string `koanf:"email"`
	PasswordHash string `koanf:"password_hash"`
}

// StorageConfig selects where uploaded files are written.
type StorageConfig struct {
	Driver      string             `koanf:"driver"`
	MaxUploadMB int                `koanf:"max_upload_mb"`
	Local       LocalStorageConfig `koanf:"local"`
	S3          S3Config           `koanf:"s3"`
}

// LocalStorageConfig stores uploads on disk and serves them under URLPrefix.
// Images wider than ResizeWidth are scaled down.
type LocalStorageConfig struct {
	Dir         string `koanf:"dir"`
	URLPrefix   string `koanf:"url_prefix"`
	ResizeWidth uint   `koanf:"resize_width"`
	JPEGQuality int    `koanf:"jpeg_quality"`
}

// S3Config holds settings for S3-compatible object storage.
type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	PublicBaseURL   string `koanf:"public_base_url"`
	UsePathStyle    bool   `koanf:"use_path_style"`
	Prefix          string `koanf:"prefix"`
}

// MailConfig holds SMTP settings for contact notifications.
type MailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	To       string `koanf:"to"`
	TLS      string `koanf:"tls"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__STORAGE__S3__SECRET_ACCESS_KEY overrides storage.s3.secret_access_key.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps APP__DATABASE__POOL__MAX_IDLE_CONNS to database.pool.max_idle_conns.
func envKey(s string) string {
	key := strings.TrimPrefix(s, "APP__")
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}

// Validate checks cross-field constraints and supported values, normalizing
// whitespace and filling defaults where a section allows it.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSite,
		c.validateDatabase,
		c.validateAuth,
		c.validateStorage,
		c.validateMail,
		c.validateLog,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	if err := optionalDuration("server.timeout", c.Server.Timeout); err != nil {
		return err
	}
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	if err := optionalDuration("server.cors.max_age", c.Server.CORS.MaxAge); err != nil {
		return err
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", c.Server.RateLimit.RPS)
		}
		if c.Server.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", c.Server.RateLimit.Burst)
		}
	}
	return nil
}

func (c *Config) validateSite() error {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = "Portfolio"
	}
	base := strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if base == "" {
		base = fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid site.base_url %q: must be an absolute http(s) URL", c.Site.BaseURL)
	}
	c.Site.BaseURL = base
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite":
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
	case "postgres":
		if err := c.validatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)
	return optionalDuration("database.pool.conn_max_lifetime", c.Database.Pool.ConnMaxLifetime)
}

func (c *Config) validatePostgres() error {
	pg := &c.Database.Postgres

	pg.Host = strings.TrimSpace(pg.Host)
	if pg.Host == "" {
		return fmt.Errorf("database.postgres.host is required when driver is postgres")
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
	}
	pg.User = strings.TrimSpace(pg.User)
	if pg.User == "" {
		return fmt.Errorf("database.postgres.user is required when driver is postgres")
	}
	pg.DBName = strings.TrimSpace(pg.DBName)
	if pg.DBName == "" {
		return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
	}

	sslMode := strings.TrimSpace(pg.SSLMode)
	switch sslMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
	}
	if c.Server.Mode == gin.ReleaseMode {
		switch sslMode {
		case "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
		}
	}
	pg.SSLMode = sslMode
	return nil
}

func (c *Config) validateAuth() error {
	jwtSecret := strings.TrimSpace(c.Auth.JWTSecret)
	if jwtSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(jwtSecret) < 32 {
		return fmt.Errorf("invalid auth.jwt_secret: must be at least 32 characters")
	}
	if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(jwtSecret) < 3 {
		return fmt.Errorf("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	c.Auth.JWTSecret = jwtSecret

	tokenExpiry := strings.TrimSpace(c.Auth.TokenExpiry)
	if tokenExpiry == "" {
		tokenExpiry = "12h"
	}
	if err := optionalDuration("auth.token_expiry", tokenExpiry); err != nil {
		return err
	}
	c.Auth.TokenExpiry = tokenExpiry

	admin := &c.Auth.Admin
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	admin.PasswordHash = strings.TrimSpace(admin.PasswordHash)
	admin.Name = strings.TrimSpace(admin.Name)
	if (admin.Email == "") != (admin.PasswordHash == "") {
		return fmt.Errorf("auth.admin.email and auth.admin.password_hash must be set together")
	}
	if admin.PasswordHash != "" && !strings.HasPrefix(admin.PasswordHash, "$2") {
		return fmt.Errorf("invalid auth.admin.password_hash: must be a bcrypt hash")
	}
	if admin.Email != "" && admin.Name == "" {
		admin.Name = "Admin"
	}
	return nil
}

func (c *Config) validateStorage() error {
	driver := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if driver == "" {
		driver = "local"
	}
	c.Storage.Driver = driver

	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = 10
	}

	switch driver {
	case "local":
		local := &c.Storage.Local
		local.Dir = strings.TrimSpace(local.Dir)
		if local.Dir == "" {
			return fmt.Errorf("storage.local.dir is required when driver is local")
		}
		local.URLPrefix = "/" + strings.Trim(strings.TrimSpace(local.URLPrefix), "/")
		if local.URLPrefix == "/" {
			local.URLPrefix = "/uploads"
		}
		if local.ResizeWidth == 0 {
			local.ResizeWidth = 1600
		}
		if local.JPEGQuality == 0 {
			local.JPEGQuality = 80
		}
		if local.JPEGQuality < 1 || local.JPEGQuality > 100 {
			return fmt.Errorf("invalid storage.local.jpeg_quality %d: must be between 1 and 100", local.JPEGQuality)
		}
	case "s3":
		s3 := &c.Storage.S3
		s3.Bucket = strings.TrimSpace(s3.Bucket)
		if s3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when driver is s3")
		}
		s3.Region = strings.TrimSpace(s3.Region)
		if s3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when driver is s3")
		}
		if (s3.AccessKeyID == "") != (s3.SecretAccessKey == "") {
			return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key must be set together")
		}
		s3.Endpoint = strings.TrimRight(strings.TrimSpace(s3.Endpoint), "/")
		s3.PublicBaseURL = strings.TrimRight(strings.TrimSpace(s3.PublicBaseURL), "/")
		s3.Prefix = strings.Trim(strings.TrimSpace(s3.Prefix), "/")
	default:
		return fmt.Errorf("invalid storage.driver %q: must be one of %q, %q", c.Storage.Driver, "local", "s3")
	}
	return nil
}

func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	c.Mail.Host = strings.TrimSpace(c.Mail.Host)
	if c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail.port %d: must be between 1 and 65535", c.Mail.Port)
	}
	if strings.TrimSpace(c.Mail.From) == "" || strings.TrimSpace(c.Mail.To) == "" {
		return fmt.Errorf("mail.from and mail.to are required when mail is enabled")
	}
	tls := strings.ToLower(strings.TrimSpace(c.Mail.TLS))
	switch tls {
	case "":
		tls = "mandatory"
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("invalid mail.tls %q: must be one of %q, %q, %q", c.Mail.TLS, "mandatory", "opportunistic", "none")
	}
	c.Mail.TLS = tls
	return nil
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}
	return nil
}

// optionalDuration validates a duration field that may be left empty.
func optionalDuration(name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return nil
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	var lower, upper, digit, symbol int
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = 1
		case unicode.IsUpper(r):
			upper = 1
		case unicode.IsDigit(r):
			digit = 1
		default:
			symbol = 1
		}
	}
	return lower + upper + digit + symbol
}
