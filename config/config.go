// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/skillboard/env"
	"github.com/stacklok/skillboard/logging"
	"github.com/stacklok/skillboard/policy"
	"github.com/stacklok/skillboard/query"
	httpval "github.com/stacklok/skillboard/validation/http"
)

const (
	// PathEnv names the variable holding the YAML config path.
	PathEnv = "SKILLBOARD_CONFIG"
	// EnvFileEnv names the variable holding a dotenv file path.
	EnvFileEnv = "SKILLBOARD_ENV_FILE"

	// EnvPrefix prefixes every group's variables, e.g. SKILLBOARD_AUTH_SECRET.
	EnvPrefix = "SKILLBOARD"
)

// Storage backends.
const (
	BackendMinio  = "minio"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// Catalog stores.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// LocalIconsBase is the icon URL base when icons are served by the app itself.
const LocalIconsBase = "/icons"

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" split_words:"true"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true"`
}

// AuthConfig configures the API secret and the admin login.
type AuthConfig struct {
	Secret       string        `yaml:"secret" split_words:"true"`
	HeaderName   string        `yaml:"headerName" split_words:"true"`
	Password     string        `yaml:"password" split_words:"true"`
	SecureCookie bool          `yaml:"secureCookie" split_words:"true"`
	SessionTTL   time.Duration `yaml:"sessionTTL" split_words:"true"`
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI      string        `yaml:"uri" split_words:"true"`
	Database string        `yaml:"database" split_words:"true"`
	Timeout  time.Duration `yaml:"timeout" split_words:"true"`
}

// StorageConfig configures where icons are kept.
type StorageConfig struct {
	Backend   string `yaml:"backend" split_words:"true"`
	Endpoint  string `yaml:"endpoint" split_words:"true"`
	AccessKey string `yaml:"accessKey" split_words:"true"`
	SecretKey string `yaml:"secretKey" split_words:"true"`
	Bucket    string `yaml:"bucket" split_words:"true"`
	Region    string `yaml:"region" split_words:"true"`
	UseSSL    bool   `yaml:"useSSL" split_words:"true"`
	Prefix    string `yaml:"prefix" split_words:"true"`
	// PublicURL is the browser-facing object store origin. Defaults to the
	// endpoint with a scheme matching UseSSL.
	PublicURL string `yaml:"publicURL" split_words:"true"`
	// LocalRoot is the image layout directory for the local backend.
	LocalRoot string `yaml:"localRoot" split_words:"true"`
}

// CatalogConfig configures the catalog store and write policy.
type CatalogConfig struct {
	Store           string `yaml:"store" split_words:"true"`
	RequireIcons    bool   `yaml:"requireIcons" split_words:"true"`
	RequireCategory bool   `yaml:"requireCategory" split_words:"true"`
	// Rule is an optional CEL expression every skill write must satisfy.
	Rule string `yaml:"rule" split_words:"true"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// DefaultConfig returns the configuration used before any file or variable
// is applied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			MaxUploadBytes:  5 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			HeaderName: "X-Secret-Code",
			SessionTTL: 24 * time.Hour,
		},
		Mongo: MongoConfig{
			Database: "skillboard",
			Timeout:  10 * time.Second,
		},
		Storage: StorageConfig{
			Backend: BackendMinio,
			Bucket:  "skillboard",
			Prefix:  "skill_icons",
		},
		Catalog: CatalogConfig{
			Store:           StoreMongo,
			RequireIcons:    true,
			RequireCategory: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. Later sources override earlier ones:
// defaults, the YAML file at path (or $SKILLBOARD_CONFIG), the legacy
// variable names, then SKILLBOARD_<GROUP>_<FIELD> variables. A dotenv file
// named by $SKILLBOARD_ENV_FILE is loaded first without overriding the
// process environment. The result is validated.
func Load(path string, r env.Reader) (*Config, error) {
	if r == nil {
		r = &env.OSReader{}
	}
	cfg := DefaultConfig()

	if envFile := strings.TrimSpace(r.Getenv(EnvFileEnv)); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	if path == "" {
		path = strings.TrimSpace(r.Getenv(PathEnv))
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyLegacyEnv(cfg, r)

	groups := []struct {
		prefix string
		target any
	}{
		{EnvPrefix + "_SERVER", &cfg.Server},
		{EnvPrefix + "_AUTH", &cfg.Auth},
		{EnvPrefix + "_MONGO", &cfg.Mongo},
		{EnvPrefix + "_STORAGE", &cfg.Storage},
		{EnvPrefix + "_CATALOG", &cfg.Catalog},
		{EnvPrefix + "_LOGGING", &cfg.Logging},
	}
	for _, g := range groups {
		if err := envconfig.Process(g.prefix, g.target); err != nil {
			return nil, fmt.Errorf("reading %s_* variables: %w", g.prefix, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyLegacyEnv maps the variable names used by existing deployments.
func applyLegacyEnv(cfg *Config, r env.Reader) {
	set := func(dst *string, keys ...string) {
		if v := env.FirstNonEmpty(r, keys...); v != "" {
			*dst = v
		}
	}
	set(&cfg.Mongo.URI, "MONGODB_URI")
	set(&cfg.Storage.Endpoint, "MINIO_ENDPOINT")
	set(&cfg.Storage.AccessKey, "MINIO_ACCESS_KEY")
	set(&cfg.Storage.SecretKey, "MINIO_SECRET_KEY")
	set(&cfg.Storage.Bucket, "MINIO_BUCKET")
	set(&cfg.Auth.Password, "PASSWORD")
	set(&cfg.Auth.Secret, "API_SECRET_KEY", "NEXT_PUBLIC_API_SECRET_KEY")

	if strings.EqualFold(strings.TrimSpace(r.Getenv("NODE_ENV")), "production") {
		cfg.Auth.SecureCookie = true
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.maxUploadBytes must be positive"))
	}

	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	} else if err := httpval.ValidateHeaderValue(c.Auth.Secret); err != nil {
		errs = append(errs, fmt.Errorf("auth.secret: %w", err))
	}
	if err := httpval.ValidateHeaderName(c.Auth.HeaderName); err != nil {
		errs = append(errs, fmt.Errorf("auth.headerName: %w", err))
	}
	if c.Auth.Password == "" {
		errs = append(errs, errors.New("auth.password is required"))
	}

	switch c.Catalog.Store {
	case StoreMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("mongo.uri is required for the mongo catalog store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("catalog.store %q must be %s or %s", c.Catalog.Store, StoreMongo, StoreMemory))
	}
	if err := policy.Check(c.Catalog.Rule); err != nil {
		errs = append(errs, fmt.Errorf("catalog.rule: %w", err))
	}

	switch c.Storage.Backend {
	case BackendMinio:
		if c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("storage.endpoint is required for the minio backend"))
		}
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the minio backend"))
		}
		if c.Storage.PublicURL != "" && !strings.HasPrefix(c.Storage.PublicURL, "/") {
			if err := httpval.ValidateBaseURL(c.Storage.PublicURL); err != nil {
				errs = append(errs, fmt.Errorf("storage.publicURL: %w", err))
			}
		}
	case BackendLocal, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q must be %s, %s or %s",
			c.Storage.Backend, BackendMinio, BackendLocal, BackendMemory))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		errs = append(errs, fmt.Errorf("logging.format: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ServesIcons reports whether the app serves icons itself rather than
// pointing browsers at the object store.
func (c *Config) ServesIcons() bool {
	return c.Storage.Backend != BackendMinio
}

// IconBase returns the URL prefix placed before stored icon keys in search
// results.
func (c *Config) IconBase() string {
	if c.ServesIcons() {
		return LocalIconsBase
	}
	public := c.Storage.PublicURL
	if public == "" {
		scheme := "http://"
		if c.Storage.UseSSL {
			scheme = "https://"
		}
		public = scheme + c.Storage.Endpoint
	}
	return query.IconBase(public, c.Storage.Bucket, c.Storage.Prefix)
}

// LoggerOptions converts the logging group into logging options.
// Call after Validate.
func (c *Config) LoggerOptions() []logging.Option {
	level, _ := logging.ParseLevel(c.Logging.Level)
	format, _ := logging.ParseFormat(c.Logging.Format)
	return []logging.Option{logging.WithLevel(level), logging.WithFormat(format)}
}
