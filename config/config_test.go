// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/skillboard/env"
	"github.com/stacklok/skillboard/env/mocks"
)

func mockEnv(t *testing.T, vars map[string]string) env.Reader {
	t.Helper()
	ctrl := gomock.NewController(t)
	r := mocks.NewMockReader(ctrl)
	r.EXPECT().Getenv(gomock.Any()).DoAndReturn(func(key string) string {
		return vars[key]
	}).AnyTimes()
	return r
}

func requiredVars() map[string]string {
	return map[string]string{
		"MONGODB_URI":                "mongodb://localhost:27017",
		"MINIO_ENDPOINT":             "localhost:9000",
		"PASSWORD":                   "hunter2",
		"NEXT_PUBLIC_API_SECRET_KEY": "s3cret",
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Parallel()

	vars := requiredVars()
	vars["MINIO_ACCESS_KEY"] = "minio"
	vars["MINIO_SECRET_KEY"] = "minio123"
	vars["MINIO_BUCKET"] = "skills"
	vars["NODE_ENV"] = "production"

	cfg, err := Load("", mockEnv(t, vars))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "minio", cfg.Storage.AccessKey)
	assert.Equal(t, "minio123", cfg.Storage.SecretKey)
	assert.Equal(t, "skills", cfg.Storage.Bucket)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.True(t, cfg.Auth.SecureCookie)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "X-Secret-Code", cfg.Auth.HeaderName)
	assert.Equal(t, "skill_icons", cfg.Storage.Prefix)
	assert.True(t, cfg.Catalog.RequireIcons)
	assert.True(t, cfg.Catalog.RequireCategory)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "skillboard.yaml", `
server:
  addr: ":8080"
auth:
  secret: from-file
  password: pw
  sessionTTL: 1h
storage:
  backend: local
  localRoot: /var/lib/skillboard
catalog:
  store: memory
  requireIcons: false
  rule: "size(name) <= 40"
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path, mockEnv(t, map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/skillboard", cfg.Storage.LocalRoot)
	assert.Equal(t, StoreMemory, cfg.Catalog.Store)
	assert.False(t, cfg.Catalog.RequireIcons)
	assert.True(t, cfg.Catalog.RequireCategory, "unset keys keep their defaults")
	assert.Equal(t, "size(name) <= 40", cfg.Catalog.Rule)
	assert.Len(t, cfg.LoggerOptions(), 2)
}

func TestLoad_FileFromEnv(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "c.yaml", "auth:\n  secret: a\n  password: b\nstorage:\n  backend: memory\ncatalog:\n  store: memory\n")

	cfg, err := Load("", mockEnv(t, map[string]string{PathEnv: path}))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_LegacyEnvOverridesFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "c.yaml", "mongo:\n  uri: mongodb://file:27017\n")

	cfg, err := Load(path, mockEnv(t, requiredVars()))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), mockEnv(t, requiredVars()))
		require.ErrorContains(t, err, "reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "bad.yaml", "server: [unterminated")
		_, err := Load(path, mockEnv(t, requiredVars()))
		require.ErrorContains(t, err, "parsing config file")
	})

	t.Run("missing secrets", func(t *testing.T) {
		t.Parallel()
		_, err := Load("", mockEnv(t, map[string]string{
			"MONGODB_URI":    "mongodb://localhost:27017",
			"MINIO_ENDPOINT": "localhost:9000",
		}))
		require.ErrorContains(t, err, "auth.secret is required")
		require.ErrorContains(t, err, "auth.password is required")
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()
		vars := requiredVars()
		vars[EnvFileEnv] = filepath.Join(t.TempDir(), "absent.env")
		_, err := Load("", mockEnv(t, vars))
		require.ErrorContains(t, err, "loading env file")
	})
}

//nolint:paralleltest // Modifies environment variables
func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("SKILLBOARD_SERVER_ADDR", ":9000")
	t.Setenv("SKILLBOARD_AUTH_SESSION_TTL", "2h")
	t.Setenv("SKILLBOARD_MONGO_URI", "mongodb://prefixed:27017")
	t.Setenv("SKILLBOARD_STORAGE_USE_SSL", "true")
	t.Setenv("SKILLBOARD_CATALOG_REQUIRE_ICONS", "false")
	t.Setenv("SKILLBOARD_LOGGING_LEVEL", "warn")

	cfg, err := Load("", mockEnv(t, requiredVars()))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "mongodb://prefixed:27017", cfg.Mongo.URI, "prefixed variables beat legacy names")
	assert.True(t, cfg.Storage.UseSSL)
	assert.False(t, cfg.Catalog.RequireIcons)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

//nolint:paralleltest // Modifies environment variables
func TestLoad_PrefixedEnvInvalid(t *testing.T) {
	t.Setenv("SKILLBOARD_SERVER_MAX_UPLOAD_BYTES", "lots")

	_, err := Load("", mockEnv(t, requiredVars()))
	require.ErrorContains(t, err, "SKILLBOARD_SERVER")
}

//nolint:paralleltest // Modifies environment variables
func TestLoad_EnvFile(t *testing.T) {
	const key = "SKILLBOARD_STORAGE_PREFIX"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	vars := requiredVars()
	vars[EnvFileEnv] = writeFile(t, ".env", key+"=from_dotenv\n")

	cfg, err := Load("", mockEnv(t, vars))
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Storage.Prefix)
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Auth.Secret = "s3cret"
	cfg.Auth.Password = "pw"
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Storage.Endpoint = "localhost:9000"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad header name", func(c *Config) { c.Auth.HeaderName = "X Secret" }, "auth.headerName"},
		{"secret with newline", func(c *Config) { c.Auth.Secret = "a\nb" }, "auth.secret"},
		{"unknown store", func(c *Config) { c.Catalog.Store = "postgres" }, "catalog.store"},
		{"mongo without uri", func(c *Config) { c.Mongo.URI = "" }, "mongo.uri is required"},
		{"memory store needs no uri", func(c *Config) {
			c.Catalog.Store = StoreMemory
			c.Mongo.URI = ""
		}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"minio without endpoint", func(c *Config) { c.Storage.Endpoint = "" }, "storage.endpoint is required"},
		{"minio without bucket", func(c *Config) { c.Storage.Bucket = "" }, "storage.bucket is required"},
		{"local needs no endpoint", func(c *Config) {
			c.Storage.Backend = BackendLocal
			c.Storage.Endpoint = ""
		}, ""},
		{"bad public url", func(c *Config) { c.Storage.PublicURL = "ftp://cdn" }, "storage.publicURL"},
		{"relative public url", func(c *Config) { c.Storage.PublicURL = "/objects" }, ""},
		{"rule does not parse", func(c *Config) { c.Catalog.Rule = "name +" }, "catalog.rule"},
		{"rule is not boolean", func(c *Config) { c.Catalog.Rule = "size(name)" }, "catalog.rule"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "server.maxUploadBytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIconBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"minio over http", func(*Config) {}, "http://localhost:9000/skillboard/skill_icons"},
		{"minio over https", func(c *Config) { c.Storage.UseSSL = true }, "https://localhost:9000/skillboard/skill_icons"},
		{"public url", func(c *Config) { c.Storage.PublicURL = "https://cdn.example.com/" }, "https://cdn.example.com/skillboard/skill_icons"},
		{"served locally", func(c *Config) { c.Storage.Backend = BackendLocal }, LocalIconsBase},
		{"served from memory", func(c *Config) { c.Storage.Backend = BackendMemory }, LocalIconsBase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Equal(t, tt.want, cfg.IconBase())
		})
	}
}
