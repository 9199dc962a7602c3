// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/skillboard/blob"
	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/catalog/memstore"
	"github.com/stacklok/skillboard/config"
	"github.com/stacklok/skillboard/env/mocks"
	"github.com/stacklok/skillboard/policy"
)

const memoryConfig = `
auth:
  secret: s3cret
  password: hunter2
storage:
  backend: memory
catalog:
  store: memory
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skillboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command with an empty mocked environment.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().Getenv(gomock.Any()).Return("").AnyTimes()

	var out bytes.Buffer
	cmd := newRootCmdWith(&globalOptions{env: reader, logOut: io.Discard})
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCategoryAdd(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, memoryConfig)

	out, err := run(t, "--config", path, "category", "add", "  Languages ")
	require.NoError(t, err)
	assert.Contains(t, out, `created category "Languages"`)

	_, err = run(t, "--config", path, "category", "add", "   ")
	require.ErrorIs(t, err, catalog.ErrValidation)

	_, err = run(t, "--config", path, "category", "add")
	require.Error(t, err, "name argument is required")
}

func TestCategoryList(t *testing.T) {
	t.Parallel()

	out, err := run(t, "--config", writeConfig(t, memoryConfig), "category", "list")
	require.NoError(t, err)
	assert.Equal(t, "ID  NAME\n", out)
}

func TestPrintCategories(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printCategories(&buf, []catalog.CategoryRef{
		{ID: "1", Name: "Languages"},
		{ID: "22", Name: "Tools"},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1   Languages", lines[1])
	assert.Equal(t, "22  Tools", lines[2])
}

func TestIndexes_RequiresMongo(t *testing.T) {
	t.Parallel()

	_, err := run(t, "--config", writeConfig(t, memoryConfig), "indexes")
	require.ErrorContains(t, err, "mongo catalog store")
}

func TestRootFlags(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, memoryConfig)

	t.Run("bad log level", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "--config", path, "--log-level", "loud", "category", "list")
		require.ErrorContains(t, err, "logging.level")
	})

	t.Run("valid overrides", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "--config", path, "--log-level", "debug", "--log-format", "text", "category", "list")
		require.NoError(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "--config", writeConfig(t, "storage:\n  backend: memory\n"), "category", "list")
		require.ErrorContains(t, err, "auth.secret is required")
	})
}

func memoryCfg(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Auth.Secret = "s3cret"
	cfg.Auth.Password = "hunter2"
	cfg.Storage.Backend = config.BackendMemory
	cfg.Catalog.Store = config.StoreMemory
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	cfg := memoryCfg(t)
	logger := slog.New(slog.DiscardHandler)
	icons, err := openBlobs(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, "skill_icons", icons.Prefix())

	srv, err := newServer(cfg, memstore.New(), icons, logger)
	require.NoError(t, err)
	require.NotNil(t, srv.Icons, "memory backend serves icons itself")

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/skill-categories", strings.NewReader(`{"name":"Languages"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(cfg.Auth.HeaderName, cfg.Auth.Secret)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/skill-categories")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewServer_BadRule(t *testing.T) {
	t.Parallel()

	cfg := memoryCfg(t)
	cfg.Catalog.Rule = "name +"
	_, err := newServer(cfg, memstore.New(), blob.NewMemory(), nil)
	require.ErrorIs(t, err, policy.ErrCompile)

	_, err = newServer(memoryCfg(t), nil, nil, nil)
	require.Error(t, err)
}

func TestOpenBlobs_Local(t *testing.T) {
	t.Parallel()

	cfg := memoryCfg(t)
	cfg.Storage.Backend = config.BackendLocal
	cfg.Storage.LocalRoot = t.TempDir()

	icons, err := openBlobs(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, icons.Put(ctx, "go-light.svg", []byte("<svg/>"), "image/svg+xml"))
	obj, err := icons.Get(ctx, "go-light.svg")
	require.NoError(t, err)
	assert.Equal(t, []byte("<svg/>"), obj.Data)
	assert.FileExists(t, filepath.Join(cfg.Storage.LocalRoot, "index.json"))
}

func TestOpenCatalog_Memory(t *testing.T) {
	t.Parallel()

	h, err := openCatalog(context.Background(), memoryCfg(t), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Nil(t, h.mongo)
	require.NoError(t, h.close(context.Background()))
}

func TestRunServer(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		done <- runServer(ctx, ln, handler, time.Second, slog.New(slog.DiscardHandler))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
