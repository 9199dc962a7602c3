// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/skillboard/api"
	"github.com/stacklok/skillboard/blob"
	"github.com/stacklok/skillboard/blob/local"
	"github.com/stacklok/skillboard/blob/minio"
	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/catalog/memstore"
	"github.com/stacklok/skillboard/catalog/mongostore"
	"github.com/stacklok/skillboard/config"
	"github.com/stacklok/skillboard/directory"
	"github.com/stacklok/skillboard/gate"
	"github.com/stacklok/skillboard/lifecycle"
	"github.com/stacklok/skillboard/policy"
	"github.com/stacklok/skillboard/query"
	"github.com/stacklok/skillboard/web"
)

// catalogHandle is an open catalog store and how to release it.
type catalogHandle struct {
	store catalog.Store
	// mongo is set for the mongo store only.
	mongo *mongostore.Store
	close func(context.Context) error
}

func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalogHandle, error) {
	switch cfg.Catalog.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory catalog store; data is lost on exit")
		return &catalogHandle{store: memstore.New(), close: func(context.Context) error { return nil }}, nil
	case config.StoreMongo:
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
		defer cancel()
		client, err := mongostore.Connect(dialCtx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(client.Database(cfg.Mongo.Database))
		logger.Info("connected to mongodb", "database", cfg.Mongo.Database)
		return &catalogHandle{store: s, mongo: s, close: client.Disconnect}, nil
	default:
		return nil, fmt.Errorf("unknown catalog store %q", cfg.Catalog.Store)
	}
}

// openBlobs returns the icon store scoped under the configured prefix.
func openBlobs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*blob.Prefixed, error) {
	var backend blob.Store
	switch cfg.Storage.Backend {
	case config.BackendMinio:
		s, err := minio.New(minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		backend = s
	case config.BackendLocal:
		root := cfg.Storage.LocalRoot
		if root == "" {
			root = local.DefaultStoreRoot()
		}
		s, err := local.NewStore(root)
		if err != nil {
			return nil, err
		}
		logger.Info("using local icon store", "root", s.Root())
		backend = s
	case config.BackendMemory:
		logger.Warn("using in-memory icon store; icons are lost on exit")
		backend = blob.NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return blob.WithPrefix(backend, cfg.Storage.Prefix), nil
}

// newServer wires the catalog components behind the HTTP surface.
func newServer(cfg *config.Config, store catalog.Store, icons blob.Store, logger *slog.Logger) (*api.Server, error) {
	if store == nil || icons == nil {
		return nil, errors.New("catalog store and icon store are required")
	}
	rule, err := policy.Compile(cfg.Catalog.Rule)
	if err != nil {
		return nil, fmt.Errorf("compiling catalog rule: %w", err)
	}

	categories := directory.New(store, logger)
	skills := lifecycle.New(store, categories, icons,
		lifecycle.WithPolicy(lifecycle.Policy{
			RequireIcons:    cfg.Catalog.RequireIcons,
			RequireCategory: cfg.Catalog.RequireCategory,
			Rule:            rule,
		}),
		lifecycle.WithLogger(logger),
	)

	pages, err := web.New(web.Settings{
		SecretHeader: cfg.Auth.HeaderName,
		Secret:       cfg.Auth.Secret,
	}, logger)
	if err != nil {
		return nil, err
	}

	srv := &api.Server{
		Skills:     skills,
		Categories: categories,
		Query:      query.New(store, cfg.IconBase()),
		Gate: gate.New(gate.Options{
			Secret:       cfg.Auth.Secret,
			HeaderName:   cfg.Auth.HeaderName,
			Password:     cfg.Auth.Password,
			SecureCookie: cfg.Auth.SecureCookie,
			SessionTTL:   cfg.Auth.SessionTTL,
			Public:       api.PublicPaths(),
		}, logger),
		Pages:          pages,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	}
	if cfg.ServesIcons() {
		srv.Icons = icons
	}
	return srv, nil
}
