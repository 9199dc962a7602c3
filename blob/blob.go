// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package blob defines the object store contract used for skill icons.
//
// Keys are slash-separated object names. Backends live in blob/minio (S3
// compatible buckets) and blob/local (an OCI image layout on disk).
package blob

//go:generate mockgen -source=blob.go -destination=mocks/mock_store.go -package=mocks Store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a key names no object. It carries no HTTP
// code: a missing icon behind an existing skill is a server-side fault.
var ErrNotFound = errors.New("object not found")

// Object is a stored blob and its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Store reads and writes named objects.
//
// Remove of a missing key succeeds. Copy and Get of a missing key return an
// error wrapping ErrNotFound.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Remove(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*Object, error)
}

// Join builds an object key from a prefix and a name. An empty prefix yields
// the name unchanged.
func Join(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Prefixed scopes every key passed to an inner Store under a fixed prefix.
type Prefixed struct {
	inner  Store
	prefix string
}

var _ Store = (*Prefixed)(nil)

// WithPrefix returns a Store that maps key to Join(prefix, key) on s.
func WithPrefix(s Store, prefix string) *Prefixed {
	return &Prefixed{inner: s, prefix: prefix}
}

// Prefix returns the configured prefix without surrounding slashes.
func (p *Prefixed) Prefix() string {
	return strings.Trim(p.prefix, "/")
}

// Put implements Store.
func (p *Prefixed) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return p.inner.Put(ctx, Join(p.prefix, key), data, contentType)
}

// Copy implements Store.
func (p *Prefixed) Copy(ctx context.Context, srcKey, dstKey string) error {
	return p.inner.Copy(ctx, Join(p.prefix, srcKey), Join(p.prefix, dstKey))
}

// Remove implements Store.
func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.inner.Remove(ctx, Join(p.prefix, key))
}

// Get implements Store.
func (p *Prefixed) Get(ctx context.Context, key string) (*Object, error) {
	return p.inner.Get(ctx, Join(p.prefix, key))
}

// ValidateKey rejects keys that could escape a prefix or are empty.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid object key %q", key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return fmt.Errorf("invalid object key %q", key)
		}
	}
	return nil
}
