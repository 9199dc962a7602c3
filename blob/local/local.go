// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package local implements blob.Store on an OCI Image Layout directory.
//
// Object bytes are content-addressed blobs; each key is an index.json tag
// pointing at its blob, so copies share storage and removal is an untag.
package local

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"

	"github.com/stacklok/skillboard/blob"
)

const defaultMediaType = "application/octet-stream"

// Store is a blob.Store kept in an OCI Image Layout on local disk.
type Store struct {
	root string

	mu    sync.Mutex
	inner *oci.Store
}

var _ blob.Store = (*Store)(nil)

// NewStore opens or initialises an OCI Image Layout at root.
func NewStore(root string) (*Store, error) {
	inner, err := oci.New(root)
	if err != nil {
		return nil, fmt.Errorf("creating OCI store at %s: %w", root, err)
	}
	return &Store{root: root, inner: inner}, nil
}

// StoreRoot returns the blob store root within the given data home directory.
// This is the injectable, testable form. For the standard XDG location, use DefaultStoreRoot.
func StoreRoot(dataHome string) string {
	return filepath.Join(dataHome, "skillboard", "blobs")
}

// DefaultStoreRoot returns the default store root directory using XDG base directory conventions.
func DefaultStoreRoot() string {
	return StoreRoot(xdg.DataHome)
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Put implements blob.Store.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := blob.ValidateKey(key); err != nil {
		return err
	}
	if contentType == "" {
		contentType = defaultMediaType
	}
	desc := ocispec.Descriptor{
		MediaType: contentType,
		Digest:    digest.FromBytes(data),
		Size:      int64(len(data)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inner.Push(ctx, desc, bytes.NewReader(data)); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return fmt.Errorf("writing blob for %s: %w", key, err)
	}
	if err := s.inner.Tag(ctx, desc, tagFor(key)); err != nil {
		return fmt.Errorf("tagging %s: %w", key, err)
	}
	return nil
}

// Copy implements blob.Store. The destination tag points at the source blob.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	if err := blob.ValidateKey(dstKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := s.resolve(ctx, srcKey)
	if err != nil {
		return fmt.Errorf("copying %s: %w", srcKey, err)
	}
	if err := s.inner.Tag(ctx, desc, tagFor(dstKey)); err != nil {
		return fmt.Errorf("tagging %s: %w", dstKey, err)
	}
	return nil
}

// Remove implements blob.Store. The blob itself stays until no tag names it
// and the layout is garbage collected.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inner.Untag(ctx, tagFor(key)); err != nil && !errors.Is(err, errdef.ErrNotFound) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Get implements blob.Store.
func (s *Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	s.mu.Lock()
	desc, err := s.resolve(ctx, key)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	rc, err := s.inner.Fetch(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return &blob.Object{Data: data, ContentType: desc.MediaType}, nil
}

// resolve maps a key to its blob descriptor. Caller holds s.mu.
func (s *Store) resolve(ctx context.Context, key string) (ocispec.Descriptor, error) {
	desc, err := s.inner.Resolve(ctx, tagFor(key))
	if err != nil {
		if errors.Is(err, errdef.ErrNotFound) || errors.Is(err, errdef.ErrInvalidDigest) {
			return ocispec.Descriptor{}, blob.ErrNotFound
		}
		return ocispec.Descriptor{}, err
	}
	return desc, nil
}

// tagFor derives a valid OCI tag from an arbitrary key.
func tagFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "k-" + hex.EncodeToString(sum[:])
}
