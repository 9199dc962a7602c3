// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Memory is a Store held in a map. It backs tests and the "memory" storage
// backend.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: slices.Clone(data), ContentType: contentType}
	return nil
}

// Copy implements Store.
func (m *Memory) Copy(_ context.Context, srcKey, dstKey string) error {
	if err := ValidateKey(dstKey); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[srcKey]
	if !ok {
		return fmt.Errorf("copying %s: %w", srcKey, ErrNotFound)
	}
	m.objects[dstKey] = Object{Data: slices.Clone(obj.Data), ContentType: obj.ContentType}
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("getting %s: %w", key, ErrNotFound)
	}
	return &Object{Data: slices.Clone(obj.Data), ContentType: obj.ContentType}, nil
}

// Keys lists stored keys in lexical order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
