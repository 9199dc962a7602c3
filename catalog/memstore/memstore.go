// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package memstore is an in-process catalog.Store. It honours the same
// uniqueness and not-found contract as the MongoDB backend and is used by
// tests and by `skillboard serve` when catalog.store is "memory".
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/skillboard/catalog"
)

// Store keeps skills and categories in maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	skills     map[string]catalog.Skill
	categories map[string]catalog.Category
}

var _ catalog.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		skills:     make(map[string]catalog.Skill),
		categories: make(map[string]catalog.Category),
	}
}

// GetSkill implements catalog.SkillStore.
func (s *Store) GetSkill(_ context.Context, id string) (*catalog.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sk, ok := s.skills[id]
	if !ok {
		return nil, fmt.Errorf("skill %s: %w", id, catalog.ErrNotFound)
	}
	return &sk, nil
}

// FindSkillByName implements catalog.SkillStore.
func (s *Store) FindSkillByName(_ context.Context, name string) (*catalog.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sk := range s.skills {
		if sk.Name == name {
			return &sk, nil
		}
	}
	return nil, nil
}

// InsertSkill implements catalog.SkillStore.
func (s *Store) InsertSkill(_ context.Context, sk *catalog.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skillNameTaken(sk.Name, "") {
		return fmt.Errorf("skill %q: %w", sk.Name, catalog.ErrConflict)
	}
	sk.ID = uuid.NewString()
	s.skills[sk.ID] = *sk
	return nil
}

// UpdateSkill implements catalog.SkillStore.
func (s *Store) UpdateSkill(_ context.Context, sk *catalog.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.skills[sk.ID]; !ok {
		return fmt.Errorf("skill %s: %w", sk.ID, catalog.ErrNotFound)
	}
	if s.skillNameTaken(sk.Name, sk.ID) {
		return fmt.Errorf("skill %q: %w", sk.Name, catalog.ErrConflict)
	}
	s.skills[sk.ID] = *sk
	return nil
}

// DeleteSkill implements catalog.SkillStore.
func (s *Store) DeleteSkill(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.skills[id]; !ok {
		return fmt.Errorf("skill %s: %w", id, catalog.ErrNotFound)
	}
	delete(s.skills, id)
	return nil
}

// GetSkills implements catalog.SkillStore. Unknown ids are skipped.
func (s *Store) GetSkills(_ context.Context, ids []string) ([]catalog.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Skill, 0, len(ids))
	for _, id := range ids {
		if sk, ok := s.skills[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

// CountSkills implements catalog.SkillStore.
func (s *Store) CountSkills(_ context.Context, f catalog.SkillFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.match(f))), nil
}

// SearchSkills implements catalog.SkillStore.
func (s *Store) SearchSkills(_ context.Context, f catalog.SkillFilter, skip, limit int64) ([]catalog.SkillView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := s.match(f)
	if skip >= int64(len(matches)) {
		return []catalog.SkillView{}, nil
	}
	end := int64(len(matches))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}

	cats := s.sortedCategories()
	out := make([]catalog.SkillView, 0, end-skip)
	for _, sk := range matches[skip:end] {
		view := catalog.SkillView{Skill: sk}
		for _, c := range cats {
			if c.Contains(sk.ID) {
				view.CategoryID, view.CategoryName = c.ID, c.Name
				break
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// ListCategories implements catalog.CategoryStore.
func (s *Store) ListCategories(_ context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedCategories(), nil
}

// GetCategory implements catalog.CategoryStore.
func (s *Store) GetCategory(_ context.Context, id string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	c.Skills = slices.Clone(c.Skills)
	return &c, nil
}

// FindCategoryByName implements catalog.CategoryStore.
func (s *Store) FindCategoryByName(_ context.Context, name string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Name == name {
			c.Skills = slices.Clone(c.Skills)
			return &c, nil
		}
	}
	return nil, nil
}

// InsertCategory implements catalog.CategoryStore.
func (s *Store) InsertCategory(_ context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return fmt.Errorf("category %q: %w", c.Name, catalog.ErrConflict)
		}
	}
	c.ID = uuid.NewString()
	if c.Skills == nil {
		c.Skills = []string{}
	}
	stored := *c
	stored.Skills = slices.Clone(c.Skills)
	s.categories[c.ID] = stored
	return nil
}

// FindCategoryBySkill implements catalog.CategoryStore.
func (s *Store) FindCategoryBySkill(_ context.Context, skillID string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.sortedCategories() {
		if c.Contains(skillID) {
			return &c, nil
		}
	}
	return nil, nil
}

// AddSkillToCategory implements catalog.CategoryStore. Adding an existing
// member is a no-op.
func (s *Store) AddSkillToCategory(_ context.Context, categoryID, skillID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[categoryID]
	if !ok {
		return fmt.Errorf("category %s: %w", categoryID, catalog.ErrNotFound)
	}
	if !c.Contains(skillID) {
		c.Skills = append(slices.Clone(c.Skills), skillID)
		s.categories[categoryID] = c
	}
	return nil
}

// RemoveSkillFromCategory implements catalog.CategoryStore.
func (s *Store) RemoveSkillFromCategory(_ context.Context, categoryID, skillID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[categoryID]
	if !ok {
		return fmt.Errorf("category %s: %w", categoryID, catalog.ErrNotFound)
	}
	s.categories[categoryID] = without(c, skillID)
	return nil
}

// RemoveSkillFromAllCategories implements catalog.CategoryStore.
func (s *Store) RemoveSkillFromAllCategories(_ context.Context, skillID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.categories {
		s.categories[id] = without(c, skillID)
	}
	return nil
}

func without(c catalog.Category, skillID string) catalog.Category {
	kept := make([]string, 0, len(c.Skills))
	for _, id := range c.Skills {
		if id != skillID {
			kept = append(kept, id)
		}
	}
	c.Skills = kept
	return c
}

func (s *Store) skillNameTaken(name, exceptID string) bool {
	for id, sk := range s.skills {
		if sk.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

// match returns skills satisfying f, sorted by name. Caller holds the lock.
func (s *Store) match(f catalog.SkillFilter) []catalog.Skill {
	needle := strings.ToLower(f.NameContains)
	var allowed map[string]struct{}
	if f.IDs != nil {
		allowed = make(map[string]struct{}, len(f.IDs))
		for _, id := range f.IDs {
			allowed[id] = struct{}{}
		}
	}

	out := make([]catalog.Skill, 0, len(s.skills))
	for id, sk := range s.skills {
		if allowed != nil {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(sk.Name), needle) {
			continue
		}
		out = append(out, sk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// sortedCategories returns deep copies sorted by name. Caller holds the lock.
func (s *Store) sortedCategories() []catalog.Category {
	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c.Skills = slices.Clone(c.Skills)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
