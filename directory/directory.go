// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package directory manages skill categories and their member sets.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/validation/name"
)

// Directory reads and mutates categories.
type Directory struct {
	store  catalog.Store
	logger *slog.Logger
}

// New returns a Directory over store.
func New(store catalog.Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Directory{store: store, logger: logger}
}

// List returns categories sorted by name with their member skills resolved.
func (d *Directory) List(ctx context.Context) ([]catalog.CategoryWithSkills, error) {
	cats, err := d.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.CategoryWithSkills, 0, len(cats))
	for _, c := range cats {
		skills, err := d.store.GetSkills(ctx, c.Skills)
		if err != nil {
			return nil, fmt.Errorf("resolving skills of category %s: %w", c.ID, err)
		}
		out = append(out, catalog.CategoryWithSkills{ID: c.ID, Name: c.Name, Skills: skills})
	}
	return out, nil
}

// Names returns the id and name of every category, sorted by name.
func (d *Directory) Names(ctx context.Context) ([]catalog.CategoryRef, error) {
	cats, err := d.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.CategoryRef, 0, len(cats))
	for _, c := range cats {
		out = append(out, catalog.CategoryRef{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Create adds a category with an empty member set. The name is trimmed and
// must be unique by exact match.
func (d *Directory) Create(ctx context.Context, categoryName string) (*catalog.Category, error) {
	categoryName = strings.TrimSpace(categoryName)
	if err := name.ValidateCategoryName(categoryName); err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrValidation, err)
	}

	existing, err := d.store.FindCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q: %w", categoryName, catalog.ErrConflict)
	}

	c := &catalog.Category{Name: categoryName, Skills: []string{}}
	if err := d.store.InsertCategory(ctx, c); err != nil {
		return nil, err
	}
	d.logger.InfoContext(ctx, "category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Get returns a category by id.
func (d *Directory) Get(ctx context.Context, id string) (*catalog.Category, error) {
	return d.store.GetCategory(ctx, id)
}

// Exists reports whether a category with id exists.
func (d *Directory) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := d.store.GetCategory(ctx, id); err != nil {
		if catalog.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindOwnerOf returns the category whose member set holds skillID, or nil.
func (d *Directory) FindOwnerOf(ctx context.Context, skillID string) (*catalog.Category, error) {
	return d.store.FindCategoryBySkill(ctx, skillID)
}

// AddMember adds skillID to the category. Adding an existing member is a no-op.
func (d *Directory) AddMember(ctx context.Context, categoryID, skillID string) error {
	return d.store.AddSkillToCategory(ctx, categoryID, skillID)
}

// RemoveMember removes skillID from the category.
func (d *Directory) RemoveMember(ctx context.Context, categoryID, skillID string) error {
	return d.store.RemoveSkillFromCategory(ctx, categoryID, skillID)
}

// RemoveFromAll removes skillID from every category that holds it.
func (d *Directory) RemoveFromAll(ctx context.Context, skillID string) error {
	return d.store.RemoveSkillFromAllCategories(ctx, skillID)
}
