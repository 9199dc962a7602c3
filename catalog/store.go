// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import "context"

// SkillFilter selects skills for counting and searching.
type SkillFilter struct {
	// NameContains is a case-insensitive literal substring. Empty matches all.
	NameContains string
	// IDs restricts results to these ids when non-nil. An empty non-nil
	// slice matches nothing.
	IDs []string
}

// SkillStore persists Skill documents.
// Lookups of a missing or malformed id return an error wrapping ErrNotFound.
// Writes that violate name uniqueness return an error wrapping ErrConflict.
type SkillStore interface {
	GetSkill(ctx context.Context, id string) (*Skill, error)
	// FindSkillByName returns nil, nil when no skill has the exact name.
	FindSkillByName(ctx context.Context, name string) (*Skill, error)
	// InsertSkill assigns s.ID.
	InsertSkill(ctx context.Context, s *Skill) error
	UpdateSkill(ctx context.Context, s *Skill) error
	DeleteSkill(ctx context.Context, id string) error
	GetSkills(ctx context.Context, ids []string) ([]Skill, error)

	CountSkills(ctx context.Context, f SkillFilter) (int64, error)
	// SearchSkills returns matches sorted by name ascending, joined with the
	// owning category.
	SearchSkills(ctx context.Context, f SkillFilter, skip, limit int64) ([]SkillView, error)
}

// CategoryStore persists Category documents and their member sets.
type CategoryStore interface {
	// ListCategories returns all categories sorted by name ascending.
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	// FindCategoryByName returns nil, nil when no category has the exact name.
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	// InsertCategory assigns c.ID.
	InsertCategory(ctx context.Context, c *Category) error
	// FindCategoryBySkill returns the first category containing skillID, or nil, nil.
	FindCategoryBySkill(ctx context.Context, skillID string) (*Category, error)

	AddSkillToCategory(ctx context.Context, categoryID, skillID string) error
	RemoveSkillFromCategory(ctx context.Context, categoryID, skillID string) error
	RemoveSkillFromAllCategories(ctx context.Context, skillID string) error
}

// Store is a complete catalog backend.
type Store interface {
	SkillStore
	CategoryStore
}
