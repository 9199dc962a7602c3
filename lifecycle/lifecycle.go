// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle creates, updates and deletes skills while keeping the
// skill document, its two icon blobs and its category membership consistent.
//
// Steps run in a fixed order with no retries or compensation. A failure
// returns immediately and leaves the steps already completed in place.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/skillboard/blob"
	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/policy"
	"github.com/stacklok/skillboard/validation/name"
)

// Categories is the subset of the category directory the manager needs.
type Categories interface {
	Get(ctx context.Context, id string) (*catalog.Category, error)
	FindOwnerOf(ctx context.Context, skillID string) (*catalog.Category, error)
	AddMember(ctx context.Context, categoryID, skillID string) error
	RemoveMember(ctx context.Context, categoryID, skillID string) error
	RemoveFromAll(ctx context.Context, skillID string) error
}

// Policy controls which writes are accepted.
type Policy struct {
	// RequireIcons rejects creates without both icons.
	RequireIcons bool
	// RequireCategory rejects creates without a category.
	RequireCategory bool
	// Rule is an optional CEL rule; nil allows everything.
	Rule *policy.Rule
}

// DefaultPolicy requires both icons and a category on create.
func DefaultPolicy() Policy {
	return Policy{RequireIcons: true, RequireCategory: true}
}

// CreateRequest describes a new skill. Name is the raw name as typed.
type CreateRequest struct {
	Name       string
	CategoryID string
	LightIcon  []byte
	DarkIcon   []byte
}

// UpdateRequest describes changes to a skill. Nil pointers leave a field
// unchanged; an empty CategoryID detaches the skill from its category.
// Empty icon slices mean no new image.
type UpdateRequest struct {
	Name       *string
	CategoryID *string
	LightIcon  []byte
	DarkIcon   []byte
}

// Manager runs the skill write workflows.
type Manager struct {
	skills     catalog.SkillStore
	categories Categories
	icons      blob.Store
	policy     Policy
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// New returns a Manager. icons receives bare icon keys; scope it with
// blob.WithPrefix.
func New(skills catalog.SkillStore, categories Categories, icons blob.Store, opts ...Option) *Manager {
	m := &Manager{
		skills:     skills,
		categories: categories,
		icons:      icons,
		policy:     DefaultPolicy(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores both icons, inserts the skill and adds it to its category.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*catalog.Skill, error) {
	canonical, err := canonicalize(req.Name)
	if err != nil {
		return nil, err
	}
	if m.policy.RequireIcons && (len(req.LightIcon) == 0 || len(req.DarkIcon) == 0) {
		return nil, fmt.Errorf("%w: light and dark images are required", catalog.ErrValidation)
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" && m.policy.RequireCategory {
		return nil, fmt.Errorf("%w: category is required", catalog.ErrValidation)
	}
	category, err := m.targetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := m.allow(policy.Input{
		Name:         canonical,
		Category:     category.name(),
		HasLightIcon: len(req.LightIcon) > 0,
		HasDarkIcon:  len(req.DarkIcon) > 0,
		Operation:    policy.OpCreate,
	}); err != nil {
		return nil, err
	}

	existing, err := m.skills.FindSkillByName(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("skill %q: %w", canonical, catalog.ErrConflict)
	}

	light, dark := catalog.IconKeys(canonical)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.putIcon(gctx, light, req.LightIcon) })
	g.Go(func() error { return m.putIcon(gctx, dark, req.DarkIcon) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	skill := &catalog.Skill{
		Name:         canonical,
		LightIconKey: storedKey("", light, req.LightIcon),
		DarkIconKey:  storedKey("", dark, req.DarkIcon),
	}
	if err := m.skills.InsertSkill(ctx, skill); err != nil {
		return nil, err
	}
	m.logger.InfoContext(ctx, "skill created", "skill_id", skill.ID, "name", skill.Name)

	if category != nil {
		if err := m.categories.AddMember(ctx, category.ID, skill.ID); err != nil {
			m.logger.ErrorContext(ctx, "skill created without category membership",
				"skill_id", skill.ID, "category_id", category.ID, "error", err)
			return nil, fmt.Errorf("adding skill %s to category %s: %w", skill.ID, category.ID, err)
		}
	}
	return skill, nil
}

// Update renames the skill, migrates or replaces its icons, persists the
// document and then moves its category membership.
func (m *Manager) Update(ctx context.Context, id string, req UpdateRequest) (*catalog.Skill, error) {
	current, err := m.skills.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}

	newName := current.Name
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		if newName, err = canonicalize(*req.Name); err != nil {
			return nil, err
		}
	}
	if newName != current.Name {
		other, err := m.skills.FindSkillByName(ctx, newName)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != current.ID {
			return nil, fmt.Errorf("skill %q: %w", newName, catalog.ErrConflict)
		}
	}

	var target *resolvedCategory
	if req.CategoryID != nil {
		if target, err = m.targetCategory(ctx, strings.TrimSpace(*req.CategoryID)); err != nil {
			return nil, err
		}
	}
	categoryName := target.name()
	if req.CategoryID == nil {
		owner, err := m.categories.FindOwnerOf(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		if owner != nil {
			categoryName = owner.Name
		}
	}
	light, dark := catalog.IconKeys(newName)
	light = storedKey(current.LightIconKey, light, req.LightIcon)
	dark = storedKey(current.DarkIconKey, dark, req.DarkIcon)
	if err := m.allow(policy.Input{
		Name:         newName,
		Category:     categoryName,
		HasLightIcon: light != "",
		HasDarkIcon:  dark != "",
		Operation:    policy.OpUpdate,
	}); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.migrateIcon(gctx, current.LightIconKey, light, req.LightIcon) })
	g.Go(func() error { return m.migrateIcon(gctx, current.DarkIconKey, dark, req.DarkIcon) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updated := &catalog.Skill{ID: current.ID, Name: newName, LightIconKey: light, DarkIconKey: dark}
	if err := m.skills.UpdateSkill(ctx, updated); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := m.moveCategory(ctx, current.ID, target); err != nil {
			return nil, err
		}
	}

	m.logger.InfoContext(ctx, "skill updated", "skill_id", updated.ID, "name", updated.Name, "previous_name", current.Name)
	return updated, nil
}

// Delete removes both icons, prunes the skill from every category and
// deletes the document.
func (m *Manager) Delete(ctx context.Context, id string) error {
	skill, err := m.skills.GetSkill(ctx, id)
	if err != nil {
		return err
	}
	if err := m.removeIcon(ctx, skill.LightIconKey); err != nil {
		return err
	}
	if err := m.removeIcon(ctx, skill.DarkIconKey); err != nil {
		return err
	}
	if err := m.categories.RemoveFromAll(ctx, skill.ID); err != nil {
		return fmt.Errorf("removing skill %s from categories: %w", skill.ID, err)
	}
	if err := m.skills.DeleteSkill(ctx, skill.ID); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "skill deleted", "skill_id", skill.ID, "name", skill.Name)
	return nil
}

func (m *Manager) moveCategory(ctx context.Context, skillID string, target *resolvedCategory) error {
	owner, err := m.categories.FindOwnerOf(ctx, skillID)
	if err != nil {
		return err
	}
	switch {
	case target == nil && owner == nil:
		return nil
	case target == nil:
		if err := m.categories.RemoveMember(ctx, owner.ID, skillID); err != nil {
			return fmt.Errorf("detaching skill %s from category %s: %w", skillID, owner.ID, err)
		}
	case owner == nil:
		if err := m.categories.AddMember(ctx, target.ID, skillID); err != nil {
			return fmt.Errorf("adding skill %s to category %s: %w", skillID, target.ID, err)
		}
	case owner.ID != target.ID:
		if err := m.categories.RemoveMember(ctx, owner.ID, skillID); err != nil {
			return fmt.Errorf("detaching skill %s from category %s: %w", skillID, owner.ID, err)
		}
		if err := m.categories.AddMember(ctx, target.ID, skillID); err != nil {
			return fmt.Errorf("adding skill %s to category %s: %w", skillID, target.ID, err)
		}
	}
	return nil
}

// storedKey returns the icon key a document should hold after a write: key
// when bytes arrive or an existing icon moves there, otherwise "". A skill
// without an icon never references a blob.
func storedKey(oldKey, key string, data []byte) string {
	if len(data) == 0 && oldKey == "" {
		return ""
	}
	return key
}

// migrateIcon moves one icon from oldKey to newKey. New bytes are written
// first; the old key is removed only after the new one exists. An empty
// newKey means there is no icon to keep.
func (m *Manager) migrateIcon(ctx context.Context, oldKey, newKey string, data []byte) error {
	switch {
	case newKey == "":
		return nil
	case len(data) > 0:
		if err := m.putIcon(ctx, newKey, data); err != nil {
			return err
		}
		if oldKey != "" && oldKey != newKey {
			return m.removeIcon(ctx, oldKey)
		}
	case oldKey != newKey && oldKey != "":
		if err := m.icons.Copy(ctx, oldKey, newKey); err != nil {
			return fmt.Errorf("copying icon %s to %s: %w", oldKey, newKey, err)
		}
		return m.removeIcon(ctx, oldKey)
	}
	return nil
}

func (m *Manager) putIcon(ctx context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := m.icons.Put(ctx, key, data, catalog.IconContentType); err != nil {
		return fmt.Errorf("storing icon %s: %w", key, err)
	}
	return nil
}

func (m *Manager) removeIcon(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := m.icons.Remove(ctx, key); err != nil {
		return fmt.Errorf("removing icon %s: %w", key, err)
	}
	return nil
}

func (m *Manager) allow(in policy.Input) error {
	ok, err := m.policy.Rule.Allow(in)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: rejected by skill policy %q", catalog.ErrValidation, m.policy.Rule.Source())
	}
	return nil
}

type resolvedCategory struct {
	ID   string
	Name string
}

func (c *resolvedCategory) name() string {
	if c == nil {
		return ""
	}
	return c.Name
}

// targetCategory resolves a category id from a request. An empty id yields
// nil; an unknown id is a validation error.
func (m *Manager) targetCategory(ctx context.Context, id string) (*resolvedCategory, error) {
	if id == "" {
		return nil, nil
	}
	c, err := m.categories.Get(ctx, id)
	if err != nil {
		if catalog.IsNotFound(err) {
			return nil, fmt.Errorf("%w: category %s does not exist", catalog.ErrValidation, id)
		}
		return nil, err
	}
	return &resolvedCategory{ID: c.ID, Name: c.Name}, nil
}

func canonicalize(raw string) (string, error) {
	if err := name.ValidateSkillName(raw); err != nil {
		return "", fmt.Errorf("%w: %w", catalog.ErrValidation, err)
	}
	canonical := catalog.CanonicalName(raw)
	if len(canonical) > name.MaxLength {
		return "", fmt.Errorf("%w: skill name exceeds maximum length of %d bytes", catalog.ErrValidation, name.MaxLength)
	}
	return canonical, nil
}
