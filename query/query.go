// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package query answers filtered, paginated reads over the skills catalog.
package query

import (
	"context"
	"net/url"
	"strings"

	"github.com/stacklok/skillboard/catalog"
)

// Paging defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// AllCategories in Params.CategoryID disables the category filter.
const AllCategories = "all"

// Params selects a page of skills.
type Params struct {
	Page       int
	Limit      int
	Name       string
	CategoryID string
}

// normalize clamps paging values into range.
func (p Params) normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Name = strings.TrimSpace(p.Name)
	p.CategoryID = strings.TrimSpace(p.CategoryID)
	if p.CategoryID == AllCategories {
		p.CategoryID = ""
	}
	return p
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalSkills int64 `json:"totalSkills"`
}

// Result is one page of skills.
type Result struct {
	Data       []catalog.SkillView `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// Service runs catalog queries.
type Service struct {
	store    catalog.Store
	iconBase string
}

// New returns a Service. iconBase is prepended to icon keys in search
// results; an empty iconBase leaves keys as stored.
func New(store catalog.Store, iconBase string) *Service {
	return &Service{store: store, iconBase: strings.TrimRight(iconBase, "/")}
}

// IconBase returns <publicURL>/<bucket>/<prefix> with empty parts skipped.
func IconBase(publicURL, bucket, prefix string) string {
	parts := []string{strings.TrimRight(publicURL, "/")}
	for _, p := range []string{bucket, prefix} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// Search returns one page of skills sorted by name, each joined with its
// owning category. An unknown category yields an empty first page.
func (s *Service) Search(ctx context.Context, p Params) (*Result, error) {
	p = p.normalize()
	filter := catalog.SkillFilter{NameContains: p.Name}

	if p.CategoryID != "" {
		c, err := s.store.GetCategory(ctx, p.CategoryID)
		if err != nil {
			if catalog.IsNotFound(err) {
				return emptyResult(), nil
			}
			return nil, err
		}
		filter.IDs = c.Skills
		if filter.IDs == nil {
			filter.IDs = []string{}
		}
	}

	total, err := s.store.CountSkills(ctx, filter)
	if err != nil {
		return nil, err
	}
	skip := int64(p.Page-1) * int64(p.Limit)
	views, err := s.store.SearchSkills(ctx, filter, skip, int64(p.Limit))
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].LightIconKey = s.IconURL(views[i].LightIconKey)
		views[i].DarkIconKey = s.IconURL(views[i].DarkIconKey)
	}

	return &Result{
		Data: views,
		Pagination: Pagination{
			CurrentPage: p.Page,
			TotalPages:  totalPages(total, p.Limit),
			TotalSkills: total,
		},
	}, nil
}

// Get returns a single skill with its stored icon keys.
func (s *Service) Get(ctx context.Context, id string) (*catalog.Skill, error) {
	return s.store.GetSkill(ctx, id)
}

// IconURL expands an icon key against the configured base.
func (s *Service) IconURL(key string) string {
	if s.iconBase == "" || key == "" {
		return key
	}
	return s.iconBase + "/" + url.PathEscape(key)
}

func emptyResult() *Result {
	return &Result{
		Data:       []catalog.SkillView{},
		Pagination: Pagination{CurrentPage: 1, TotalPages: 0, TotalSkills: 0},
	}
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
