// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/stacklok/skillboard/httperr"
)

const (
	// LightIconSuffix is appended to a canonical name to form the light icon key.
	LightIconSuffix = "-light.svg"
	// DarkIconSuffix is appended to a canonical name to form the dark icon key.
	DarkIconSuffix = "-dark.svg"
	// IconContentType is stored with every icon blob.
	IconContentType = "image/svg+xml"
)

// Sentinel errors. Wrap them with fmt.Errorf("...: %w", Err...).
var (
	ErrNotFound   = httperr.New("not found", http.StatusNotFound)
	ErrConflict   = httperr.New("already exists", http.StatusConflict)
	ErrValidation = httperr.New("invalid input", http.StatusBadRequest)
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Skill is a catalog entry. JSON names follow the public API.
type Skill struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	LightIconKey string `json:"lightColorPath"`
	DarkIconKey  string `json:"darkColorPath"`
}

// Category groups skills. Skills holds skill ids.
type Category struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// CategoryRef is the id+name projection of a category.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// CategoryWithSkills is a category with its member skills resolved.
type CategoryWithSkills struct {
	ID     string  `json:"_id"`
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// SkillView is a skill joined with its owning category, if any.
type SkillView struct {
	Skill
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CanonicalName lower-cases a skill name and replaces each whitespace run
// with a single hyphen. Leading and trailing whitespace is dropped.
func CanonicalName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// IconKeys returns the light and dark icon keys for a canonical name.
func IconKeys(canonical string) (light, dark string) {
	return canonical + LightIconSuffix, canonical + DarkIconSuffix
}

// Contains reports whether the category's member set includes skillID.
func (c *Category) Contains(skillID string) bool {
	for _, id := range c.Skills {
		if id == skillID {
			return true
		}
	}
	return false
}
