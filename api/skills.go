// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/stacklok/skillboard/blob"
	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/httperr"
	"github.com/stacklok/skillboard/query"
)

func (s *Server) searchSkills(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	res, err := s.Query.Search(r.Context(), query.Params{
		Page:       atoi(q.Get("page")),
		Limit:      atoi(q.Get("limit")),
		Name:       q.Get("name"),
		CategoryID: q.Get("category"),
	})
	if err != nil {
		return err
	}
	httperr.WriteJSON(w, http.StatusOK, httperr.Envelope{
		Success:    true,
		Data:       res.Data,
		Pagination: res.Pagination,
	})
	return nil
}

func (s *Server) getSkill(w http.ResponseWriter, r *http.Request) error {
	skill, err := s.Query.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, skill)
}

func (s *Server) createSkill(w http.ResponseWriter, r *http.Request) error {
	form, err := parseSkillForm(w, r, s.maxUploadBytes())
	if err != nil {
		return err
	}
	skill, err := s.Skills.Create(r.Context(), form.createRequest())
	if err != nil {
		return err
	}
	return ok(w, http.StatusCreated, skill)
}

func (s *Server) updateSkill(w http.ResponseWriter, r *http.Request) error {
	form, err := parseSkillForm(w, r, s.maxUploadBytes())
	if err != nil {
		return err
	}
	skill, err := s.Skills.Update(r.Context(), r.PathValue("id"), form.updateRequest())
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, skill)
}

func (s *Server) deleteSkill(w http.ResponseWriter, r *http.Request) error {
	if err := s.Skills.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	return ok(w, http.StatusOK, struct{}{})
}

func (s *Server) serveIcon(w http.ResponseWriter, r *http.Request) error {
	key := r.PathValue("key")
	if err := blob.ValidateKey(key); err != nil {
		return httperr.WithCode(err, http.StatusBadRequest)
	}
	obj, err := s.Icons.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return httperr.Newf(http.StatusNotFound, "icon %s: %s", key, catalog.ErrNotFound)
		}
		return err
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	_, _ = w.Write(obj.Data)
	return nil
}

// atoi parses a query integer. Malformed input yields 0, which the query
// service replaces with its default.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
