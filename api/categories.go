// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/stacklok/skillboard/httperr"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) error {
	cats, err := s.Categories.List(r.Context())
	if err != nil {
		return err
	}
	return writeCached(w, r, httperr.Envelope{Success: true, Data: cats}, "")
}

func (s *Server) categoryNames(w http.ResponseWriter, r *http.Request) error {
	names, err := s.Categories.Names(r.Context())
	if err != nil {
		return err
	}
	return writeCached(w, r, httperr.Envelope{Success: true, Data: names}, namesCacheControl)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) error {
	var req categoryRequest
	if err := decodeJSON(w, r, categorySchema, &req); err != nil {
		return err
	}
	c, err := s.Categories.Create(r.Context(), req.Name)
	if err != nil {
		return err
	}
	return ok(w, http.StatusCreated, c)
}
