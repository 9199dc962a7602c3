// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/stacklok/skillboard/httperr"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(w, r, loginSchema, &req); err != nil {
		return err
	}
	if err := s.Gate.Login(w, req.Password); err != nil {
		s.logger().WarnContext(r.Context(), "login rejected")
		return err
	}
	httperr.WriteJSON(w, http.StatusOK, httperr.Envelope{Success: true})
	return nil
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) error {
	s.Gate.Logout(w)
	httperr.WriteJSON(w, http.StatusOK, httperr.Envelope{Success: true})
	return nil
}
