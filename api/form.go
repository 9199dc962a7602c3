// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/httperr"
	"github.com/stacklok/skillboard/lifecycle"
)

// Multipart field names.
const (
	fieldName       = "name"
	fieldCategory   = "category"
	fieldLightImage = "lightImage"
	fieldDarkImage  = "darkImage"
)

// skillForm is the parsed multipart body of a skill create or update.
// Nil pointers mean the field was absent.
type skillForm struct {
	Name       *string
	Category   *string
	LightImage []byte
	DarkImage  []byte
}

func (f skillForm) createRequest() lifecycle.CreateRequest {
	req := lifecycle.CreateRequest{LightIcon: f.LightImage, DarkIcon: f.DarkImage}
	if f.Name != nil {
		req.Name = *f.Name
	}
	if f.Category != nil {
		req.CategoryID = *f.Category
	}
	return req
}

func (f skillForm) updateRequest() lifecycle.UpdateRequest {
	return lifecycle.UpdateRequest{
		Name:       f.Name,
		CategoryID: f.Category,
		LightIcon:  f.LightImage,
		DarkIcon:   f.DarkImage,
	}
}

// parseSkillForm reads a bounded multipart body once.
func parseSkillForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*skillForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, httperr.Newf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: expected multipart form data: %w", catalog.ErrValidation, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := &skillForm{
		Name:     formValue(r.MultipartForm, fieldName),
		Category: formValue(r.MultipartForm, fieldCategory),
	}
	var err error
	if form.LightImage, err = formFile(r.MultipartForm, fieldLightImage); err != nil {
		return nil, err
	}
	if form.DarkImage, err = formFile(r.MultipartForm, fieldDarkImage); err != nil {
		return nil, err
	}
	return form, nil
}

func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}

// formFile returns the first file under key, or nil when none was sent.
func formFile(form *multipart.Form, key string) ([]byte, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}
