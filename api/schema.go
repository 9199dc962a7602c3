// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/httperr"
)

//go:embed schemas/login.schema.json schemas/category.schema.json
var embeddedSchemaFS embed.FS

const (
	loginSchema    = "schemas/login.schema.json"
	categorySchema = "schemas/category.schema.json"

	maxJSONBodyBytes = 64 << 10
)

type loginRequest struct {
	Password string `json:"password"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

// decodeJSON reads a bounded JSON body, validates it against an embedded
// schema and unmarshals it into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, schemaFile string, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperr.Newf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("%w: reading body: %w", catalog.ErrValidation, err)
	}
	if err := validateAgainstSchema(body, schemaFile); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrValidation, err)
	}
	return nil
}

// validateAgainstSchema validates data against a named embedded schema file.
func validateAgainstSchema(data []byte, schemaFile string) error {
	schemaData, err := embeddedSchemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("reading embedded schema %s: %w", schemaFile, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: malformed JSON body", catalog.ErrValidation)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", catalog.ErrValidation, strings.Join(msgs, "; "))
}
