// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"encoding/json"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Stage is the compilation phase that rejected an expression.
type Stage string

// Stages.
const (
	StageParse Stage = "parse"
	StageCheck Stage = "check"
)

// Issue is one problem reported by the CEL compiler.
type Issue struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// CompileError describes why an expression failed to compile.
type CompileError struct {
	Stage  Stage   `json:"stage"`
	Source string  `json:"source"`
	Issues []Issue `json:"issues"`
	cause  error
}

func newCompileError(stage Stage, source string, issues *cel.Issues) *CompileError {
	ce := &CompileError{
		Stage:  stage,
		Source: source,
		Issues: make([]Issue, 0, len(issues.Errors())),
		cause:  issues.Err(),
	}
	for _, e := range issues.Errors() {
		ce.Issues = append(ce.Issues, Issue{
			Line: e.Location.Line(),
			Col:  e.Location.Column(),
			Msg:  e.Message,
		})
	}
	return ce
}

// Error implements error.
func (e *CompileError) Error() string {
	return fmt.Sprintf("skill policy %s error in %q: %s", e.Stage, e.Source, e.cause)
}

// Is matches ErrCompile.
func (*CompileError) Is(target error) bool {
	return target == ErrCompile
}

// Unwrap returns the CEL error.
func (e *CompileError) Unwrap() error {
	return e.cause
}

// JSON renders the error for API and CLI output.
func (e *CompileError) JSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}
