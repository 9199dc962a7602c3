// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	// MaxExpressionLength bounds the source length of a rule.
	MaxExpressionLength = 4096

	// CostLimit bounds the runtime cost of a single evaluation.
	CostLimit = 100000
)

// Operation names the write being checked.
type Operation string

// Operations.
const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// Sentinel errors.
var (
	ErrCompile    = errors.New("skill policy does not compile")
	ErrEvaluation = errors.New("skill policy evaluation failed")
	ErrNotBool    = errors.New("skill policy must return a bool")
)

// Input is the state a rule is evaluated against.
type Input struct {
	Name         string
	Category     string
	HasLightIcon bool
	HasDarkIcon  bool
	Operation    Operation
}

func (in Input) activation() map[string]any {
	return map[string]any{
		"name":         in.Name,
		"category":     in.Category,
		"hasLightIcon": in.HasLightIcon,
		"hasDarkIcon":  in.HasDarkIcon,
		"operation":    string(in.Operation),
	}
}

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

func skillEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("name", cel.StringType),
			cel.Variable("category", cel.StringType),
			cel.Variable("hasLightIcon", cel.BoolType),
			cel.Variable("hasDarkIcon", cel.BoolType),
			cel.Variable("operation", cel.StringType),
		)
	})
	return env, envErr
}

// Rule is a compiled skill policy. It is safe for concurrent use.
type Rule struct {
	source  string
	program cel.Program
}

// Source returns the expression the rule was compiled from.
func (r *Rule) Source() string {
	return r.source
}

// Compile parses and type-checks expr. An empty expression yields a nil
// Rule, which allows everything.
func Compile(expr string) (*Rule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	ast, err := check(expr)
	if err != nil {
		return nil, err
	}
	e, _ := skillEnv()
	program, err := e.Program(ast, cel.CostLimit(CostLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: building program for %q: %w", ErrCompile, expr, err)
	}
	return &Rule{source: expr, program: program}, nil
}

// Check reports whether expr would compile, without building a program.
func Check(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := check(strings.TrimSpace(expr))
	return err
}

func check(expr string) (*cel.Ast, error) {
	if len(expr) > MaxExpressionLength {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrCompile, len(expr), MaxExpressionLength)
	}
	e, err := skillEnv()
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	parsed, issues := e.Parse(expr)
	if issues.Err() != nil {
		return nil, newCompileError(StageParse, expr, issues)
	}
	checked, issues := e.Check(parsed)
	if issues.Err() != nil {
		return nil, newCompileError(StageCheck, expr, issues)
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBool, expr, checked.OutputType())
	}
	return checked, nil
}

// Allow evaluates the rule. A nil Rule allows everything.
func (r *Rule) Allow(in Input) (bool, error) {
	if r == nil {
		return true, nil
	}
	out, _, err := r.program.Eval(in.activation())
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out.Value())
	}
	return allowed, nil
}
