// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package policy evaluates an optional CEL acceptance rule against skill writes.

A rule sees these variables:

	name          string  canonical skill name
	category      string  target category name, "" when none
	hasLightIcon  bool    a light icon is supplied or already stored
	hasDarkIcon   bool    a dark icon is supplied or already stored
	operation     string  "create" or "update"

Example:

	rule, err := policy.Compile(`operation != "create" || category != ""`)
	if err != nil {
	    // *CompileError carries line and column details
	}
	ok, err := rule.Allow(policy.Input{Name: "go-lang", Operation: policy.OpCreate})

Compilation rejects expressions longer than MaxExpressionLength, and evaluation
stops once CostLimit is exceeded.
*/
package policy
