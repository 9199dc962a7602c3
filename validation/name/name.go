// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package name

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLength is the longest accepted name in bytes.
const MaxLength = 100

// ValidateSkillName validates a raw skill name as typed by the admin.
func ValidateSkillName(s string) error {
	if err := validateCommon("skill", s); err != nil {
		return err
	}
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("skill name cannot contain path separators: %q", s)
	}
	return nil
}

// ValidateCategoryName validates a raw category name.
func ValidateCategoryName(s string) error {
	return validateCommon("category", s)
}

func validateCommon(kind, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s name cannot be empty or consist only of whitespace", kind)
	}
	if strings.Contains(s, "\x00") {
		return fmt.Errorf("%s name cannot contain null bytes", kind)
	}
	if len(s) > MaxLength {
		return fmt.Errorf("%s name exceeds maximum length of %d bytes", kind, MaxLength)
	}
	for _, r := range s {
		// tabs and newlines are whitespace that canonicalization folds away
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("%s name cannot contain control characters: %q", kind, s)
		}
	}
	return nil
}
