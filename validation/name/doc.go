// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package name validates user-supplied skill and category names before they
reach the catalog.

Skill names become object-store keys after canonicalization, so they may not
contain path separators. Both kinds of name must:

  - be non-empty after trimming whitespace
  - not contain null bytes or other control characters
  - be at most MaxLength bytes

Examples:

	"Go Lang"       // valid skill and category name
	"C/C++"         // invalid skill name (path separator), valid category name
	"   "           // invalid
*/
package name
