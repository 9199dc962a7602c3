// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package catalog defines the skills catalog data model and the persistence
contract implemented by the document store backends.

# Data model

A [Skill] has a canonical, unique name and two icon keys derived from it:

	catalog.CanonicalName("  Go   Lang ") // "go-lang"
	catalog.IconKeys("go-lang")          // "go-lang-light.svg", "go-lang-dark.svg"

A [Category] owns a set of skill ids. A skill's owning category is the one
whose set contains its id.

# Errors

[ErrNotFound], [ErrConflict] and [ErrValidation] are httperr coded errors, so
wrapping them keeps the HTTP status (404, 409, 400) intact up to the handler.

# Backends

  - catalog/mongostore: MongoDB
  - catalog/memstore: in-process maps, for tests and local runs
*/
package catalog
