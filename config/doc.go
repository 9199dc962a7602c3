// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads the skillboard configuration.

Sources are applied in order, each overriding the last:

  - DefaultConfig
  - a YAML file (the --config flag or SKILLBOARD_CONFIG)
  - MONGODB_URI, MINIO_*, PASSWORD and NEXT_PUBLIC_API_SECRET_KEY
  - SKILLBOARD_<GROUP>_<FIELD>, e.g. SKILLBOARD_STORAGE_BACKEND=local

GROUP is one of SERVER, AUTH, MONGO, STORAGE, CATALOG or LOGGING, matching
the YAML sections.

A dotenv file named by SKILLBOARD_ENV_FILE fills in process variables that
are not already set before any of the above is read.
*/
package config
