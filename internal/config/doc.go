// Package config handles loading and parsing Holler's configuration.
//
// # Overview
//
// This package reads Holler's TOML configuration to discover which Soapbox
// deployment and project to talk to, plus a handful of client tunables. The
// file is optional: Holler runs against defaults plus environment variables,
// and the org/project slugs can come entirely from flags.
//
// # Resolution Order
//
// Each field resolves in this order, later entries winning:
//
//  1. Built-in defaults
//  2. The config file (~/.config/holler/config.toml unless overridden)
//  3. HOLLER_* environment variables
//  4. Command-line flags (applied by the caller, not this package)
//
// # Configuration Fields
//
//   - server_url / HOLLER_SERVER_URL: Soapbox API base URL
//   - org / HOLLER_ORG: organization slug
//   - project / HOLLER_PROJECT: project slug
//   - per_page / HOLLER_PER_PAGE: list page size (default 20)
//   - refresh_seconds / HOLLER_REFRESH_SECONDS: silent refresh cadence
//     (default 30)
//   - log_file / HOLLER_LOG_FILE: diagnostics log destination
//
// Example config.toml:
//
//	server_url = "https://feedback.acme.dev"
//	org = "acme"
//	project = "widget"
//	per_page = 20
//
// Tilde expansion is performed on the config path and log file.
//
// # Error Handling
//
// Load returns errors only for unreadable or unparsable files and for path
// expansion failures. A missing file is NOT an error; defaults are used so
// Holler works out of the box. Malformed numeric environment overrides are
// ignored rather than fatal.
package config
