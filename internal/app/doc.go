// Package app provides the orchestration layer for the Holler application.
//
// # Overview
//
// This package wires together configuration, identity, the Soapbox API client,
// the feed controllers, and the UI to create the complete Holler TUI
// experience. It serves as the composition root where all dependencies are
// initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load Holler configuration from ~/.config/holler/config.toml, apply
//     HOLLER_* environment variables and command-line overrides
//  2. Open the diagnostic log file (the TUI owns the terminal)
//  3. Load or synthesize the anonymous voter fingerprint
//  4. Initialize the Soapbox HTTP client for the configured org/project
//  5. Construct the feed controllers (board, votes, roadmap, releases,
//     articles, categories, article reader, tickets)
//  6. Start the self-refreshing lists on their own goroutines
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config + env
//	       ├─────> logx.New()           File-backed zap logger
//	       ├─────> identity.New()       Voter fingerprint
//	       ├─────> soapbox.NewClient()  HTTP client
//	       ├─────> feed.New*()          Controllers + Start(ctx)
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Feed Controller Loop (one per list):
//	┌─────────────────────────────────────────┐
//	│ List.Start() goroutine                  │
//	│  ├─> fetch page from Soapbox API        │
//	│  ├─> publish snapshot (atomic)          │
//	│  └─> sleep RefreshEvery, repeat         │
//	│      └─> UI reads Snapshot() each tick  │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid
//   - No org/project configured
//   - Soapbox client initialization failure
//
// Recoverable errors (surfaced in the UI header, controllers keep going):
//   - Fetch failures and network timeouts on any list
//   - Vote, wish, comment, or ticket submissions that the server rejects
//
// An unwritable log file degrades to a no-op logger rather than blocking
// startup; Holler is still usable without diagnostics.
//
// # Usage Example
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	err := app.Run(ctx, app.Options{
//		Org:     "acme",
//		Project: "widget",
//	})
//
// # Dependencies
//
//   - config: Loads and parses the Holler config file
//   - logx: File-backed structured logging
//   - identity: Persistent anonymous voter fingerprint
//   - soapbox: HTTP client for the Soapbox feedback API
//   - feed: Self-refreshing list controllers and submission state
//   - prefs: User preferences (theme, prefill name/email)
//   - ui: Terminal user interface implementation
package app
