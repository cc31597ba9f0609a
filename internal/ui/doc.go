// Package ui provides the terminal user interface for Holler.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program following the Elm architecture: a single
// Model holds all state, Update handles messages, and View renders a frame.
// All feedback data comes from the feed controllers, which fetch from the
// Soapbox API on their own goroutines; the UI never blocks on the network.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Root model, message plumbing, view dispatch, and the main Run function
//   - board.go: Wish list with voting, filtering, search, and paging
//   - detail.go: Wish detail pane and the inline comment thread
//   - roadmap.go: Status-grouped roadmap columns
//   - releases.go: Changelog list with a release-notes pane
//   - helpcenter.go: Article search and full-screen reader
//   - support.go: Support ticket form
//   - wish_form.go, compose.go: Modal forms for new wishes and comments
//   - theme.go, style_helpers.go: Color themes and background-safe rendering
//
// # Views
//
// Five views are available, reachable with the number keys or tab:
//
//   - Board: Votable wish list with a detail pane
//   - Roadmap: Planned / In Progress / Done columns
//   - Releases: Published changelog entries
//   - Help Center: Searchable knowledge-base articles
//   - Support: Contact form with optional file attachment
//
// # Data Flow
//
//  1. Run() builds the model and starts the Bubble Tea program
//  2. A tick commands a snapshot read from every feed controller
//  3. applySnapshot installs the data and reconciles selections
//  4. Mutations (votes, submissions) run as commands and report back
//     through done messages; errors surface in the header or the form
//  5. Context cancellation cleanly shuts the program down
//
// # Key Bindings
//
//   - 1-5: Jump to a view, Tab: cycle views
//   - j/k, g/G: Move within a list
//   - h/l: Move focus between panes or columns
//   - v or Space: Toggle your vote
//   - Enter: Open the comment thread / read an article
//   - n: New wish, c: Comment on the open thread
//   - s: Cycle sort, f: Cycle status filter, /: Search
//   - [ and ]: Previous/next page
//   - R: Refetch the current view, T: Cycle theme
//   - ?: Help overlay, q or Ctrl+C: Quit
//
// # Themes
//
// Three built-in themes (Nightfox, Kanagawa, Slate) can be cycled at
// runtime with T; the choice persists to the preferences file.
package ui
