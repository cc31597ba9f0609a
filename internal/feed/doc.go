// Package feed keeps the client's view of the Soapbox backend: every
// collection the UI renders, plus the optimistic mutations applied on top.
//
// # Overview
//
// The terminal UI never talks to the backend directly. It reads point-in-time
// snapshots from the controllers in this package and triggers fetches and
// mutations through them. The package owns three jobs:
//
//   - Collections: paginated, filterable lists (board, roadmap, releases,
//     articles, categories) with silent auto-refresh
//   - Optimistic mutations: vote toggles and comment submissions that patch
//     the local data before the backend confirms them
//   - Error display: translating client errors into the strings the UI shows
//
// # Architecture
//
// Each collection is a List[T, F]: a generic container pairing a fetch
// function with the current filters, page, and result. Fetches run in their
// own goroutines; the UI polls snapshots on its render tick.
//
//	Fetch goroutines:               Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ fetch(filters,   │           │                  │
//	│       page)      │           │                  │
//	│      ↓           │           │                  │
//	│ list.apply()     │──────────→│ list.Snapshot()  │
//	│  (generation     │  (mutex)  │      ↓           │
//	│   checked)       │           │   render UI      │
//	└──────────────────┘           └──────────────────┘
//
// # Staleness and Generations
//
// Changing filters or pages while a fetch is in flight must never let the
// old response win. Every fetch is stamped with a generation number taken
// under the list lock; a result is only stored when its generation is still
// current. Arrival order does not matter:
//
//	SetFilters(...)   → generation 7 fetch starts
//	SetPage(3)        → generation 8 fetch starts
//	gen 8 returns     → stored
//	gen 7 returns     → discarded (stale)
//
// The same scheme protects the article reader when the user pages through
// documents faster than reads complete.
//
// # Loading Semantics
//
// A list distinguishes the initial load of a filter/page combination from a
// silent refresh of data already on screen:
//
//   - Initial load: Snapshot().Loading is true until the first result lands
//   - Silent refresh: data stays visible, Loading stays false
//   - Refresh failure: previous data is kept, Err carries the display string
//
// Consecutive refresh failures are counted; IsOffline() reports when the
// backend has been unreachable long enough to tell the user. The refresh
// loop backs off exponentially while failures persist, capped at 30s.
//
// # Optimistic Mutations
//
// Vote toggles and comment submissions apply their effect locally first and
// reconcile with the backend second:
//
//	Toggle(wish)  → patch live entry (count±1, voted flipped)
//	              → CreateVote / DeleteVote
//	              → success: record vote handle
//	              → failure: roll back the patch exactly, surface error
//
// Two rules keep this honest:
//
//   - One in-flight mutation per entity. A toggle for a wish that already
//     has one is dropped, so double-presses cannot double-vote.
//   - Pending patches survive refetches. While a mutation is in flight the
//     board re-applies its patch over every incoming fetch result (the
//     ingest hook), so a silent refresh cannot clobber it. Once confirmed
//     or rolled back, the server's numbers are authoritative again.
//
// Patches are idempotent: the voted bit guards the count change, so
// re-applying over an entry the server already counted does not double it.
// A count that would go negative is clamped to zero and logged as an
// inconsistency rather than rendered.
//
// # Concurrency Model
//
// Every controller guards its state with a mutex and hands out defensive
// copies. Lock ordering is fixed: the vote coordinator's lock is a leaf,
// taken while the board lock is held (ingest) but never held across calls
// into the board or the network. Mutation methods block until the backend
// answers; the UI runs them inside command goroutines and keeps rendering
// the optimistic state meanwhile.
//
// # Error Display
//
// Controllers never expose raw errors. displayError picks the string shown
// to the user: the server's own message when present ("Already voted"), a
// stable phrase for transport failures, a generic fallback otherwise.
// Mutation errors are held until the UI takes them; read errors live in
// snapshots alongside the data they failed to replace.
package feed
