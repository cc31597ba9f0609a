package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

const (
	defaultRefreshInterval = 30 * time.Second
	maxBackoff             = 30 * time.Second

	// offlineThreshold is the number of consecutive refresh failures after
	// which a collection reports the backend as unreachable.
	offlineThreshold = 2
)

// FetchFunc loads one page of a collection for the given filters.
type FetchFunc[T, F any] func(ctx context.Context, filters F, page, perPage int) (soapbox.Page[T], error)

// ListOptions configure a List.
type ListOptions[T, F any] struct {
	Fetch   FetchFunc[T, F]
	Key     func(T) string // stable entity id, used by Patch and Find
	Filters F              // initial filter set
	PerPage int

	// RefreshEvery is the silent auto-refresh cadence. Zero disables the
	// refresh loop; the list then only fetches on demand.
	RefreshEvery time.Duration

	Log *zap.Logger
}

// List holds the latest fetched page of a filterable, paginated collection
// plus its in-flight and error state. The collection is replaced wholesale on
// every successful fetch; optimistic per-entity patches are applied to the
// live entries so a concurrent refetch cannot silently clobber them (see the
// ingest hook).
//
// Each fetch carries a generation number. A response whose generation is no
// longer current is discarded, so a stale fetch can never overwrite the
// result of a newer one regardless of arrival order.
type List[T, F any] struct {
	fetch        FetchFunc[T, F]
	key          func(T) string
	refreshEvery time.Duration
	log          *zap.Logger

	mu         sync.Mutex
	filters    F
	page       int
	perPage    int
	generation uint64

	items       []T
	total       int
	totalPages  int
	loaded      bool // the current filter/page combination has loaded at least once
	fetching    bool
	err         string
	lastUpdated time.Time
	failures    int

	// ingest runs under the list lock on every successful fetch, letting a
	// mutation coordinator re-apply pending optimistic patches over the
	// incoming entries. It must only take leaf locks.
	ingest func(items []T)
}

// ListSnapshot is a point-in-time copy of the list state handed to the UI.
type ListSnapshot[T any] struct {
	Items      []T
	Total      int
	Page       int
	PerPage    int
	TotalPages int

	// Loading reflects only the initial fetch for the current filter/page
	// combination; silent refreshes never set it.
	Loading bool

	Err                 string
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// IsOffline reports whether the backend has been unreachable for multiple
// consecutive refreshes.
func (s ListSnapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// NewList builds a List. It performs no fetch until Start or Refetch.
func NewList[T, F any](opts ListOptions[T, F]) *List[T, F] {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	return &List[T, F]{
		fetch:        opts.Fetch,
		key:          opts.Key,
		refreshEvery: opts.RefreshEvery,
		log:          log,
		filters:      opts.Filters,
		page:         1,
		perPage:      perPage,
		totalPages:   1,
	}
}

// SetIngest installs the hook run over every successful fetch result before
// it is stored. Install before Start; the hook runs under the list lock.
func (l *List[T, F]) SetIngest(hook func(items []T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ingest = hook
}

// Start issues the initial fetch and, when a refresh interval is configured,
// launches the silent refresh loop. The loop re-issues the current fetch
// without touching the loading flag and backs off exponentially while the
// backend is failing. It returns immediately.
func (l *List[T, F]) Start(ctx context.Context) {
	l.trigger(ctx)
	if l.refreshEvery <= 0 {
		return
	}
	go func() {
		for {
			timer := time.NewTimer(calculateBackoff(l.consecutiveFailures(), l.refreshEvery))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			l.trigger(ctx)
		}
	}()
}

// Refetch re-issues the current fetch. Used by retry affordances after a read
// failure; on an already-loaded combination it behaves like a silent refresh.
func (l *List[T, F]) Refetch(ctx context.Context) {
	l.trigger(ctx)
}

// SetFilters merges a partial filter change into the current filters, resets
// the page to 1, and refetches.
func (l *List[T, F]) SetFilters(ctx context.Context, patch func(F) F) {
	l.mu.Lock()
	l.filters = patch(l.filters)
	l.page = 1
	l.loaded = false
	l.mu.Unlock()
	l.trigger(ctx)
}

// SetPage moves to page n and refetches. The setter trusts the caller: an
// out-of-range page is corrected by the server-confirmed bounds on the next
// load, not rejected here.
func (l *List[T, F]) SetPage(ctx context.Context, n int) {
	l.mu.Lock()
	l.page = n
	l.loaded = false
	l.mu.Unlock()
	l.trigger(ctx)
}

// Filters returns the current filter set.
func (l *List[T, F]) Filters() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// Snapshot returns a copy of the current list state. The item slice is
// cloned so callers can hold it across updates.
func (l *List[T, F]) Snapshot() ListSnapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListSnapshot[T]{
		Items:               cloneItems(l.items),
		Total:               l.total,
		Page:                l.page,
		PerPage:             l.perPage,
		TotalPages:          l.totalPages,
		Loading:             l.fetching && !l.loaded,
		Err:                 l.err,
		LastUpdated:         l.lastUpdated,
		ConsecutiveFailures: l.failures,
	}
}

// Find returns the live entry with the given key.
func (l *List[T, F]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if l.key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Patch applies a mutation to the live entry with the given key, reporting
// whether it was found. This is the path optimistic mutations use: the patch
// lands on the live cache entry, never on a frozen copy a refetch could
// silently replace.
func (l *List[T, F]) Patch(id string, apply func(*T)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.key(l.items[i]) == id {
			apply(&l.items[i])
			return true
		}
	}
	return false
}

// trigger starts an asynchronous fetch for the current filters and page,
// superseding any fetch still in flight.
func (l *List[T, F]) trigger(ctx context.Context) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	filters := l.filters
	page, perPage := l.page, l.perPage
	l.fetching = true
	l.mu.Unlock()

	go func() {
		result, err := l.fetch(ctx, filters, page, perPage)
		l.apply(gen, result, err)
	}()
}

// apply stores a fetch result unless a newer fetch has started since.
func (l *List[T, F]) apply(gen uint64, result soapbox.Page[T], err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.log.Debug("discarding stale fetch result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", l.generation))
		return
	}
	l.fetching = false
	l.lastUpdated = time.Now()

	if err != nil {
		// Keep the previous data visible; record the failure.
		l.failures++
		l.err = displayError(err)
		l.log.Warn("list fetch failed",
			zap.Int("consecutive_failures", l.failures),
			zap.Error(err))
		return
	}

	items := result.Items
	if l.ingest != nil {
		l.ingest(items)
	}
	l.items = items
	l.total = result.Total
	l.totalPages = result.TotalPages
	if l.totalPages < 1 {
		l.totalPages = 1
	}
	if result.PerPage > 0 {
		l.perPage = result.PerPage
	}
	// Server-confirmed bounds correct an out-of-range page request.
	if result.Page > 0 {
		l.page = result.Page
	} else if l.page > l.totalPages {
		l.page = l.totalPages
	}
	l.err = ""
	l.loaded = true
	l.failures = 0
}

func (l *List[T, F]) consecutiveFailures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

// calculateBackoff returns the wait before the next silent refresh: the base
// interval doubled per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if base <= 0 {
		base = defaultRefreshInterval
	}
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
