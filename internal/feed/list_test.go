package feed

import (
	"context"
	"testing"
	"time"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// fetchCall is one invocation of a stub fetch function. The test decides
// when and with what each call completes, so response ordering is fully
// scripted.
type fetchCall struct {
	filters BoardFilters
	page    int
	perPage int
	reply   chan fetchReply
}

type fetchReply struct {
	page soapbox.Page[soapbox.Wish]
	err  error
}

func newScriptedList(t *testing.T) (*List[soapbox.Wish, BoardFilters], chan fetchCall) {
	t.Helper()
	calls := make(chan fetchCall, 8)
	fetch := func(ctx context.Context, f BoardFilters, page, perPage int) (soapbox.Page[soapbox.Wish], error) {
		call := fetchCall{filters: f, page: page, perPage: perPage, reply: make(chan fetchReply, 1)}
		calls <- call
		select {
		case res := <-call.reply:
			return res.page, res.err
		case <-ctx.Done():
			return soapbox.Page[soapbox.Wish]{}, ctx.Err()
		}
	}
	l := NewList(ListOptions[soapbox.Wish, BoardFilters]{
		Fetch:   fetch,
		Key:     wishKey,
		PerPage: 10,
	})
	return l, calls
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func nextCall(t *testing.T, calls chan fetchCall) fetchCall {
	t.Helper()
	select {
	case call := <-calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch call")
		return fetchCall{}
	}
}

func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func wishPage(total, page, perPage, totalPages int, ids ...string) soapbox.Page[soapbox.Wish] {
	items := make([]soapbox.Wish, 0, len(ids))
	for _, id := range ids {
		items = append(items, soapbox.Wish{ID: id, Title: "wish " + id, VoteCount: 1})
	}
	return soapbox.Page[soapbox.Wish]{Items: items, Total: total, Page: page, PerPage: perPage, TotalPages: totalPages}
}

func TestList_InitialLoadThenSilentRefresh(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.Refetch(ctx)
	call := nextCall(t, calls)
	if call.page != 1 || call.perPage != 10 {
		t.Fatalf("initial fetch = page %d perPage %d, want 1/10", call.page, call.perPage)
	}

	// First load for this combination: the loading flag is up.
	waitFor(t, "loading flag", func() bool { return l.Snapshot().Loading })

	call.reply <- fetchReply{page: wishPage(25, 1, 10, 3, "w1", "w2")}
	waitFor(t, "initial items", func() bool { return len(l.Snapshot().Items) == 2 })

	snap := l.Snapshot()
	if snap.Loading {
		t.Fatal("Loading = true after load completed")
	}
	if snap.Total != 25 || snap.TotalPages != 3 || snap.Page != 1 {
		t.Fatalf("pagination = %d/%d/%d, want total 25 pages 3 page 1", snap.Total, snap.TotalPages, snap.Page)
	}

	// Refetching an already-loaded combination refreshes silently.
	l.Refetch(ctx)
	call = nextCall(t, calls)
	if snap := l.Snapshot(); snap.Loading {
		t.Fatal("Loading = true during silent refresh")
	}
	if snap := l.Snapshot(); len(snap.Items) != 2 {
		t.Fatalf("items dropped during silent refresh: %d", len(snap.Items))
	}
	call.reply <- fetchReply{page: wishPage(26, 1, 10, 3, "w1", "w2", "w3")}
	waitFor(t, "refreshed items", func() bool { return len(l.Snapshot().Items) == 3 })
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.Refetch(ctx)
	first := nextCall(t, calls)

	// A newer fetch supersedes the one still in flight.
	l.SetPage(ctx, 2)
	second := nextCall(t, calls)
	if second.page != 2 {
		t.Fatalf("second fetch page = %d, want 2", second.page)
	}

	second.reply <- fetchReply{page: wishPage(25, 2, 10, 3, "w11", "w12")}
	waitFor(t, "page 2 items", func() bool {
		snap := l.Snapshot()
		return len(snap.Items) == 2 && snap.Items[0].ID == "w11"
	})

	// The stale response arrives last and must not win.
	first.reply <- fetchReply{page: wishPage(25, 1, 10, 3, "w1", "w2")}
	time.Sleep(30 * time.Millisecond)

	snap := l.Snapshot()
	if snap.Page != 2 || snap.Items[0].ID != "w11" {
		t.Fatalf("stale response overwrote newer data: page %d, first item %q", snap.Page, snap.Items[0].ID)
	}
}

func TestList_SetFiltersResetsPage(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.SetPage(ctx, 3)
	call := nextCall(t, calls)
	if call.page != 3 {
		t.Fatalf("fetch page = %d, want 3", call.page)
	}
	call.reply <- fetchReply{page: wishPage(50, 3, 10, 5, "w21")}
	waitFor(t, "page 3", func() bool { return l.Snapshot().Page == 3 })

	l.SetFilters(ctx, func(f BoardFilters) BoardFilters {
		f.Search = "dark mode"
		return f
	})
	call = nextCall(t, calls)
	if call.page != 1 {
		t.Fatalf("fetch page after filter change = %d, want 1", call.page)
	}
	if call.filters.Search != "dark mode" {
		t.Fatalf("fetch search = %q, want %q", call.filters.Search, "dark mode")
	}
	if got := l.Filters().Search; got != "dark mode" {
		t.Fatalf("Filters().Search = %q, want %q", got, "dark mode")
	}
}

func TestList_ServerConfirmedPageWins(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	// The setter trusts the caller; the server's answer corrects the page.
	l.SetPage(ctx, 99)
	call := nextCall(t, calls)
	if call.page != 99 {
		t.Fatalf("fetch page = %d, want 99", call.page)
	}
	call.reply <- fetchReply{page: wishPage(42, 5, 10, 5, "w41")}
	waitFor(t, "clamped page", func() bool { return l.Snapshot().Page == 5 })

	snap := l.Snapshot()
	if snap.TotalPages != 5 {
		t.Fatalf("TotalPages = %d, want 5", snap.TotalPages)
	}
}

func TestList_ErrorKeepsPreviousDataAndCountsFailures(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.Refetch(ctx)
	call := nextCall(t, calls)
	call.reply <- fetchReply{page: wishPage(2, 1, 10, 1, "w1", "w2")}
	waitFor(t, "initial items", func() bool { return len(l.Snapshot().Items) == 2 })

	// First failure: data stays, error recorded, not yet offline.
	l.Refetch(ctx)
	call = nextCall(t, calls)
	call.reply <- fetchReply{err: &soapbox.APIError{Code: soapbox.CodeNetwork, Message: "dial tcp: connection refused"}}
	waitFor(t, "first failure", func() bool { return l.Snapshot().ConsecutiveFailures == 1 })

	snap := l.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("items dropped on error: %d, want 2", len(snap.Items))
	}
	if snap.Err != "Cannot reach the server" {
		t.Fatalf("Err = %q, want %q", snap.Err, "Cannot reach the server")
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true after one failure, want false")
	}

	// Second failure crosses the offline threshold.
	l.Refetch(ctx)
	call = nextCall(t, calls)
	call.reply <- fetchReply{err: &soapbox.APIError{Code: soapbox.CodeNetwork, Message: "dial tcp: connection refused"}}
	waitFor(t, "second failure", func() bool { return l.Snapshot().ConsecutiveFailures == 2 })
	if !l.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false after two failures, want true")
	}

	// A success clears the error and the counter.
	l.Refetch(ctx)
	call = nextCall(t, calls)
	call.reply <- fetchReply{page: wishPage(2, 1, 10, 1, "w1", "w2")}
	waitFor(t, "recovery", func() bool { return l.Snapshot().ConsecutiveFailures == 0 })
	if snap := l.Snapshot(); snap.Err != "" || snap.IsOffline() {
		t.Fatalf("after recovery Err = %q IsOffline = %v, want clean", snap.Err, snap.IsOffline())
	}
}

func TestList_PatchAndFind(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.Refetch(ctx)
	call := nextCall(t, calls)
	call.reply <- fetchReply{page: wishPage(2, 1, 10, 1, "w1", "w2")}
	waitFor(t, "items", func() bool { return len(l.Snapshot().Items) == 2 })

	if !l.Patch("w2", func(w *soapbox.Wish) { w.VoteCount = 7 }) {
		t.Fatal("Patch(w2) = false, want true")
	}
	wish, ok := l.Find("w2")
	if !ok || wish.VoteCount != 7 {
		t.Fatalf("Find(w2) = %+v ok=%v, want VoteCount 7", wish, ok)
	}
	if l.Patch("missing", func(w *soapbox.Wish) {}) {
		t.Fatal("Patch(missing) = true, want false")
	}
	if _, ok := l.Find("missing"); ok {
		t.Fatal("Find(missing) = true, want false")
	}
}

func TestList_SnapshotClonesItems(t *testing.T) {
	t.Parallel()
	l, calls := newScriptedList(t)
	ctx := testContext(t)

	l.Refetch(ctx)
	call := nextCall(t, calls)
	call.reply <- fetchReply{page: wishPage(1, 1, 10, 1, "w1")}
	waitFor(t, "items", func() bool { return len(l.Snapshot().Items) == 1 })

	snap := l.Snapshot()
	snap.Items[0].VoteCount = 999

	if again := l.Snapshot(); again.Items[0].VoteCount != 1 {
		t.Fatalf("snapshot mutation leaked into the list: VoteCount = %d, want 1", again.Items[0].VoteCount)
	}
}

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}
