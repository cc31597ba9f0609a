package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// ThreadAPI is the slice of the backend client a wish thread needs.
type ThreadAPI interface {
	GetWish(ctx context.Context, id, fingerprint string) (soapbox.Wish, error)
	ListComments(ctx context.Context, wishID string) (soapbox.Page[soapbox.Comment], error)
	CreateComment(ctx context.Context, wishID string, comment soapbox.NewComment) (soapbox.Comment, error)
}

// Thread is one wish opened for reading: its comment list plus an optimistic
// comment composer. Opening a thread also re-reads the wish itself and pushes
// the fresh content fields into the originating list, so the detail pane and
// the board never drift apart.
//
// A submitted comment appears immediately as a pending entry at the top of
// the list. Confirmation swaps the placeholder for the server's record;
// rejection removes it and surfaces the error. The pending entry survives a
// concurrent reload. One submission per thread runs at a time.
type Thread struct {
	api         ThreadAPI
	origin      *List[soapbox.Wish, BoardFilters]
	wishID      string
	fingerprint string
	log         *zap.Logger

	mu         sync.Mutex
	comments   []soapbox.Comment
	total      int
	totalPages int
	loaded     bool
	loading    bool
	err        string
	generation uint64
	pending    *soapbox.Comment

	submit submitState
}

// ThreadSnapshot is a point-in-time copy of the thread state.
type ThreadSnapshot struct {
	Comments   []soapbox.Comment
	Total      int
	TotalPages int
	Loading    bool
	Err        string
	Submitting bool
}

// NewThread builds the thread for a wish. origin is the list the wish was
// opened from; fresh wish content is patched back into it on every load.
func NewThread(api ThreadAPI, origin *List[soapbox.Wish, BoardFilters], wishID, fingerprint string, log *zap.Logger) *Thread {
	if log == nil {
		log = zap.NewNop()
	}
	return &Thread{
		api:         api,
		origin:      origin,
		wishID:      wishID,
		fingerprint: fingerprint,
		log:         log,
		totalPages:  1,
	}
}

// WishID returns the id of the wish this thread belongs to.
func (t *Thread) WishID() string { return t.wishID }

// Load fetches the wish and its comments. The comment list shows a loading
// state only on the first load; later calls refresh silently. Blocks until
// both reads finish.
func (t *Thread) Load(ctx context.Context) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.loading = !t.loaded
	t.mu.Unlock()

	t.refreshWish(ctx)

	page, err := t.api.ListComments(ctx, t.wishID)
	t.applyComments(gen, page, err)
}

// refreshWish re-reads the wish and pushes its content fields into the
// originating list. Vote fields are left alone; those belong to the vote
// coordinator. A failed read is logged and skipped, the stale entry stays.
func (t *Thread) refreshWish(ctx context.Context) {
	wish, err := t.api.GetWish(ctx, t.wishID, t.fingerprint)
	if err != nil {
		t.log.Debug("wish refresh failed", zap.String("wish_id", t.wishID), zap.Error(err))
		return
	}
	t.origin.Patch(t.wishID, func(w *soapbox.Wish) {
		w.Title = wish.Title
		w.Body = wish.Body
		w.Status = wish.Status
		w.Category = wish.Category
		w.CommentCount = wish.CommentCount
		w.AuthorName = wish.AuthorName
		w.UpdatedAt = wish.UpdatedAt
	})
}

func (t *Thread) applyComments(gen uint64, page soapbox.Page[soapbox.Comment], err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		t.log.Debug("discarding stale comment load", zap.String("wish_id", t.wishID))
		return
	}
	t.loading = false

	if err != nil {
		t.err = displayError(err)
		t.log.Warn("comment load failed", zap.String("wish_id", t.wishID), zap.Error(err))
		return
	}

	comments := page.Items
	total := page.Total
	if t.pending != nil {
		// Keep the unconfirmed submission on top of the fresh list.
		comments = append([]soapbox.Comment{*t.pending}, comments...)
		total++
	}
	t.comments = comments
	t.total = total
	t.totalPages = page.TotalPages
	if t.totalPages < 1 {
		t.totalPages = 1
	}
	t.err = ""
	t.loaded = true
}

// Submitting reports whether a comment submission is in flight.
func (t *Thread) Submitting() bool {
	return t.submit.inFlight()
}

// TakeSubmitError returns the most recent submission error and clears it.
func (t *Thread) TakeSubmitError() string {
	return t.submit.takeError()
}

// Submit posts a comment. The comment shows up immediately as a pending
// entry; the server's record replaces it on success, failure removes it and
// surfaces the error. Blocks until the backend answers. Returns whether the
// comment was confirmed.
func (t *Thread) Submit(ctx context.Context, body, author string) bool {
	body = strings.TrimSpace(body)
	author = strings.TrimSpace(author)
	if body == "" {
		t.submit.fail("Comment cannot be empty")
		return false
	}
	if !t.submit.begin() {
		t.log.Debug("comment submission ignored, one already in flight", zap.String("wish_id", t.wishID))
		return false
	}

	placeholder := soapbox.Comment{
		ID:         "pending-" + uuid.NewString(),
		WishID:     t.wishID,
		Body:       body,
		AuthorName: author,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Pending:    true,
	}
	if placeholder.AuthorName == "" {
		placeholder.AuthorName = "Anonymous"
	}

	t.mu.Lock()
	t.pending = &placeholder
	t.comments = append([]soapbox.Comment{placeholder}, t.comments...)
	t.total++
	t.mu.Unlock()

	confirmed, err := t.api.CreateComment(ctx, t.wishID, soapbox.NewComment{
		Body:        body,
		AuthorName:  author,
		Fingerprint: t.fingerprint,
	})
	if err != nil {
		t.mu.Lock()
		t.pending = nil
		t.comments = removeComment(t.comments, placeholder.ID)
		t.total = len(t.comments)
		t.mu.Unlock()
		t.submit.fail(displayError(err))
		t.log.Warn("comment submission failed", zap.String("wish_id", t.wishID), zap.Error(err))
		return false
	}

	t.mu.Lock()
	t.pending = nil
	t.comments = removeComment(t.comments, placeholder.ID)
	if !containsComment(t.comments, confirmed.ID) {
		t.comments = append([]soapbox.Comment{confirmed}, t.comments...)
	}
	t.total = len(t.comments)
	t.mu.Unlock()

	t.origin.Patch(t.wishID, func(w *soapbox.Wish) {
		w.CommentCount++
	})
	t.submit.succeed()
	return true
}

// Snapshot returns a copy of the current thread state.
func (t *Thread) Snapshot() ThreadSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ThreadSnapshot{
		Comments:   cloneItems(t.comments),
		Total:      t.total,
		TotalPages: t.totalPages,
		Loading:    t.loading,
		Err:        t.err,
		Submitting: t.submit.inFlight(),
	}
}

func removeComment(comments []soapbox.Comment, id string) []soapbox.Comment {
	for i := range comments {
		if comments[i].ID == id {
			return append(comments[:i:i], comments[i+1:]...)
		}
	}
	return comments
}

func containsComment(comments []soapbox.Comment, id string) bool {
	for _, c := range comments {
		if c.ID == id {
			return true
		}
	}
	return false
}
