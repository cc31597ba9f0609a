package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// VoteAPI is the slice of the backend client the vote coordinator needs.
type VoteAPI interface {
	CreateVote(ctx context.Context, wishID, fingerprint string) (soapbox.Vote, error)
	DeleteVote(ctx context.Context, voteID string) (soapbox.Ack, error)
}

type voteDirection int

const (
	directionVote voteDirection = iota
	directionUnvote
)

// pendingVote tracks one in-flight vote mutation. applied is the count delta
// currently reflected in the live board entry; it is what a rollback undoes,
// so a rollback restores exactly the pre-toggle numbers even when clamping
// prevented part of the optimistic change from landing.
type pendingVote struct {
	direction voteDirection
	applied   int
}

// Votes coordinates optimistic vote toggles against the board.
//
// A toggle patches the live board entry first and talks to the backend
// second, so the change is visible immediately. On success the server's vote
// handle is recorded; on failure the patch is rolled back exactly and the
// error is surfaced. While a mutation is in flight the pending patch is
// re-applied over every refetch result via the board's ingest hook, so a
// concurrent silent refresh cannot clobber it. At most one mutation per wish
// is in flight: toggles for a wish that already has one are dropped.
type Votes struct {
	api         VoteAPI
	board       *List[soapbox.Wish, BoardFilters]
	fingerprint string
	log         *zap.Logger

	// mu is a leaf lock: it is taken while the board lock is held (from the
	// ingest hook) and is never held across calls into the board or the
	// network.
	mu      sync.Mutex
	pending map[string]*pendingVote
	voteIDs map[string]string // wish id → vote handle, for unvotes after a payload omitted vote_id
	lastErr string
}

// NewVotes builds the vote coordinator for a board and installs its ingest
// hook on the underlying list.
func NewVotes(api VoteAPI, board *List[soapbox.Wish, BoardFilters], fingerprint string, log *zap.Logger) *Votes {
	if log == nil {
		log = zap.NewNop()
	}
	v := &Votes{
		api:         api,
		board:       board,
		fingerprint: fingerprint,
		log:         log,
		pending:     make(map[string]*pendingVote),
		voteIDs:     make(map[string]string),
	}
	board.SetIngest(v.reapply)
	return v
}

// Pending reports whether a vote mutation for the wish is in flight.
func (v *Votes) Pending(wishID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.pending[wishID]
	return ok
}

// TakeError returns the most recent mutation error and clears it. The caller
// owns how long to display it.
func (v *Votes) TakeError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	msg := v.lastErr
	v.lastErr = ""
	return msg
}

// Toggle votes for the wish if the current identity has not voted, and
// removes the vote otherwise. It blocks until the backend confirms or
// rejects the mutation; the optimistic patch is visible in board snapshots
// for the whole duration. A toggle for a wish with a mutation already in
// flight is ignored.
func (v *Votes) Toggle(ctx context.Context, wishID string) {
	wish, ok := v.board.Find(wishID)
	if !ok {
		v.log.Warn("toggle for unknown wish", zap.String("wish_id", wishID))
		return
	}

	direction := directionVote
	if wish.HasVoted {
		direction = directionUnvote
	}

	voteID := wish.VoteID
	v.mu.Lock()
	if _, inFlight := v.pending[wishID]; inFlight {
		v.mu.Unlock()
		v.log.Debug("vote toggle ignored, mutation in flight", zap.String("wish_id", wishID))
		return
	}
	if voteID == "" {
		voteID = v.voteIDs[wishID]
	}
	pending := &pendingVote{direction: direction}
	v.pending[wishID] = pending
	v.mu.Unlock()

	if direction == directionUnvote && voteID == "" {
		// Voted according to the payload but the handle never arrived;
		// without it the vote cannot be deleted. No optimistic change to
		// undo, so just surface the problem.
		v.finish(wishID, "This vote cannot be removed right now")
		v.log.Warn("unvote without vote id", zap.String("wish_id", wishID))
		return
	}

	v.board.Patch(wishID, func(w *soapbox.Wish) {
		v.mu.Lock()
		pending.applied = v.applyOptimistic(w, direction)
		v.mu.Unlock()
	})

	switch direction {
	case directionVote:
		v.create(ctx, wishID, pending)
	default:
		v.remove(ctx, wishID, voteID, pending)
	}
}

func (v *Votes) create(ctx context.Context, wishID string, pending *pendingVote) {
	vote, err := v.api.CreateVote(ctx, wishID, v.fingerprint)
	if err != nil {
		v.rollback(wishID, pending, err)
		return
	}

	v.mu.Lock()
	delete(v.pending, wishID)
	v.voteIDs[wishID] = vote.ID
	v.mu.Unlock()

	v.board.Patch(wishID, func(w *soapbox.Wish) {
		if !w.HasVoted {
			w.HasVoted = true
			w.VoteCount++
		}
		w.VoteID = vote.ID
	})
}

func (v *Votes) remove(ctx context.Context, wishID, voteID string, pending *pendingVote) {
	if _, err := v.api.DeleteVote(ctx, voteID); err != nil {
		v.rollback(wishID, pending, err)
		return
	}

	v.mu.Lock()
	delete(v.pending, wishID)
	delete(v.voteIDs, wishID)
	v.mu.Unlock()

	v.board.Patch(wishID, func(w *soapbox.Wish) {
		if w.HasVoted {
			w.HasVoted = false
			w.VoteCount = clampCount(w.VoteCount-1, v.log, wishID)
		}
		w.VoteID = ""
	})
}

// rollback undoes the optimistic patch exactly and records the error.
func (v *Votes) rollback(wishID string, pending *pendingVote, cause error) {
	v.board.Patch(wishID, func(w *soapbox.Wish) {
		v.mu.Lock()
		w.VoteCount = clampCount(w.VoteCount-pending.applied, v.log, wishID)
		w.HasVoted = pending.direction == directionUnvote
		v.mu.Unlock()
	})
	v.finish(wishID, displayError(cause))
	v.log.Warn("vote mutation failed, rolled back",
		zap.String("wish_id", wishID),
		zap.Error(cause))
}

func (v *Votes) finish(wishID, errMsg string) {
	v.mu.Lock()
	delete(v.pending, wishID)
	v.lastErr = errMsg
	v.mu.Unlock()
}

// reapply runs under the board lock on every successful fetch and overlays
// the in-flight mutations onto the incoming entries, recomputing each
// pending delta against the fresh server numbers.
func (v *Votes) reapply(items []soapbox.Wish) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.pending) == 0 {
		return
	}
	for i := range items {
		pending, ok := v.pending[items[i].ID]
		if !ok {
			continue
		}
		pending.applied = v.applyOptimistic(&items[i], pending.direction)
	}
}

// applyOptimistic patches one entry toward the pending direction and returns
// the count delta actually applied. It is idempotent: the voted bit guards
// the count change, so re-applying over an entry the server already counted
// does not double it. Callers hold v.mu.
func (v *Votes) applyOptimistic(w *soapbox.Wish, direction voteDirection) int {
	switch direction {
	case directionVote:
		if w.HasVoted {
			return 0
		}
		w.HasVoted = true
		w.VoteCount++
		return 1
	default:
		if !w.HasVoted {
			return 0
		}
		w.HasVoted = false
		before := w.VoteCount
		w.VoteCount = clampCount(before-1, v.log, w.ID)
		return w.VoteCount - before
	}
}

// clampCount floors a vote count at zero. A negative count means the local
// bookkeeping and the server disagree; it is logged rather than rendered.
func clampCount(n int, log *zap.Logger, wishID string) int {
	if n < 0 {
		log.Warn("vote count underflow clamped",
			zap.String("wish_id", wishID),
			zap.Int("count", n))
		return 0
	}
	return n
}
