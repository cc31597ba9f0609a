package feed

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// BoardAPI is the slice of the backend client the wish collections need.
type BoardAPI interface {
	ListWishes(ctx context.Context, q soapbox.WishQuery) (soapbox.Page[soapbox.Wish], error)
	CreateWish(ctx context.Context, nw soapbox.NewWish) (soapbox.Wish, error)
}

// BoardFilters selects which wishes the board shows.
type BoardFilters struct {
	Statuses   []string
	CategoryID string
	Search     string
	Sort       string
	Order      string
}

// Board is the wish list plus its submission state.
type Board struct {
	*List[soapbox.Wish, BoardFilters]

	api         BoardAPI
	fingerprint string
	log         *zap.Logger

	submit submitState
}

// BoardOptions configure a Board.
type BoardOptions struct {
	API          BoardAPI
	Fingerprint  string
	PerPage      int
	RefreshEvery time.Duration
	Log          *zap.Logger
}

// NewBoard builds the main wish board: newest first, all statuses, silently
// refreshed on the configured cadence.
func NewBoard(opts BoardOptions) *Board {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	b := &Board{
		api:         opts.API,
		fingerprint: opts.Fingerprint,
		log:         opts.Log,
	}
	b.List = NewList(ListOptions[soapbox.Wish, BoardFilters]{
		Fetch:        b.fetchPage,
		Key:          wishKey,
		Filters:      BoardFilters{Sort: soapbox.SortNewest, Order: soapbox.OrderDesc},
		PerPage:      opts.PerPage,
		RefreshEvery: opts.RefreshEvery,
		Log:          opts.Log,
	})
	return b
}

func (b *Board) fetchPage(ctx context.Context, f BoardFilters, page, perPage int) (soapbox.Page[soapbox.Wish], error) {
	return b.api.ListWishes(ctx, soapbox.WishQuery{
		Statuses:    f.Statuses,
		CategoryID:  f.CategoryID,
		Search:      f.Search,
		Sort:        f.Sort,
		Order:       f.Order,
		Page:        page,
		PerPage:     perPage,
		Fingerprint: b.fingerprint,
	})
}

// Submitting reports whether a wish submission is in flight.
func (b *Board) Submitting() bool {
	return b.submit.inFlight()
}

// TakeSubmitError returns the most recent submission error and clears it.
func (b *Board) TakeSubmitError() string {
	return b.submit.takeError()
}

// SubmitWish creates a wish and refetches the board so the new entry shows
// up with server-assigned fields. Blocks until the backend answers; at most
// one submission runs at a time.
func (b *Board) SubmitWish(ctx context.Context, title, body, categoryID string) bool {
	if !b.submit.begin() {
		b.log.Debug("wish submission ignored, one already in flight")
		return false
	}
	title = strings.TrimSpace(title)
	if title == "" {
		b.submit.fail("Title is required")
		return false
	}

	wish, err := b.api.CreateWish(ctx, soapbox.NewWish{
		Title:       title,
		Body:        strings.TrimSpace(body),
		CategoryID:  categoryID,
		Fingerprint: b.fingerprint,
	})
	if err != nil {
		b.submit.fail(displayError(err))
		b.log.Warn("wish submission failed", zap.Error(err))
		return false
	}

	b.submit.succeed()
	b.log.Info("wish submitted", zap.String("wish_id", wish.ID))
	b.Refetch(ctx)
	return true
}

// NewRoadmap builds the roadmap collection: every wish in a roadmap status,
// most votes first, one wide page grouped into columns by the caller.
func NewRoadmap(api BoardAPI, fingerprint string, refreshEvery time.Duration, log *zap.Logger) *List[soapbox.Wish, BoardFilters] {
	fetch := func(ctx context.Context, f BoardFilters, page, perPage int) (soapbox.Page[soapbox.Wish], error) {
		return api.ListWishes(ctx, soapbox.WishQuery{
			Statuses:    f.Statuses,
			Sort:        f.Sort,
			Order:       f.Order,
			Page:        page,
			PerPage:     perPage,
			Fingerprint: fingerprint,
		})
	}
	return NewList(ListOptions[soapbox.Wish, BoardFilters]{
		Fetch: fetch,
		Key:   wishKey,
		Filters: BoardFilters{
			Statuses: soapbox.RoadmapStatuses,
			Sort:     soapbox.SortVotes,
			Order:    soapbox.OrderDesc,
		},
		PerPage:      100,
		RefreshEvery: refreshEvery,
		Log:          log,
	})
}

func wishKey(w soapbox.Wish) string { return w.ID }
