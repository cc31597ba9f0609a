package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// CatalogAPI is the slice of the backend client the read-only collections
// need.
type CatalogAPI interface {
	ListReleases(ctx context.Context, q soapbox.ReleaseQuery) (soapbox.Page[soapbox.Release], error)
	ListArticles(ctx context.Context, q soapbox.ArticleQuery) (soapbox.Page[soapbox.Article], error)
	GetArticle(ctx context.Context, slug string) (soapbox.Article, error)
	ListCategories(ctx context.Context, kind string) (soapbox.Page[soapbox.Category], error)
}

// ReleaseFilters is empty: the changelog is paged but not filterable.
type ReleaseFilters struct{}

// NewReleases builds the changelog collection, newest release first.
func NewReleases(api CatalogAPI, perPage int, refreshEvery time.Duration, log *zap.Logger) *List[soapbox.Release, ReleaseFilters] {
	fetch := func(ctx context.Context, _ ReleaseFilters, page, perPage int) (soapbox.Page[soapbox.Release], error) {
		return api.ListReleases(ctx, soapbox.ReleaseQuery{Page: page, PerPage: perPage})
	}
	return NewList(ListOptions[soapbox.Release, ReleaseFilters]{
		Fetch:        fetch,
		Key:          func(r soapbox.Release) string { return r.ID },
		PerPage:      perPage,
		RefreshEvery: refreshEvery,
		Log:          log,
	})
}

// ArticleFilters narrows the help-center list.
type ArticleFilters struct {
	Search     string
	CategoryID string
}

// NewArticles builds the help-center article collection.
func NewArticles(api CatalogAPI, perPage int, log *zap.Logger) *List[soapbox.Article, ArticleFilters] {
	fetch := func(ctx context.Context, f ArticleFilters, page, perPage int) (soapbox.Page[soapbox.Article], error) {
		return api.ListArticles(ctx, soapbox.ArticleQuery{
			Search:     f.Search,
			CategoryID: f.CategoryID,
			Page:       page,
			PerPage:    perPage,
		})
	}
	return NewList(ListOptions[soapbox.Article, ArticleFilters]{
		Fetch:   fetch,
		Key:     func(a soapbox.Article) string { return a.Slug },
		PerPage: perPage,
		Log:     log,
	})
}

// CategoryFilters fixes the category kind a collection serves.
type CategoryFilters struct {
	Kind string
}

// NewCategories builds the category collection for one kind ("board" or
// "help"). Categories change rarely; the collection fetches once on Start.
func NewCategories(api CatalogAPI, kind string, log *zap.Logger) *List[soapbox.Category, CategoryFilters] {
	fetch := func(ctx context.Context, f CategoryFilters, _, _ int) (soapbox.Page[soapbox.Category], error) {
		return api.ListCategories(ctx, f.Kind)
	}
	return NewList(ListOptions[soapbox.Category, CategoryFilters]{
		Fetch:   fetch,
		Key:     func(c soapbox.Category) string { return c.ID },
		Filters: CategoryFilters{Kind: kind},
		PerPage: 100,
		Log:     log,
	})
}

// ArticleReader loads one article at a time for the help-center detail pane.
// List payloads carry only the summary; the full body comes from the
// per-article read. Stale reads are discarded, so paging quickly through
// articles always renders the one opened last.
type ArticleReader struct {
	api CatalogAPI
	log *zap.Logger

	mu         sync.Mutex
	article    soapbox.Article
	hasArticle bool
	loading    bool
	err        string
	generation uint64
}

// ArticleSnapshot is a point-in-time copy of the reader state.
type ArticleSnapshot struct {
	Article    soapbox.Article
	HasArticle bool
	Loading    bool
	Err        string
}

// NewArticleReader builds an ArticleReader.
func NewArticleReader(api CatalogAPI, log *zap.Logger) *ArticleReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArticleReader{api: api, log: log}
}

// Open fetches the article with the given slug. Blocks until the read
// finishes; the result is discarded if another Open started meanwhile.
func (r *ArticleReader) Open(ctx context.Context, slug string) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.loading = true
	r.err = ""
	r.mu.Unlock()

	article, err := r.api.GetArticle(ctx, slug)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.log.Debug("discarding stale article read", zap.String("slug", slug))
		return
	}
	r.loading = false
	if err != nil {
		r.err = displayError(err)
		r.log.Warn("article read failed", zap.String("slug", slug), zap.Error(err))
		return
	}
	r.article = article
	r.hasArticle = true
}

// Close clears the reader so the next Open starts from a blank pane.
func (r *ArticleReader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.article = soapbox.Article{}
	r.hasArticle = false
	r.loading = false
	r.err = ""
}

// Snapshot returns a copy of the current reader state.
func (r *ArticleReader) Snapshot() ArticleSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ArticleSnapshot{
		Article:    r.article,
		HasArticle: r.hasArticle,
		Loading:    r.loading,
		Err:        r.err,
	}
}
