package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/config"
	"github.com/soapboxhq/holler/internal/feed"
	"github.com/soapboxhq/holler/internal/identity"
	"github.com/soapboxhq/holler/internal/logx"
	"github.com/soapboxhq/holler/internal/prefs"
	"github.com/soapboxhq/holler/internal/soapbox"
	"github.com/soapboxhq/holler/internal/ui"
)

// wishCategoryKind selects which categories are offered on the new-wish form.
const wishCategoryKind = "board"

// Options configure the Holler application. Non-empty values override the
// config file and environment.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/holler/prefs.toml
	IdentityPath string // empty uses default ~/.config/holler/identity.toml

	ServerURL string
	Org       string
	Project   string
	Refresh   int // seconds between background refreshes; zero keeps config
	Verbose   bool
}

// Run boots the Holler TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	if cfg.Org == "" || cfg.Project == "" {
		return fmt.Errorf("no project configured: set org and project in %s or pass --org and --project", config.DefaultPath())
	}

	// The TUI owns the terminal, so diagnostics go to a file. An unwritable
	// log path must not keep the app from starting.
	log, closeLog, err := logx.New(cfg.LogFile, opts.Verbose)
	if err != nil {
		log = zap.NewNop()
		closeLog = func() {}
	}
	defer closeLog()

	log.Info("starting holler",
		zap.String("org", cfg.Org),
		zap.String("project", cfg.Project),
		zap.String("server", cfg.ServerURL),
		zap.Int("refresh_seconds", cfg.RefreshSeconds))

	fingerprint := identity.New(opts.IdentityPath, log).Fingerprint()

	api, err := soapbox.NewClient(soapbox.Options{
		BaseURL: cfg.ServerURL,
		Org:     cfg.Org,
		Project: cfg.Project,
	})
	if err != nil {
		return fmt.Errorf("init soapbox client: %w", err)
	}

	refreshEvery := time.Duration(cfg.RefreshSeconds) * time.Second

	board := feed.NewBoard(feed.BoardOptions{
		API:          api,
		Fingerprint:  fingerprint,
		PerPage:      cfg.PerPage,
		RefreshEvery: refreshEvery,
		Log:          log,
	})
	votes := feed.NewVotes(api, board.List, fingerprint, log)
	roadmap := feed.NewRoadmap(api, fingerprint, refreshEvery, log)
	releases := feed.NewReleases(api, cfg.PerPage, refreshEvery, log)
	articles := feed.NewArticles(api, cfg.PerPage, log)
	categories := feed.NewCategories(api, wishCategoryKind, log)
	reader := feed.NewArticleReader(api, log)
	tickets := feed.NewTickets(api, fingerprint, log)

	// Each list fetches and refreshes on its own goroutine from here on.
	board.Start(ctx)
	roadmap.Start(ctx)
	releases.Start(ctx)
	articles.Start(ctx)
	categories.Start(ctx)

	userPrefs := prefs.Load(opts.PrefsPath)

	return ui.Run(ui.Options{
		Context:    ctx,
		Config:     &cfg,
		Board:      board,
		Votes:      votes,
		Roadmap:    roadmap,
		Releases:   releases,
		Articles:   articles,
		Categories: categories,
		Reader:     reader,
		Tickets:    tickets,
		NewThread: func(wishID string) *feed.Thread {
			return feed.NewThread(api, board.List, wishID, fingerprint, log)
		},
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Log:       log,
	})
}

// applyOverrides layers command-line values over the loaded config.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}
	if opts.Org != "" {
		cfg.Org = opts.Org
	}
	if opts.Project != "" {
		cfg.Project = opts.Project
	}
	if opts.Refresh > 0 {
		cfg.RefreshSeconds = opts.Refresh
	}
}
