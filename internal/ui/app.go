package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/config"
	"github.com/soapboxhq/holler/internal/feed"
	"github.com/soapboxhq/holler/internal/prefs"
	"github.com/soapboxhq/holler/internal/soapbox"
)

// View represents the current active view.
type View int

const (
	ViewBoard View = iota
	ViewRoadmap
	ViewReleases
	ViewHelpCenter
	ViewSupport
)

var viewOrder = []View{ViewBoard, ViewRoadmap, ViewReleases, ViewHelpCenter, ViewSupport}

const (
	// Layout thresholds
	wideLayoutMinWidth = 160
	compactHeaderWidth = 100

	// Transient header errors expire after this long.
	flashTTL = 6 * time.Second
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Config     *config.Config
	Board      *feed.Board
	Votes      *feed.Votes
	Roadmap    *feed.List[soapbox.Wish, feed.BoardFilters]
	Releases   *feed.List[soapbox.Release, feed.ReleaseFilters]
	Articles   *feed.List[soapbox.Article, feed.ArticleFilters]
	Categories *feed.List[soapbox.Category, feed.CategoryFilters]
	Reader     *feed.ArticleReader
	Tickets    *feed.Tickets

	// NewThread opens a comment thread controller bound to the board list.
	NewThread func(wishID string) *feed.Thread

	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	Log       *zap.Logger
}

// snapshot bundles every controller's published state for one render pass.
type snapshot struct {
	board      feed.ListSnapshot[soapbox.Wish]
	roadmap    feed.ListSnapshot[soapbox.Wish]
	releases   feed.ListSnapshot[soapbox.Release]
	articles   feed.ListSnapshot[soapbox.Article]
	categories feed.ListSnapshot[soapbox.Category]
	article    feed.ArticleSnapshot
	thread     feed.ThreadSnapshot
	threadWish string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	cfg       *config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	log       *zap.Logger
	keys      keyMap

	// Controllers. Their fetch goroutines run independently; the UI only
	// reads snapshots and calls mutation methods from commands.
	board      *feed.Board
	votes      *feed.Votes
	roadmap    *feed.List[soapbox.Wish, feed.BoardFilters]
	releases   *feed.List[soapbox.Release, feed.ReleaseFilters]
	articles   *feed.List[soapbox.Article, feed.ArticleFilters]
	categories *feed.List[soapbox.Category, feed.CategoryFilters]
	reader     *feed.ArticleReader
	tickets    *feed.Tickets
	newThread  func(wishID string) *feed.Thread

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	spin        spinner.Model
	showHelp    bool
	flash       string // transient mutation error shown in the header
	flashAt     time.Time

	// Data state
	snap        snapshot
	lastUpdated time.Time

	// Board state
	boardState boardState
	thread     *feed.Thread // open comment thread, nil when closed

	// Roadmap state
	roadmapState roadmapState

	// Releases state
	releaseState releaseState

	// Help center state
	helpState helpState

	// Forms
	wishForm   wishForm
	composer   composer
	ticketForm ticketForm
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		// Snapshots are cheap in-memory copies, so poll fast enough that
		// optimistic updates paint promptly.
		pollTick = 250 * time.Millisecond
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	theme := GetTheme(opts.Prefs.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	return Model{
		ctx:        ctx,
		cfg:        opts.Config,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		log:        log,
		keys:       DefaultKeyMap(),
		board:      opts.Board,
		votes:      opts.Votes,
		roadmap:    opts.Roadmap,
		releases:   opts.Releases,
		articles:   opts.Articles,
		categories: opts.Categories,
		reader:     opts.Reader,
		tickets:    opts.Tickets,
		newThread:  opts.NewThread,
		theme:      theme,
		spin:       sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.spin.Tick,
	}
	// Fetch a snapshot immediately on start
	if m.board != nil {
		cmds = append(cmds, snapshotCmd(m))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initBoardState()
			m.initReleaseState()
			m.initHelpState()
			m.initWishForm()
			m.initComposer()
			m.initTicketForm()
		}
		m.ready = true
		m.layoutPanes()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case voteDoneMsg:
		if m.votes != nil {
			if errMsg := m.votes.TakeError(); errMsg != "" {
				m.setFlash(errMsg)
			}
		}
		return m.refreshNow()

	case threadReadyMsg:
		return m.refreshNow()

	case wishSavedMsg:
		if m.wishForm.open {
			if msg.ok {
				m.closeWishForm()
			} else if m.board != nil {
				m.wishForm.err = m.board.TakeSubmitError()
			}
		}
		return m.refreshNow()

	case commentSavedMsg:
		if m.composer.open {
			if msg.ok {
				m.closeComposer()
			} else if m.thread != nil {
				m.composer.err = m.thread.TakeSubmitError()
			}
		}
		return m.refreshNow()

	case ticketSavedMsg:
		m.finishTicketSubmit(msg.ok)
		return m.refreshNow()

	case articleReadMsg:
		return m.refreshNow()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Overlays replace the whole frame
	if m.showHelp {
		return m.renderHelp()
	}
	if m.wishForm.open {
		return m.renderWishForm()
	}
	if m.composer.open {
		return m.renderComposer()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay: any key closes it
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Modal forms own the keyboard
	if m.wishForm.open {
		return m.handleWishFormKey(msg)
	}
	if m.composer.open {
		return m.handleComposerKey(msg)
	}

	// Inline search inputs own the keyboard
	if m.currentView == ViewBoard && m.boardState.searchActive {
		return m.handleBoardSearchKey(msg)
	}
	if m.currentView == ViewHelpCenter && m.helpState.searchActive {
		return m.handleHelpSearchKey(msg)
	}

	// The support view is one big form; it routes everything itself
	if m.currentView == ViewSupport {
		return m.handleSupportKey(msg)
	}

	// Global keys
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.cycleTheme()
		return m, nil

	case "tab":
		m.cycleView(1)
		return m, nil

	case "shift+tab":
		m.cycleView(-1)
		return m, nil

	case "1":
		m.currentView = ViewBoard
		return m, nil

	case "2":
		m.currentView = ViewRoadmap
		return m, nil

	case "3":
		m.currentView = ViewReleases
		return m, nil

	case "4":
		m.currentView = ViewHelpCenter
		return m, nil

	case "5":
		m.currentView = ViewSupport
		return m, nil

	case "R":
		m.refetchCurrent()
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewBoard:
		return m.handleBoardKey(msg)
	case ViewRoadmap:
		return m.handleRoadmapKey(msg)
	case ViewReleases:
		return m.handleReleasesKey(msg)
	case ViewHelpCenter:
		return m.handleHelpCenterKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Pull fresh controller state
	if m.board != nil {
		cmds = append(cmds, snapshotCmd(m))
	}

	// Expire the transient header error
	if m.flash != "" && time.Since(m.flashAt) > flashTTL {
		m.flash = ""
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// refreshNow requests an immediate snapshot so mutations paint without
// waiting for the next tick.
func (m Model) refreshNow() (tea.Model, tea.Cmd) {
	if m.board == nil {
		return m, nil
	}
	return m, snapshotCmd(m)
}

// applySnapshot installs fresh controller state and reconciles view state
// that depends on it.
func (m *Model) applySnapshot(snap snapshot) {
	// Drop thread state that belongs to a thread we no longer show
	if m.thread == nil || snap.threadWish != m.thread.WishID() {
		snap.thread = feed.ThreadSnapshot{}
		snap.threadWish = ""
	}

	m.snap = snap
	m.lastUpdated = time.Now()

	m.syncBoardSelection()
	m.syncRoadmapSelection()
	m.syncReleaseSelection()
	m.syncHelpSelection()
	m.layoutPanes()
}

// setFlash shows a transient error in the header.
func (m *Model) setFlash(msg string) {
	m.flash = msg
	m.flashAt = time.Now()
}

// cycleView moves to the next or previous view.
func (m *Model) cycleView(delta int) {
	for i, v := range viewOrder {
		if v == m.currentView {
			m.currentView = viewOrder[(i+delta+len(viewOrder))%len(viewOrder)]
			return
		}
	}
	m.currentView = ViewBoard
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	if m.prefsPath != "" {
		m.prefs.Theme = m.theme.Name
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
}

// refetchCurrent forces a refetch of the active view's list.
func (m *Model) refetchCurrent() {
	switch m.currentView {
	case ViewBoard:
		if m.board != nil {
			m.board.Refetch(m.ctx)
		}
	case ViewRoadmap:
		if m.roadmap != nil {
			m.roadmap.Refetch(m.ctx)
		}
	case ViewReleases:
		if m.releases != nil {
			m.releases.Refetch(m.ctx)
		}
	case ViewHelpCenter:
		if m.articles != nil {
			m.articles.Refetch(m.ctx)
		}
	}
}

// layoutPanes resizes the per-view viewports and widgets after a window
// resize or data change.
func (m *Model) layoutPanes() {
	if !m.ready {
		return
	}
	m.layoutBoard()
	m.layoutReleases()
	m.layoutHelpCenter()
	m.layoutTicketForm()
	m.layoutWishForm()
	m.layoutComposer()
}

// loadingAnything reports whether any visible controller is in its initial
// load, for the header spinner.
func (m Model) loadingAnything() bool {
	if m.snap.board.Loading || m.snap.roadmap.Loading || m.snap.releases.Loading || m.snap.articles.Loading {
		return true
	}
	if m.snap.article.Loading || m.snap.thread.Loading {
		return true
	}
	if m.snap.thread.Submitting {
		return true
	}
	if m.board != nil && m.board.Submitting() {
		return true
	}
	if m.tickets != nil && m.tickets.Submitting() {
		return true
	}
	return false
}

// renderMain renders the full UI frame.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.renderBoard()
	case ViewRoadmap:
		return m.renderRoadmap()
	case ViewReleases:
		return m.renderReleases()
	case ViewHelpCenter:
		return m.renderHelpCenter()
	case ViewSupport:
		return m.renderSupport()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg snapshot

type voteDoneMsg struct{ wishID string }

type threadReadyMsg struct{ wishID string }

type wishSavedMsg struct{ ok bool }

type commentSavedMsg struct {
	ok     bool
	wishID string
}

type ticketSavedMsg struct{ ok bool }

type articleReadMsg struct{ slug string }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// snapshotCmd reads every controller's state off the UI goroutine.
func snapshotCmd(m Model) tea.Cmd {
	thread := m.thread
	return func() tea.Msg {
		msg := snapshotMsg{
			board:      m.board.Snapshot(),
			roadmap:    m.roadmap.Snapshot(),
			releases:   m.releases.Snapshot(),
			articles:   m.articles.Snapshot(),
			categories: m.categories.Snapshot(),
			article:    m.reader.Snapshot(),
		}
		if thread != nil {
			msg.thread = thread.Snapshot()
			msg.threadWish = thread.WishID()
		}
		return tea.Msg(msg)
	}
}

func toggleVoteCmd(ctx context.Context, votes *feed.Votes, wishID string) tea.Cmd {
	return func() tea.Msg {
		votes.Toggle(ctx, wishID)
		return voteDoneMsg{wishID: wishID}
	}
}

func loadThreadCmd(ctx context.Context, thread *feed.Thread) tea.Cmd {
	return func() tea.Msg {
		thread.Load(ctx)
		return threadReadyMsg{wishID: thread.WishID()}
	}
}

func submitWishCmd(ctx context.Context, board *feed.Board, title, body, categoryID string) tea.Cmd {
	return func() tea.Msg {
		return wishSavedMsg{ok: board.SubmitWish(ctx, title, body, categoryID)}
	}
}

func submitCommentCmd(ctx context.Context, thread *feed.Thread, body, author string) tea.Cmd {
	return func() tea.Msg {
		return commentSavedMsg{ok: thread.Submit(ctx, body, author), wishID: thread.WishID()}
	}
}

func submitTicketCmd(ctx context.Context, tickets *feed.Tickets, email, subject, message, attachment string) tea.Cmd {
	return func() tea.Msg {
		return ticketSavedMsg{ok: tickets.Submit(ctx, email, subject, message, attachment)}
	}
}

func openArticleCmd(ctx context.Context, reader *feed.ArticleReader, slug string) tea.Cmd {
	return func() tea.Msg {
		reader.Open(ctx, slug)
		return articleReadMsg{slug: slug}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
