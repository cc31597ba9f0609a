package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/feed"
	"github.com/soapboxhq/holler/internal/soapbox"
)

// helpState holds help center view state. The view has two modes: the
// article list and a full-width reader for one article.
type helpState struct {
	selectedRow  int
	selectedSlug string
	reading      bool

	searchActive  bool
	searchInput   textinput.Model
	appliedSearch string

	article     viewport.Model
	articleSlug string // slug whose content the reader viewport holds
}

// initHelpState initializes the help center widgets.
func (m *Model) initHelpState() {
	ti := textinput.New()
	ti.Placeholder = "Search articles..."
	ti.CharLimit = 100
	ti.Prompt = "/"

	m.helpState = helpState{searchInput: ti}
}

// layoutHelpCenter resizes the reader viewport.
func (m *Model) layoutHelpCenter() {
	st := &m.helpState
	st.article.Width = m.width - 4
	st.article.Height = m.height - 4
	m.updateArticleViewport()
}

// syncHelpSelection keeps the selection on the same article across
// refetches.
func (m *Model) syncHelpSelection() {
	st := &m.helpState
	items := m.snap.articles.Items

	if len(items) == 0 {
		st.selectedRow = 0
		st.selectedSlug = ""
		return
	}

	if st.selectedSlug != "" {
		for i, a := range items {
			if a.Slug == st.selectedSlug {
				st.selectedRow = i
				return
			}
		}
	}

	if st.selectedRow >= len(items) {
		st.selectedRow = len(items) - 1
	}
	st.selectedSlug = items[st.selectedRow].Slug
}

// selectedArticle returns the article under the cursor, or nil.
func (m Model) selectedArticle() *soapbox.Article {
	items := m.snap.articles.Items
	if len(items) == 0 || m.helpState.selectedRow >= len(items) {
		return nil
	}
	return &items[m.helpState.selectedRow]
}

// handleHelpCenterKey processes keyboard input for the help center view.
func (m Model) handleHelpCenterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.helpState

	if st.reading {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.closeArticle()
		case key.Matches(msg, m.keys.Down):
			st.article.LineDown(1)
		case key.Matches(msg, m.keys.Up):
			st.article.LineUp(1)
		case key.Matches(msg, m.keys.Top):
			st.article.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			st.article.GotoBottom()
		case key.Matches(msg, m.keys.HalfPageDown):
			st.article.HalfViewDown()
		case key.Matches(msg, m.keys.HalfPageUp):
			st.article.HalfViewUp()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		st.searchActive = true
		st.searchInput.SetValue(st.appliedSearch)
		st.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if st.appliedSearch != "" {
			m.clearHelpSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		return m.openSelectedArticle()

	case key.Matches(msg, m.keys.PrevPage):
		m.stepArticlePage(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.stepArticlePage(1)
		return m, nil
	}

	items := m.snap.articles.Items
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveHelpSelection(st.selectedRow + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveHelpSelection(st.selectedRow - 1)
	case key.Matches(msg, m.keys.Top):
		m.moveHelpSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveHelpSelection(len(items) - 1)
	}

	return m, nil
}

// handleHelpSearchKey handles keyboard input while the article search field
// is open.
func (m Model) handleHelpSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.helpState

	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(st.searchInput.Value())
		st.searchActive = false
		st.searchInput.Blur()
		if query == st.appliedSearch {
			return m, nil
		}
		st.appliedSearch = query
		if m.articles != nil {
			m.articles.SetFilters(m.ctx, func(f feed.ArticleFilters) feed.ArticleFilters {
				f.Search = query
				return f
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		st.searchActive = false
		st.searchInput.Blur()
		st.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	st.searchInput, cmd = st.searchInput.Update(msg)
	return m, cmd
}

// moveHelpSelection moves the article cursor.
func (m *Model) moveHelpSelection(row int) {
	items := m.snap.articles.Items
	if len(items) == 0 {
		return
	}
	row = clampInt(row, 0, len(items)-1)
	m.helpState.selectedRow = row
	m.helpState.selectedSlug = items[row].Slug
}

// clearHelpSearch removes the active article search.
func (m *Model) clearHelpSearch() {
	m.helpState.appliedSearch = ""
	m.helpState.searchInput.SetValue("")
	if m.articles != nil {
		m.articles.SetFilters(m.ctx, func(f feed.ArticleFilters) feed.ArticleFilters {
			f.Search = ""
			return f
		})
	}
}

// stepArticlePage moves one page forward or back.
func (m *Model) stepArticlePage(delta int) {
	if m.articles == nil {
		return
	}
	articles := m.snap.articles
	next := clampInt(articles.Page+delta, 1, maxInt(articles.TotalPages, 1))
	if next == articles.Page {
		return
	}
	m.helpState.selectedRow = 0
	m.helpState.selectedSlug = ""
	m.articles.SetPage(m.ctx, next)
}

// openSelectedArticle fetches and shows the article under the cursor.
func (m Model) openSelectedArticle() (tea.Model, tea.Cmd) {
	a := m.selectedArticle()
	if a == nil || m.reader == nil {
		return m, nil
	}
	m.helpState.reading = true
	m.snap.article = feed.ArticleSnapshot{Loading: true}
	m.updateArticleViewport()
	return m, openArticleCmd(m.ctx, m.reader, a.Slug)
}

// closeArticle leaves reading mode and releases the loaded article.
func (m *Model) closeArticle() {
	m.helpState.reading = false
	m.helpState.articleSlug = ""
	if m.reader != nil {
		m.reader.Close()
	}
	m.snap.article = feed.ArticleSnapshot{}
}

// updateArticleViewport rebuilds the reader content from the snapshot.
func (m *Model) updateArticleViewport() {
	st := &m.helpState
	if !st.reading {
		return
	}

	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	snap := m.snap.article

	wrap := st.article.Width - 2
	if wrap < 20 {
		wrap = 20
	}

	var lines []string
	switch {
	case snap.Err != "":
		lines = append(lines, bg.Render("! "+snap.Err, styles.DangerText))
	case snap.Loading || !snap.HasArticle:
		lines = append(lines, bg.Render("Loading article...", styles.MutedText))
	default:
		a := snap.Article
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))
		for _, l := range wrapText(a.Title, wrap) {
			lines = append(lines, bg.Render(l, titleStyle))
		}
		meta := make([]string, 0, 2)
		if a.Category.Name != "" {
			meta = append(meta, bg.Render(a.Category.Name, styles.InfoText))
		}
		if t := a.ParsedUpdatedAt(); !t.IsZero() {
			meta = append(meta, bg.Render("updated "+relativeTime(t), styles.FaintText))
		}
		if len(meta) > 0 {
			lines = append(lines, bg.Join(meta, "  "))
		}
		lines = append(lines, bg.Render(strings.Repeat("─", wrap), styles.FaintText))
		for _, l := range wrapText(a.Body, wrap) {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}

	for i, l := range lines {
		lines[i] = bg.FillLine(l, st.article.Width)
	}

	st.article.SetContent(strings.Join(lines, "\n"))
	if snap.HasArticle && snap.Article.Slug != st.articleSlug {
		st.articleSlug = snap.Article.Slug
		st.article.GotoTop()
	}
}

// renderHelpCenter renders the article list, or the reader when an article
// is open.
func (m Model) renderHelpCenter() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	st := m.helpState

	if st.reading {
		title := "Article"
		if m.snap.article.HasArticle {
			title = truncate(m.snap.article.Article.Title, m.width-10)
		}
		content := " " + strings.ReplaceAll(st.article.View(), "\n", "\n ")
		return m.renderTitledBox(title, content, m.width, contentHeight, true)
	}

	articles := m.snap.articles
	if articles.Loading && len(articles.Items) == 0 {
		loading := m.spin.View() + " " + styles.MutedText.Render("Loading articles...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loading)
	}

	title := fmt.Sprintf("Help center (%d)", articles.Total)
	if st.appliedSearch != "" {
		title += " (filtered)"
	}
	content := m.renderArticleList(m.width-2, contentHeight-2)
	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

// renderArticleList renders two-line article rows plus the search field and
// page footer.
func (m Model) renderArticleList(width, height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	st := m.helpState
	articles := m.snap.articles

	var lines []string

	if st.searchActive {
		lines = append(lines, bg.FillLine(st.searchInput.View(), width))
	}

	if len(articles.Items) == 0 {
		empty := "No articles yet"
		if st.appliedSearch != "" {
			empty = "No articles match your search"
		}
		lines = append(lines, bg.Render(" "+empty, styles.MutedText))
		return strings.Join(lines, "\n")
	}

	const cardRows = 2 // title line, summary line
	budget := maxInt((height-len(lines)-1)/cardRows, 1)
	first := listWindow(st.selectedRow, len(articles.Items), budget)

	for i := first; i < len(articles.Items) && i < first+budget; i++ {
		a := articles.Items[i]
		selected := i == st.selectedRow

		rowBg := m.theme.FocusBg
		titleStyle := styles.Text.Bold(true)
		catStyle := styles.InfoText
		summaryStyle := styles.MutedText
		if selected {
			rowBg = m.theme.SelectionBg
			sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			titleStyle, catStyle, summaryStyle = sel.Bold(true), sel, sel
		}
		rowStyle := lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width)
		row := NewBgStyle(rowBg)

		head := row.Render(" "+truncate(a.Title, maxInt(width-20, 12)), titleStyle)
		if a.Category.Name != "" {
			head += row.Render(" · ", summaryStyle) + row.Render(a.Category.Name, catStyle)
		}
		lines = append(lines, rowStyle.Render(head))
		lines = append(lines, rowStyle.Render(row.Render("   "+truncate(a.Summary, maxInt(width-4, 12)), summaryStyle)))
	}

	if articles.TotalPages > 1 {
		lines = append(lines, bg.Render(fmt.Sprintf(" Page %d/%d", articles.Page, articles.TotalPages), styles.FaintText))
	}

	return strings.Join(lines, "\n")
}
