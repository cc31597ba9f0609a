package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/feed"
	"github.com/soapboxhq/holler/internal/soapbox"
)

// sortCycle is the order the board's sort key toggles through.
var sortCycle = []string{soapbox.SortNewest, soapbox.SortVotes, soapbox.SortComments}

// statusCycle is the order the board's status filter toggles through.
// The empty entry means "all statuses".
var statusCycle = []string{
	"",
	soapbox.StatusOpen,
	soapbox.StatusPlanned,
	soapbox.StatusInProgress,
	soapbox.StatusDone,
	soapbox.StatusClosed,
}

// boardState holds board view state.
type boardState struct {
	selectedRow int
	selectedID  string // preserved across refetches
	focusedPane int    // 0 = list, 1 = detail

	searchActive  bool
	searchInput   textinput.Model
	appliedSearch string

	pager      paginator.Model
	detail     viewport.Model
	detailWish string // wish whose content the detail viewport holds
}

// initBoardState initializes the board view widgets.
func (m *Model) initBoardState() {
	ti := textinput.New()
	ti.Placeholder = "Search wishes..."
	ti.CharLimit = 100
	ti.Prompt = "/"

	pg := paginator.New()
	pg.Type = paginator.Arabic

	m.boardState = boardState{
		searchInput: ti,
		pager:       pg,
	}
}

// layoutBoard resizes the board panes and refreshes derived widget state.
func (m *Model) layoutBoard() {
	st := &m.boardState

	_, detailWidth := m.boardPaneWidths()
	contentHeight := m.height - 2

	st.detail.Width = detailWidth - 4 // borders plus one cell of padding
	st.detail.Height = contentHeight - 2

	board := m.snap.board
	st.pager.TotalPages = maxInt(board.TotalPages, 1)
	st.pager.Page = clampInt(board.Page-1, 0, st.pager.TotalPages-1)

	m.updateDetailViewport()
}

// boardPaneWidths returns the list and detail pane widths.
// Extra wide terminals give the detail pane more room.
func (m Model) boardPaneWidths() (listWidth, detailWidth int) {
	if m.width >= wideLayoutMinWidth {
		listWidth = m.width * 30 / 100
	} else {
		listWidth = m.width * 40 / 100
	}
	return listWidth, m.width - listWidth
}

// syncBoardSelection keeps the selection on the same wish across refetches,
// clamping when the wish left the page.
func (m *Model) syncBoardSelection() {
	st := &m.boardState
	items := m.snap.board.Items

	if len(items) == 0 {
		st.selectedRow = 0
		st.selectedID = ""
		return
	}

	if st.selectedID != "" {
		for i, w := range items {
			if w.ID == st.selectedID {
				st.selectedRow = i
				return
			}
		}
	}

	if st.selectedRow >= len(items) {
		st.selectedRow = len(items) - 1
	}
	st.selectedID = items[st.selectedRow].ID
}

// selectedWish returns the wish under the cursor, or nil.
func (m Model) selectedWish() *soapbox.Wish {
	items := m.snap.board.Items
	if len(items) == 0 || m.boardState.selectedRow >= len(items) {
		return nil
	}
	return &items[m.boardState.selectedRow]
}

// handleBoardKey processes keyboard input for the board view.
func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.thread != nil {
			m.closeThread()
			return m, nil
		}
		if m.boardState.appliedSearch != "" {
			m.clearBoardSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.boardState.searchActive = true
		m.boardState.searchInput.SetValue(m.boardState.appliedSearch)
		m.boardState.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Vote):
		return m.voteSelected()

	case key.Matches(msg, m.keys.OpenThread):
		return m.openSelectedThread()

	case key.Matches(msg, m.keys.Compose):
		if m.thread != nil {
			m.openComposer()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewWish):
		m.openWishForm()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.cycleSort()
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		m.cycleStatus()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.stepBoardPage(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.stepBoardPage(1)
		return m, nil

	case key.Matches(msg, m.keys.FocusLeft):
		m.boardState.focusedPane = 0
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.FocusRight):
		m.boardState.focusedPane = 1
		m.updateDetailViewport()
		return m, nil
	}

	// Remaining navigation depends on the focused pane
	if m.boardState.focusedPane == 1 {
		return m.handleDetailScroll(msg)
	}

	itemCount := len(m.snap.board.Items)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveBoardSelection(m.boardState.selectedRow + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveBoardSelection(m.boardState.selectedRow - 1)
	case key.Matches(msg, m.keys.Top):
		m.moveBoardSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveBoardSelection(itemCount - 1)
	}

	return m, nil
}

// handleBoardSearchKey handles keyboard input while the search field is open.
func (m Model) handleBoardSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.boardState

	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(st.searchInput.Value())
		st.searchActive = false
		st.searchInput.Blur()
		if query == st.appliedSearch {
			return m, nil
		}
		st.appliedSearch = query
		if m.board != nil {
			m.board.SetFilters(m.ctx, func(f feed.BoardFilters) feed.BoardFilters {
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

// moveBoardSelection moves the cursor, closing any open thread since it
// belongs to the previous wish.
func (m *Model) moveBoardSelection(row int) {
	items := m.snap.board.Items
	if len(items) == 0 {
		return
	}

	row = clampInt(row, 0, len(items)-1)
	if row == m.boardState.selectedRow {
		return
	}

	m.boardState.selectedRow = row
	m.boardState.selectedID = items[row].ID
	m.closeThread()
	m.updateDetailViewport()
}

// closeThread drops the open comment thread, if any.
func (m *Model) closeThread() {
	if m.thread == nil {
		return
	}
	m.thread = nil
	m.snap.thread = feed.ThreadSnapshot{}
	m.snap.threadWish = ""
	m.updateDetailViewport()
}

// voteSelected dispatches a vote toggle for the wish under the cursor.
func (m Model) voteSelected() (tea.Model, tea.Cmd) {
	w := m.selectedWish()
	if w == nil || m.votes == nil {
		return m, nil
	}
	return m, toggleVoteCmd(m.ctx, m.votes, w.ID)
}

// openSelectedThread opens the comment thread for the wish under the cursor.
func (m Model) openSelectedThread() (tea.Model, tea.Cmd) {
	w := m.selectedWish()
	if w == nil || m.newThread == nil {
		return m, nil
	}
	if m.thread != nil && m.thread.WishID() == w.ID {
		return m, nil // already open
	}

	m.thread = m.newThread(w.ID)
	m.snap.thread = feed.ThreadSnapshot{Loading: true}
	m.snap.threadWish = w.ID
	m.boardState.focusedPane = 1
	m.updateDetailViewport()
	return m, loadThreadCmd(m.ctx, m.thread)
}

// cycleSort advances the board sort key.
func (m *Model) cycleSort() {
	if m.board == nil {
		return
	}
	current := m.board.Filters().Sort
	next := sortCycle[0]
	for i, s := range sortCycle {
		if s == current {
			next = sortCycle[(i+1)%len(sortCycle)]
			break
		}
	}
	m.board.SetFilters(m.ctx, func(f feed.BoardFilters) feed.BoardFilters {
		f.Sort = next
		f.Order = soapbox.OrderDesc
		return f
	})
}

// cycleStatus advances the board status filter.
func (m *Model) cycleStatus() {
	if m.board == nil {
		return
	}
	current := ""
	if statuses := m.board.Filters().Statuses; len(statuses) > 0 {
		current = statuses[0]
	}
	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == current {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}
	m.board.SetFilters(m.ctx, func(f feed.BoardFilters) feed.BoardFilters {
		if next == "" {
			f.Statuses = nil
		} else {
			f.Statuses = []string{next}
		}
		return f
	})
}

// clearBoardSearch removes the active search filter.
func (m *Model) clearBoardSearch() {
	m.boardState.appliedSearch = ""
	m.boardState.searchInput.SetValue("")
	if m.board != nil {
		m.board.SetFilters(m.ctx, func(f feed.BoardFilters) feed.BoardFilters {
			f.Search = ""
			return f
		})
	}
}

// stepBoardPage moves one page forward or back.
func (m *Model) stepBoardPage(delta int) {
	if m.board == nil {
		return
	}
	board := m.snap.board
	next := clampInt(board.Page+delta, 1, maxInt(board.TotalPages, 1))
	if next == board.Page {
		return
	}
	m.boardState.selectedRow = 0
	m.boardState.selectedID = ""
	m.board.SetPage(m.ctx, next)
}

// sortLabel returns the command bar label for the current sort key.
func (m Model) sortLabel() string {
	if m.board == nil {
		return "Newest"
	}
	switch m.board.Filters().Sort {
	case soapbox.SortVotes:
		return "Top"
	case soapbox.SortComments:
		return "Discussed"
	default:
		return "Newest"
	}
}

// statusLabel returns the command bar label for the current status filter.
func (m Model) statusLabel() string {
	if m.board == nil {
		return "All"
	}
	statuses := m.board.Filters().Statuses
	if len(statuses) == 0 {
		return "All"
	}
	return titleCase(statuses[0])
}

// renderBoard renders the board view with split layout (list + detail).
func (m Model) renderBoard() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // Account for header + cmdbar

	board := m.snap.board
	if board.Loading && len(board.Items) == 0 {
		loading := m.spin.View() + " " + styles.MutedText.Render("Loading the board...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loading)
	}

	listWidth, detailWidth := m.boardPaneWidths()

	// === List pane ===
	listFocused := m.boardState.focusedPane == 0
	listBg := m.theme.SurfaceAlt
	if listFocused {
		listBg = m.theme.FocusBg
	}
	listContent := m.renderWishList(listWidth-2, contentHeight-2, listBg)
	listPane := m.renderTitledBox(m.boardTitle(), listContent, listWidth, contentHeight, listFocused)

	// === Detail pane ===
	detailFocused := m.boardState.focusedPane == 1
	detailBg := m.theme.SurfaceAlt
	if detailFocused {
		detailBg = m.theme.FocusBg
	}
	var detailContent string
	if m.selectedWish() != nil {
		detailContent = " " + strings.ReplaceAll(m.boardState.detail.View(), "\n", "\n ")
	} else {
		detailContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(detailBg)).
			Render("Select a wish")
	}
	detailPane := m.renderTitledBox(m.detailTitle(), detailContent, detailWidth, contentHeight, detailFocused)

	// Join side-by-side
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// boardTitle returns the list pane title with filter indicators.
func (m Model) boardTitle() string {
	board := m.snap.board

	label := fmt.Sprintf("Wishes (%d)", board.Total)
	if status := m.statusLabel(); status != "All" {
		label += " " + status
	}
	if m.boardState.appliedSearch != "" {
		label += " (filtered)"
	}
	return label
}

// detailTitle returns the detail pane title.
func (m Model) detailTitle() string {
	if m.thread != nil {
		return fmt.Sprintf("Discussion (%d)", m.snap.thread.Total)
	}
	return "Details"
}

// renderWishList renders the wish rows plus search field and pager.
func (m Model) renderWishList(width, height int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	board := m.snap.board

	var lines []string

	// Inline search field
	if m.boardState.searchActive {
		lines = append(lines, bg.FillLine(m.boardState.searchInput.View(), width))
	}

	if len(board.Items) == 0 {
		empty := "No wishes yet"
		if m.boardState.appliedSearch != "" || m.statusLabel() != "All" {
			empty = "Nothing matches the current filters"
		}
		lines = append(lines, bg.Render(" "+empty, styles.MutedText))
		return strings.Join(lines, "\n")
	}

	// Visible window keeps the cursor on screen
	rowBudget := height - len(lines) - 1 // reserve the pager line
	first := listWindow(m.boardState.selectedRow, len(board.Items), rowBudget)

	for i := first; i < len(board.Items) && i < first+rowBudget; i++ {
		w := board.Items[i]
		if i == m.boardState.selectedRow {
			content := m.formatWishRow(w, width, m.theme.SelectionBg, true)
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Width(width).
				Render(content))
		} else {
			content := m.formatWishRow(w, width, bgColor, false)
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(bgColor)).
				Width(width).
				Render(content))
		}
	}

	// Pager footer
	if board.TotalPages > 1 {
		footer := fmt.Sprintf("Page %s", m.boardState.pager.View())
		lines = append(lines, bg.Render(" "+footer, styles.FaintText))
	}

	return strings.Join(lines, "\n")
}

// formatWishRow formats one wish row: vote badge, title, status.
func (m Model) formatWishRow(w soapbox.Wish, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	voteStr := fmt.Sprintf("▲%-4d", w.VoteCount)

	statusParts := []string{titleCase(w.Status)}
	if w.CommentCount > 0 {
		statusParts = append(statusParts, fmt.Sprintf("%dc", w.CommentCount))
	}
	statusStr := strings.Join(statusParts, " ")

	separatorLen := 3 // " · "
	titleWidth := maxInt(width-len(voteStr)-len(statusStr)-separatorLen-2, 10)

	// Selected rows use SelectionText for contrast; others use themed colors
	var voteStyle, titleStyle, sepStyle, statusStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		voteStyle = selText
		titleStyle = selText
		sepStyle = selText
		statusStyle = selText
		if w.HasVoted {
			voteStyle = voteStyle.Bold(true)
		}
	} else {
		styles := m.theme.Styles()
		voteStyle = styles.MutedText
		if w.HasVoted {
			voteStyle = styles.AccentText.Bold(true)
		}
		if m.votes != nil && m.votes.Pending(w.ID) {
			voteStyle = styles.WarningText
		}
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(w.Status)))
	}

	votePart := bg.Render(voteStr, voteStyle)
	titlePart := bg.Render(truncate(w.Title, titleWidth), titleStyle)
	sepPart := bg.Render(" · ", sepStyle)
	statusPart := bg.Render(statusStr, statusStyle)

	return votePart + bg.Space() + titlePart + sepPart + statusPart
}

// colorForStatus returns the theme color for a given wish status.
func (m Model) colorForStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// renderTitledBox renders content in a box with the title embedded in the top
// border: ┌─── Title ───┐. When focused, uses BorderFocus and FocusBg colors.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Top border with embedded title
	innerWidth := width - 2 // Account for left and right border chars
	titleLen := len([]rune(title))
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	// Side borders plus content background
	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2 // -2 for top and bottom borders

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// listWindow returns the first visible row index so that the selected row
// stays within a window of budget rows over n rows.
func listWindow(selected, n, budget int) int {
	if budget <= 0 || n <= budget {
		return 0
	}
	if selected < budget {
		return 0
	}
	first := selected - budget + 1
	if first > n-budget {
		first = n - budget
	}
	return first
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
