package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// releaseState holds releases view state.
type releaseState struct {
	selectedRow int
	selectedID  string
	focusedPane int // 0 = list, 1 = notes

	pager        paginator.Model
	notes        viewport.Model
	notesRelease string // release whose notes the viewport holds
}

// initReleaseState initializes the releases view widgets.
func (m *Model) initReleaseState() {
	pg := paginator.New()
	pg.Type = paginator.Arabic
	m.releaseState = releaseState{pager: pg}
}

// layoutReleases resizes the releases panes.
func (m *Model) layoutReleases() {
	st := &m.releaseState

	listWidth := m.width * 40 / 100
	contentHeight := m.height - 2

	st.notes.Width = m.width - listWidth - 4
	st.notes.Height = contentHeight - 2

	releases := m.snap.releases
	st.pager.TotalPages = maxInt(releases.TotalPages, 1)
	st.pager.Page = clampInt(releases.Page-1, 0, st.pager.TotalPages-1)

	m.updateNotesViewport()
}

// syncReleaseSelection keeps the selection on the same release across
// refetches.
func (m *Model) syncReleaseSelection() {
	st := &m.releaseState
	items := m.snap.releases.Items

	if len(items) == 0 {
		st.selectedRow = 0
		st.selectedID = ""
		return
	}

	if st.selectedID != "" {
		for i, r := range items {
			if r.ID == st.selectedID {
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

// selectedRelease returns the release under the cursor, or nil.
func (m Model) selectedRelease() *soapbox.Release {
	items := m.snap.releases.Items
	if len(items) == 0 || m.releaseState.selectedRow >= len(items) {
		return nil
	}
	return &items[m.releaseState.selectedRow]
}

// handleReleasesKey processes keyboard input for the releases view.
func (m Model) handleReleasesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.releaseState

	switch {
	case key.Matches(msg, m.keys.FocusLeft):
		st.focusedPane = 0
		m.updateNotesViewport()
		return m, nil

	case key.Matches(msg, m.keys.FocusRight):
		st.focusedPane = 1
		m.updateNotesViewport()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.stepReleasePage(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.stepReleasePage(1)
		return m, nil
	}

	if st.focusedPane == 1 {
		switch {
		case key.Matches(msg, m.keys.Down):
			st.notes.LineDown(1)
		case key.Matches(msg, m.keys.Up):
			st.notes.LineUp(1)
		case key.Matches(msg, m.keys.Top):
			st.notes.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			st.notes.GotoBottom()
		case key.Matches(msg, m.keys.HalfPageDown):
			st.notes.HalfViewDown()
		case key.Matches(msg, m.keys.HalfPageUp):
			st.notes.HalfViewUp()
		}
		return m, nil
	}

	items := m.snap.releases.Items
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveReleaseSelection(st.selectedRow + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveReleaseSelection(st.selectedRow - 1)
	case key.Matches(msg, m.keys.Top):
		m.moveReleaseSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveReleaseSelection(len(items) - 1)
	}

	return m, nil
}

// moveReleaseSelection moves the cursor and refreshes the notes pane.
func (m *Model) moveReleaseSelection(row int) {
	items := m.snap.releases.Items
	if len(items) == 0 {
		return
	}

	row = clampInt(row, 0, len(items)-1)
	if row == m.releaseState.selectedRow {
		return
	}

	m.releaseState.selectedRow = row
	m.releaseState.selectedID = items[row].ID
	m.updateNotesViewport()
}

// stepReleasePage moves one page forward or back.
func (m *Model) stepReleasePage(delta int) {
	if m.releases == nil {
		return
	}
	releases := m.snap.releases
	next := clampInt(releases.Page+delta, 1, maxInt(releases.TotalPages, 1))
	if next == releases.Page {
		return
	}
	m.releaseState.selectedRow = 0
	m.releaseState.selectedID = ""
	m.releases.SetPage(m.ctx, next)
}

// updateNotesViewport rebuilds the notes pane for the selected release.
func (m *Model) updateNotesViewport() {
	st := &m.releaseState

	r := m.selectedRelease()
	if r == nil {
		st.notes.SetContent("")
		st.notesRelease = ""
		return
	}

	bgColor := m.theme.SurfaceAlt
	if st.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}

	st.notes.SetContent(m.renderReleaseNotes(*r, st.notes.Width, bgColor))
	if r.ID != st.notesRelease {
		st.notesRelease = r.ID
		st.notes.GotoTop()
	}
}

// renderReleases renders the releases view: version list plus notes pane.
func (m Model) renderReleases() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2

	releases := m.snap.releases
	if releases.Loading && len(releases.Items) == 0 {
		loading := m.spin.View() + " " + styles.MutedText.Render("Loading releases...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loading)
	}

	listWidth := m.width * 40 / 100
	notesWidth := m.width - listWidth

	listFocused := m.releaseState.focusedPane == 0
	listContent := m.renderReleaseList(listWidth-2, contentHeight-2, listFocused)
	listTitle := fmt.Sprintf("Releases (%d)", releases.Total)
	listPane := m.renderTitledBox(listTitle, listContent, listWidth, contentHeight, listFocused)

	notesFocused := m.releaseState.focusedPane == 1
	var notesContent string
	notesTitle := "Release notes"
	if r := m.selectedRelease(); r != nil {
		notesTitle = versionLabel(*r)
		notesContent = " " + strings.ReplaceAll(m.releaseState.notes.View(), "\n", "\n ")
	} else {
		notesContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Render("No releases yet")
	}
	notesPane := m.renderTitledBox(notesTitle, notesContent, notesWidth, contentHeight, notesFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, notesPane)
}

// renderReleaseList renders the release rows plus pager footer.
func (m Model) renderReleaseList(width, height int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	releases := m.snap.releases

	if len(releases.Items) == 0 {
		return bg.Render(" No releases yet", styles.MutedText)
	}

	var lines []string
	rowBudget := height - 1 // reserve the pager line
	first := listWindow(m.releaseState.selectedRow, len(releases.Items), rowBudget)

	for i := first; i < len(releases.Items) && i < first+rowBudget; i++ {
		r := releases.Items[i]
		selected := i == m.releaseState.selectedRow

		rowBg := bgColor
		versionStyle := styles.AccentText
		titleStyle := styles.Text
		ageStyle := styles.FaintText
		if selected {
			rowBg = m.theme.SelectionBg
			sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			versionStyle, titleStyle, ageStyle = sel.Bold(true), sel, sel
		}
		row := NewBgStyle(rowBg)

		version := versionLabel(r)
		age := relativeTime(r.ParsedPublishedAt())
		titleWidth := maxInt(width-len(version)-len(age)-4, 8)

		content := row.Render(" "+version, versionStyle) + row.Space() +
			row.Render(truncate(r.Title, titleWidth), titleStyle) + row.Space() +
			row.Render(age, ageStyle)

		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}

	if releases.TotalPages > 1 {
		lines = append(lines, bg.Render(fmt.Sprintf(" Page %s", m.releaseState.pager.View()), styles.FaintText))
	}

	return strings.Join(lines, "\n")
}

// renderReleaseNotes builds the notes pane content for one release.
func (m Model) renderReleaseNotes(r soapbox.Release, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))
	chipStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.Info)).
		Padding(0, 1)

	var lines []string

	for _, l := range wrapText(r.Title, wrap) {
		lines = append(lines, bg.Render(l, titleStyle))
	}

	meta := []string{bg.Render(versionLabel(r), styles.AccentText)}
	if t := r.ParsedPublishedAt(); !t.IsZero() {
		meta = append(meta, bg.Render(relativeTime(t), styles.FaintText))
	}
	lines = append(lines, bg.Join(meta, "  "))

	if len(r.Tags) > 0 {
		chips := make([]string, 0, len(r.Tags))
		for _, tag := range r.Tags {
			chips = append(chips, chipStyle.Render(tag))
		}
		lines = append(lines, strings.Join(chips, bg.Space()))
	}

	lines = append(lines, bg.Render(strings.Repeat("─", wrap), styles.FaintText))

	if strings.TrimSpace(r.Body) == "" {
		lines = append(lines, bg.Render("No notes for this release.", styles.FaintText))
	} else {
		for _, l := range wrapText(r.Body, wrap) {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}

	for i, l := range lines {
		lines[i] = bg.FillLine(l, width)
	}
	return strings.Join(lines, "\n")
}

// versionLabel formats a release version with a leading v.
func versionLabel(r soapbox.Release) string {
	if r.Version == "" {
		return truncate(r.Title, 16)
	}
	if strings.HasPrefix(r.Version, "v") {
		return r.Version
	}
	return "v" + r.Version
}
