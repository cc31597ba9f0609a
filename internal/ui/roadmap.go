package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// roadmapState holds roadmap view state. The roadmap is read-only: one
// column per status, h/l to switch columns, j/k to walk the cards.
type roadmapState struct {
	selectedCol int
	selectedRow int
}

// groupByStatus buckets wishes into the roadmap columns, preserving order.
// Wishes outside the roadmap statuses are dropped.
func groupByStatus(items []soapbox.Wish) [][]soapbox.Wish {
	groups := make([][]soapbox.Wish, len(soapbox.RoadmapStatuses))
	for _, w := range items {
		for i, s := range soapbox.RoadmapStatuses {
			if w.Status == s {
				groups[i] = append(groups[i], w)
				break
			}
		}
	}
	return groups
}

// syncRoadmapSelection clamps the selection after a data change.
func (m *Model) syncRoadmapSelection() {
	groups := groupByStatus(m.snap.roadmap.Items)
	st := &m.roadmapState
	st.selectedCol = clampInt(st.selectedCol, 0, len(groups)-1)
	st.selectedRow = clampInt(st.selectedRow, 0, maxInt(len(groups[st.selectedCol])-1, 0))
}

// handleRoadmapKey processes keyboard input for the roadmap view.
func (m Model) handleRoadmapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.roadmapState
	groups := groupByStatus(m.snap.roadmap.Items)

	clampRow := func() {
		n := len(groups[st.selectedCol])
		st.selectedRow = clampInt(st.selectedRow, 0, maxInt(n-1, 0))
	}

	switch {
	case key.Matches(msg, m.keys.FocusLeft):
		st.selectedCol = clampInt(st.selectedCol-1, 0, len(groups)-1)
		clampRow()
	case key.Matches(msg, m.keys.FocusRight):
		st.selectedCol = clampInt(st.selectedCol+1, 0, len(groups)-1)
		clampRow()
	case key.Matches(msg, m.keys.Down):
		st.selectedRow++
		clampRow()
	case key.Matches(msg, m.keys.Up):
		st.selectedRow--
		clampRow()
	case key.Matches(msg, m.keys.Top):
		st.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		st.selectedRow = maxInt(len(groups[st.selectedCol])-1, 0)
	}

	return m, nil
}

// renderRoadmap renders the three status columns side by side.
func (m Model) renderRoadmap() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2

	snap := m.snap.roadmap
	if snap.Loading && len(snap.Items) == 0 {
		loading := m.spin.View() + " " + styles.MutedText.Render("Loading the roadmap...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loading)
	}

	groups := groupByStatus(snap.Items)
	colWidth := m.width / 3

	cols := make([]string, 0, len(soapbox.RoadmapStatuses))
	for i, status := range soapbox.RoadmapStatuses {
		width := colWidth
		if i == len(soapbox.RoadmapStatuses)-1 {
			// Last column absorbs the rounding remainder
			width = m.width - colWidth*(len(soapbox.RoadmapStatuses)-1)
		}
		focused := m.roadmapState.selectedCol == i
		title := fmt.Sprintf("%s (%d)", titleCase(status), len(groups[i]))
		content := m.renderRoadmapColumn(groups[i], width-2, contentHeight-2, focused)
		cols = append(cols, m.renderTitledBox(title, content, width, contentHeight, focused))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderRoadmapColumn renders the cards of one status column.
func (m Model) renderRoadmapColumn(items []soapbox.Wish, width, height int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	if len(items) == 0 {
		return bg.Render(" Nothing here yet", styles.FaintText)
	}

	const cardRows = 3 // title line, meta line, gap
	budget := maxInt(height/cardRows, 1)
	first := 0
	if focused {
		first = listWindow(m.roadmapState.selectedRow, len(items), budget)
	}

	var lines []string
	for i := first; i < len(items) && i < first+budget; i++ {
		w := items[i]
		selected := focused && i == m.roadmapState.selectedRow

		rowBg := bgColor
		titleStyle := styles.Text
		metaStyle := styles.FaintText
		voteStyle := styles.MutedText
		if w.HasVoted {
			voteStyle = styles.AccentText
		}
		if selected {
			rowBg = m.theme.SelectionBg
			sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			titleStyle, metaStyle, voteStyle = sel, sel, sel
		}
		rowStyle := lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width)
		row := NewBgStyle(rowBg)

		vote := fmt.Sprintf("▲%-4d", w.VoteCount)
		title := truncate(w.Title, maxInt(width-len(vote)-2, 8))
		lines = append(lines, rowStyle.Render(row.Render(" "+vote, voteStyle)+row.Render(title, titleStyle)))

		meta := w.Category.Name
		if meta == "" {
			meta = relativeTime(w.ParsedUpdatedAt())
		}
		lines = append(lines, rowStyle.Render(row.Render("      "+truncate(meta, maxInt(width-7, 8)), metaStyle)))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
