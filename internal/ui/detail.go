package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// updateDetailViewport rebuilds the detail pane content for the selected
// wish. Scroll position is kept unless the selection moved to another wish.
func (m *Model) updateDetailViewport() {
	st := &m.boardState

	w := m.selectedWish()
	if w == nil {
		st.detail.SetContent("")
		st.detailWish = ""
		return
	}

	bgColor := m.theme.SurfaceAlt
	if st.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}

	st.detail.SetContent(m.renderDetailContent(*w, st.detail.Width, bgColor))
	if w.ID != st.detailWish {
		st.detailWish = w.ID
		st.detail.GotoTop()
	}
}

// renderDetailContent builds the full detail text for one wish: title, meta
// line, vote tally, body, and the comment thread when one is open.
func (m Model) renderDetailContent(w soapbox.Wish, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))
	separator := bg.Render(strings.Repeat("─", wrap), styles.FaintText)

	var lines []string

	// Title
	for _, l := range wrapText(w.Title, wrap) {
		lines = append(lines, bg.Render(l, titleStyle))
	}

	// Meta: status badge, category, author, age
	meta := []string{styles.StatusStyle(w.Status).Render(titleCase(w.Status))}
	if w.Category.Name != "" {
		meta = append(meta, bg.Render(w.Category.Name, styles.InfoText))
	}
	author := w.AuthorName
	if author == "" {
		author = "anonymous"
	}
	meta = append(meta, bg.Render(author, styles.MutedText))
	meta = append(meta, bg.Render(relativeTime(w.ParsedCreatedAt()), styles.FaintText))
	lines = append(lines, bg.Join(meta, "  "))

	// Vote tally
	votes := fmt.Sprintf("▲ %d votes", w.VoteCount)
	voteStyle := styles.MutedText
	switch {
	case m.votes != nil && m.votes.Pending(w.ID):
		votes += " (updating...)"
		voteStyle = styles.WarningText
	case w.HasVoted:
		votes += " — you voted"
		voteStyle = styles.SuccessText
	}
	lines = append(lines, bg.Render(votes, voteStyle))

	lines = append(lines, separator)

	// Body
	if strings.TrimSpace(w.Body) == "" {
		lines = append(lines, bg.Render("No description provided.", styles.FaintText))
	} else {
		for _, l := range wrapText(w.Body, wrap) {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}

	// Comment thread
	if m.thread != nil && m.snap.threadWish == w.ID {
		lines = append(lines, "", separator)
		lines = append(lines, m.renderThreadLines(wrap, bg)...)
	} else if w.CommentCount > 0 {
		lines = append(lines, "")
		hint := fmt.Sprintf("Press enter to read %d comments", w.CommentCount)
		if w.CommentCount == 1 {
			hint = "Press enter to read 1 comment"
		}
		lines = append(lines, bg.Render(hint, styles.FaintText))
	}

	// Fill each line so the pane background is continuous
	for i, l := range lines {
		lines[i] = bg.FillLine(l, width)
	}
	return strings.Join(lines, "\n")
}

// renderThreadLines renders the open comment thread, oldest first.
func (m Model) renderThreadLines(wrap int, bg BgStyle) []string {
	styles := m.theme.Styles()
	thread := m.snap.thread

	header := fmt.Sprintf("Comments (%d)", thread.Total)
	lines := []string{bg.Render(header, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Accent)))}

	if thread.Err != "" {
		lines = append(lines, bg.Render("! "+truncate(thread.Err, wrap-2), styles.DangerText))
	}

	if thread.Loading && len(thread.Comments) == 0 {
		lines = append(lines, bg.Render("Loading comments...", styles.MutedText))
		return lines
	}

	if len(thread.Comments) == 0 && thread.Err == "" {
		lines = append(lines, bg.Render("No comments yet. Press c to start the discussion.", styles.FaintText))
		return lines
	}

	for _, c := range thread.Comments {
		author := c.AuthorName
		if author == "" {
			author = "anonymous"
		}

		head := []string{bg.Render(author, styles.AccentText)}
		if c.Pending {
			head = append(head, bg.Render("sending...", styles.WarningText))
		} else {
			head = append(head, bg.Render(relativeTime(c.ParsedCreatedAt()), styles.FaintText))
		}
		lines = append(lines, "", bg.Join(head, "  "))

		for _, l := range wrapText(c.Body, wrap) {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}

	if thread.TotalPages > 1 {
		lines = append(lines, "", bg.Render(fmt.Sprintf("Showing latest page of %d", thread.TotalPages), styles.FaintText))
	}

	return lines
}

// handleDetailScroll processes scroll keys while the detail pane is focused.
func (m Model) handleDetailScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.boardState

	switch {
	case key.Matches(msg, m.keys.Down):
		st.detail.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		st.detail.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		st.detail.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		st.detail.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		st.detail.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		st.detail.HalfViewUp()
	}

	return m, nil
}
