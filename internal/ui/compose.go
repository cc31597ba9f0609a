package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soapboxhq/holler/internal/prefs"
	"github.com/soapboxhq/holler/internal/soapbox"
)

// composer is the modal for writing a comment on the open thread.
type composer struct {
	open     bool
	body     textarea.Model
	author   textinput.Model
	focusIdx int // 0 = body, 1 = author
	err      string
}

// initComposer initializes the comment composer widgets.
func (m *Model) initComposer() {
	ta := textarea.New()
	ta.Placeholder = "Add to the discussion..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false

	ti := textinput.New()
	ti.Placeholder = "Anonymous"
	ti.CharLimit = 60

	m.composer = composer{body: ta, author: ti}
}

// layoutComposer sizes the composer fields to the modal width.
func (m *Model) layoutComposer() {
	inner := m.modalWidth() - 4
	m.composer.body.SetWidth(inner)
	m.composer.body.SetHeight(clampInt(m.height-14, 3, 8))
	m.composer.author.Width = inner - 3
}

// openComposer opens the composer for the current thread.
func (m *Model) openComposer() {
	if m.thread == nil {
		return
	}
	f := &m.composer
	f.open = true
	f.err = ""
	f.focusIdx = 0
	f.body.Reset()
	f.author.SetValue(m.prefs.Name)
	f.body.Focus()
	f.author.Blur()
	m.layoutComposer()
}

// closeComposer closes the composer and drops its state.
func (m *Model) closeComposer() {
	f := &m.composer
	f.open = false
	f.err = ""
	f.body.Blur()
	f.author.Blur()
}

// focusComposerField moves focus between the body and name fields.
func (m *Model) focusComposerField(idx int) {
	f := &m.composer
	f.focusIdx = idx
	if idx == 0 {
		f.body.Focus()
		f.author.Blur()
	} else {
		f.body.Blur()
		f.author.Focus()
	}
}

// handleComposerKey handles keyboard input while the composer is open.
func (m Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.composer

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeComposer()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitComment()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.focusComposerField((f.focusIdx + 1) % 2)
		return m, nil

	case key.Matches(msg, m.keys.Confirm) && f.focusIdx == 1:
		// Enter in the name field submits
		return m.submitComment()
	}

	var cmd tea.Cmd
	if f.focusIdx == 0 {
		f.body, cmd = f.body.Update(msg)
	} else {
		f.author, cmd = f.author.Update(msg)
	}
	return m, cmd
}

// submitComment validates the composer and dispatches the submission. The
// author name is remembered for next time.
func (m Model) submitComment() (tea.Model, tea.Cmd) {
	f := &m.composer
	if m.thread == nil || m.snap.thread.Submitting {
		return m, nil
	}

	body := strings.TrimSpace(f.body.Value())
	if body == "" {
		f.err = "Say something first"
		return m, nil
	}

	f.err = ""
	author := strings.TrimSpace(f.author.Value())
	if author != m.prefs.Name {
		m.prefs.Name = author
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
	return m, submitCommentCmd(m.ctx, m.thread, body, author)
}

// boardWish looks up a wish on the current board page by id.
func (m Model) boardWish(id string) (soapbox.Wish, bool) {
	for _, w := range m.snap.board.Items {
		if w.ID == id {
			return w, true
		}
	}
	return soapbox.Wish{}, false
}

// renderComposer renders the comment modal centered over the screen.
func (m Model) renderComposer() string {
	styles := m.theme.Styles()
	f := m.composer

	label := func(focused bool, text string) string {
		if focused {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Accent)).Render("Add a comment"))
	if m.thread != nil {
		if w, ok := m.boardWish(m.thread.WishID()); ok {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render("on " + truncate(w.Title, m.modalWidth()-8)))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(label(f.focusIdx == 0, "Comment"))
	b.WriteString("\n")
	b.WriteString(f.body.View())
	b.WriteString("\n\n")
	b.WriteString(label(f.focusIdx == 1, "Name (optional)"))
	b.WriteString("\n")
	b.WriteString(f.author.View())

	if m.snap.thread.Submitting {
		b.WriteString("\n\n")
		b.WriteString(m.spin.View() + " " + styles.WarningText.Render("Posting..."))
	} else if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render("! " + f.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("ctrl+s post · tab switch field · esc cancel"))

	box := lipgloss.NewStyle().
		Width(m.modalWidth()).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)))
}
