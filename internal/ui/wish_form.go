package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wishForm is the modal for submitting a new wish.
type wishForm struct {
	open        bool
	title       textinput.Model
	body        textarea.Model
	focusIdx    int // 0 = title, 1 = body
	categoryIdx int // index into the category list, -1 = none
	err         string
}

// initWishForm initializes the new-wish form widgets.
func (m *Model) initWishForm() {
	ti := textinput.New()
	ti.Placeholder = "One-line summary of your wish"
	ti.CharLimit = 120

	ta := textarea.New()
	ta.Placeholder = "What problem would this solve for you?"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false

	m.wishForm = wishForm{title: ti, body: ta, categoryIdx: -1}
}

// modalWidth returns the width for centered form modals.
func (m Model) modalWidth() int {
	return clampInt(m.width-12, 40, 72)
}

// layoutWishForm sizes the form fields to the modal width.
func (m *Model) layoutWishForm() {
	inner := m.modalWidth() - 4 // modal padding
	m.wishForm.title.Width = inner - 3
	m.wishForm.body.SetWidth(inner)
	m.wishForm.body.SetHeight(clampInt(m.height-16, 3, 10))
}

// openWishForm opens the new-wish modal with empty fields.
func (m *Model) openWishForm() {
	f := &m.wishForm
	f.open = true
	f.err = ""
	f.focusIdx = 0
	f.categoryIdx = -1
	f.title.SetValue("")
	f.body.Reset()
	f.title.Focus()
	f.body.Blur()
	m.layoutWishForm()
}

// closeWishForm closes the modal and drops its state.
func (m *Model) closeWishForm() {
	f := &m.wishForm
	f.open = false
	f.err = ""
	f.title.Blur()
	f.body.Blur()
}

// focusWishField moves focus between the title and body fields.
func (m *Model) focusWishField(idx int) {
	f := &m.wishForm
	f.focusIdx = idx
	if idx == 0 {
		f.title.Focus()
		f.body.Blur()
	} else {
		f.title.Blur()
		f.body.Focus()
	}
}

// cycleWishCategory advances the category choice, wrapping through "none".
func (m *Model) cycleWishCategory() {
	n := len(m.snap.categories.Items)
	if n == 0 {
		m.wishForm.categoryIdx = -1
		return
	}
	m.wishForm.categoryIdx++
	if m.wishForm.categoryIdx >= n {
		m.wishForm.categoryIdx = -1
	}
}

// wishCategoryLabel returns the display name of the chosen category.
func (m Model) wishCategoryLabel() string {
	cats := m.snap.categories.Items
	if m.wishForm.categoryIdx < 0 || m.wishForm.categoryIdx >= len(cats) {
		return "None"
	}
	return cats[m.wishForm.categoryIdx].Name
}

// handleWishFormKey handles keyboard input while the new-wish modal is open.
func (m Model) handleWishFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.wishForm

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeWishForm()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitWishForm()

	case key.Matches(msg, m.keys.CycleCategory):
		m.cycleWishCategory()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.focusWishField((f.focusIdx + 1) % 2)
		return m, nil

	case key.Matches(msg, m.keys.Confirm) && f.focusIdx == 0:
		// Enter moves from the title into the body
		m.focusWishField(1)
		return m, nil
	}

	var cmd tea.Cmd
	if f.focusIdx == 0 {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.body, cmd = f.body.Update(msg)
	}
	return m, cmd
}

// submitWishForm validates the form and dispatches the submission.
func (m Model) submitWishForm() (tea.Model, tea.Cmd) {
	f := &m.wishForm
	if m.board == nil || m.board.Submitting() {
		return m, nil
	}

	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.err = "A title is required"
		return m, nil
	}

	f.err = ""
	categoryID := ""
	if cats := m.snap.categories.Items; f.categoryIdx >= 0 && f.categoryIdx < len(cats) {
		categoryID = cats[f.categoryIdx].ID
	}
	return m, submitWishCmd(m.ctx, m.board, title, strings.TrimSpace(f.body.Value()), categoryID)
}

// renderWishForm renders the new-wish modal centered over the screen.
func (m Model) renderWishForm() string {
	styles := m.theme.Styles()
	f := m.wishForm

	label := func(focused bool, text string) string {
		if focused {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Accent)).Render("New wish"))
	b.WriteString("\n\n")
	b.WriteString(label(f.focusIdx == 0, "Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(label(f.focusIdx == 1, "Details"))
	b.WriteString("\n")
	b.WriteString(f.body.View())
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Category: "))
	b.WriteString(styles.Text.Render(m.wishCategoryLabel()))
	b.WriteString(styles.FaintText.Render("  ctrl+t to change"))

	if m.board != nil && m.board.Submitting() {
		b.WriteString("\n\n")
		b.WriteString(m.spin.View() + " " + styles.WarningText.Render("Submitting..."))
	} else if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render("! " + f.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("ctrl+s submit · tab switch field · esc cancel"))

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
