package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soapboxhq/holler/internal/prefs"
	"github.com/soapboxhq/holler/internal/soapbox"
)

// ticketForm is the support view's form state.
type ticketForm struct {
	email    textinput.Model
	subject  textinput.Model
	message  textarea.Model
	attach   textinput.Model
	focusIdx int // 0 email, 1 subject, 2 message, 3 attachment
	err      string
	sentID   string // last confirmed ticket, shown as a success banner
}

// initTicketForm initializes the support form widgets.
func (m *Model) initTicketForm() {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.SetValue(m.prefs.Email)
	email.Focus()

	subject := textinput.New()
	subject.Placeholder = "What do you need help with?"
	subject.CharLimit = 150

	message := textarea.New()
	message.Placeholder = "The more detail the better..."
	message.CharLimit = 5000
	message.ShowLineNumbers = false

	attach := textinput.New()
	attach.Placeholder = "Path to a screenshot or log file"
	attach.CharLimit = 500

	m.ticketForm = ticketForm{
		email:   email,
		subject: subject,
		message: message,
		attach:  attach,
	}
}

// layoutTicketForm sizes the support form fields.
func (m *Model) layoutTicketForm() {
	f := &m.ticketForm
	inner := m.supportWidth() - 4

	f.email.Width = inner - 3
	f.subject.Width = inner - 3
	f.attach.Width = inner - 3
	f.message.SetWidth(inner)
	f.message.SetHeight(clampInt(m.height-20, 3, 8))
}

// supportWidth returns the support form column width.
func (m Model) supportWidth() int {
	return clampInt(m.width-8, 44, 80)
}

// focusTicketField moves focus to the given ticket field.
func (m *Model) focusTicketField(idx int) {
	f := &m.ticketForm
	f.focusIdx = idx
	f.email.Blur()
	f.subject.Blur()
	f.message.Blur()
	f.attach.Blur()
	switch idx {
	case 0:
		f.email.Focus()
	case 1:
		f.subject.Focus()
	case 2:
		f.message.Focus()
	case 3:
		f.attach.Focus()
	}
}

// handleSupportKey processes all keyboard input while the support view is
// active. The view is one big form, so typing must reach the fields; only a
// handful of control keys are intercepted.
func (m Model) handleSupportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.ticketForm

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBoard
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitTicketForm()

	case key.Matches(msg, m.keys.Tab):
		m.focusTicketField((f.focusIdx + 1) % 4)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.focusTicketField((f.focusIdx + 3) % 4)
		return m, nil

	case key.Matches(msg, m.keys.Confirm) && f.focusIdx != 2:
		// Enter advances; only the message field takes newlines
		m.focusTicketField((f.focusIdx + 1) % 4)
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case 0:
		f.email, cmd = f.email.Update(msg)
	case 1:
		f.subject, cmd = f.subject.Update(msg)
	case 2:
		f.message, cmd = f.message.Update(msg)
	case 3:
		f.attach, cmd = f.attach.Update(msg)
	}
	return m, cmd
}

// submitTicketForm validates the form and dispatches the submission. The
// email address is remembered for next time.
func (m Model) submitTicketForm() (tea.Model, tea.Cmd) {
	f := &m.ticketForm
	if m.tickets == nil || m.tickets.Submitting() {
		return m, nil
	}

	email := strings.TrimSpace(f.email.Value())
	subject := strings.TrimSpace(f.subject.Value())
	message := strings.TrimSpace(f.message.Value())
	attach := strings.TrimSpace(f.attach.Value())

	switch {
	case email == "":
		f.err = "An email address is required so we can reply"
		m.focusTicketField(0)
		return m, nil
	case !strings.Contains(email, "@"):
		f.err = "That doesn't look like an email address"
		m.focusTicketField(0)
		return m, nil
	case subject == "":
		f.err = "A subject is required"
		m.focusTicketField(1)
		return m, nil
	case message == "":
		f.err = "Describe the problem first"
		m.focusTicketField(2)
		return m, nil
	}

	f.err = ""
	f.sentID = ""
	if email != m.prefs.Email {
		m.prefs.Email = email
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
	return m, submitTicketCmd(m.ctx, m.tickets, email, subject, message, attach)
}

// finishTicketSubmit applies the submission outcome to the form.
func (m *Model) finishTicketSubmit(ok bool) {
	f := &m.ticketForm
	if !ok {
		f.sentID = ""
		if m.tickets != nil {
			f.err = m.tickets.TakeError()
		}
		return
	}

	f.err = ""
	if m.tickets != nil {
		if t, found := m.tickets.LastTicket(); found {
			f.sentID = t.ID
		}
	}
	f.subject.SetValue("")
	f.message.Reset()
	f.attach.SetValue("")
	m.focusTicketField(1)
}

// renderSupport renders the support form view.
func (m Model) renderSupport() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	f := m.ticketForm

	label := func(focused bool, text string) string {
		if focused {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder

	intro := "Stuck? Send the team a message."
	if m.cfg != nil && m.cfg.Org != "" {
		intro = fmt.Sprintf("Stuck? Send the %s team a message.", m.cfg.Org)
	}
	b.WriteString(styles.MutedText.Render(intro))
	b.WriteString("\n\n")

	if f.sentID != "" {
		b.WriteString(styles.SuccessText.Render(fmt.Sprintf("✓ Ticket %s received. Replies go to your email.", f.sentID)))
		b.WriteString("\n\n")
	}

	b.WriteString(label(f.focusIdx == 0, "Email"))
	b.WriteString("\n")
	b.WriteString(f.email.View())
	b.WriteString("\n\n")

	b.WriteString(label(f.focusIdx == 1, "Subject"))
	b.WriteString("\n")
	b.WriteString(f.subject.View())
	b.WriteString("\n\n")

	b.WriteString(label(f.focusIdx == 2, "Message"))
	b.WriteString("\n")
	b.WriteString(f.message.View())
	b.WriteString("\n\n")

	b.WriteString(label(f.focusIdx == 3, "Attachment"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("optional, up to %d MB", soapbox.MaxUploadBytes>>20)))
	b.WriteString("\n")
	b.WriteString(f.attach.View())

	if m.tickets != nil && m.tickets.Submitting() {
		b.WriteString("\n\n")
		b.WriteString(m.spin.View() + " " + styles.WarningText.Render("Sending..."))
	} else if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render("! " + f.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("ctrl+s send · tab next field · esc back to the board"))

	content := " " + strings.ReplaceAll(b.String(), "\n", "\n ")
	return m.renderTitledBox("Support", content, m.width, contentHeight, true)
}
