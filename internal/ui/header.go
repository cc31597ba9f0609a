package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the status bar with connection state and counts.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	// No successful board fetch yet: connecting or failing to connect
	if m.snap.board.LastUpdated.IsZero() {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg)
	return styles.Header.Width(m.width).Render(content)
}

// renderConnectingHeader shows the pre-first-fetch state.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snap.board.Err != "" {
		parts := []string{
			bg.Render("holler", styles.Logo),
			m.renderProjectSlug(styles, bg),
			bg.Render("SOAPBOX "+strings.ToUpper(classifyOffline(m.snap.board.Err)), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("holler", styles.Logo) + sep +
			m.renderProjectSlug(styles, bg) + sep +
			bg.Render(m.spin.View(), styles.Text) + bg.Space() +
			bg.Render("Connecting to Soapbox...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < compactHeaderWidth
	board := m.snap.board

	var parts []string

	// Logo
	parts = append(parts, bg.Render("holler", styles.Logo))

	// Project slug
	if slug := m.renderProjectSlug(styles, bg); slug != "" {
		parts = append(parts, slug)
	}

	// Connection indicator
	if board.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	// Activity spinner
	if m.loadingAnything() {
		parts = append(parts, bg.Render(m.spin.View(), styles.Text))
	}

	// Counts
	parts = append(parts,
		bg.Render("Wishes:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", board.Total), styles.Text),
	)
	if !compact && m.snap.releases.Total > 0 {
		parts = append(parts,
			bg.Render("Releases:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snap.releases.Total), styles.Text),
		)
	}

	// Timestamp of the last successful board fetch
	if timeStr := formatFetchTime(board.LastUpdated); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Sticky refresh error (data shown is stale)
	if board.Err != "" && !board.IsOffline() {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(board.Err, maxErr), styles.WarningText),
		)
	}

	// Transient mutation error
	if m.flash != "" {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("!", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.flash, maxErr), styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// renderProjectSlug renders the configured org/project pair.
func (m Model) renderProjectSlug(styles Styles, bg BgStyle) string {
	if m.cfg == nil || m.cfg.Org == "" || m.cfg.Project == "" {
		return ""
	}
	return bg.Render(m.cfg.Org+"/"+m.cfg.Project, styles.AccentText)
}

// formatFetchTime formats the last fetch time with a relative indicator.
func formatFetchTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	since := time.Since(t)
	timeStr := t.Format("15:04:05")

	if since < time.Minute {
		timeStr += " (now)"
	} else if since < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	} else if since < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}

	return timeStr
}

// classifyOffline shortens a connection error for the header.
func classifyOffline(errMsg string) string {
	switch {
	case strings.Contains(errMsg, "reach"):
		return "unreachable"
	case strings.Contains(errMsg, "timeout"):
		return "timeout"
	default:
		return "error"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewRoadmap:
		commands = []cmd{
			{"h/l", "Column"},
			{"j/k", "Navigate"},
			{"1", "Board"},
			{"R", "Refresh"},
			{"?", "More"},
		}
	case ViewReleases:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"h/l", "Focus"},
			{"[/]", "Page"},
			{"R", "Refresh"},
			{"?", "More"},
		}
	case ViewHelpCenter:
		if m.helpState.reading {
			commands = []cmd{
				{"j/k", "Scroll"},
				{"esc", "Close article"},
				{"?", "More"},
			}
		} else {
			commands = []cmd{
				{"/", "Search"},
				{"enter", "Read"},
				{"j/k", "Navigate"},
				{"R", "Refresh"},
				{"?", "More"},
			}
		}
	case ViewSupport:
		commands = []cmd{
			{"tab", "Next field"},
			{"ctrl+s", "Submit"},
			{"esc", "Board"},
			{"?", "More"},
		}
	default: // ViewBoard
		if m.thread != nil {
			commands = []cmd{
				{"c", "Comment"},
				{"v", "Vote"},
				{"j/k", "Scroll"},
				{"esc", "Close thread"},
				{"?", "More"},
			}
		} else {
			commands = []cmd{
				{"v", "Vote"},
				{"enter", "Comments"},
				{"n", "New"},
				{"s", m.sortLabel()},
				{"f", m.statusLabel()},
				{"/", "Search"},
				{"[/]", "Page"},
				{"?", "More"},
			}
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show the active board search pattern
	if m.currentView == ViewBoard {
		if search := m.boardState.appliedSearch; search != "" {
			segments = append(segments,
				bg.Render("/"+truncate(search, 18), styles.AccentText))
		}
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
