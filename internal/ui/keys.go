package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewBoard    key.Binding
	ViewRoadmap  key.Binding
	ViewReleases key.Binding
	ViewHelp     key.Binding
	ViewSupport  key.Binding

	// Board actions
	Vote        key.Binding
	NewWish     key.Binding
	OpenThread  key.Binding
	Compose     key.Binding
	CycleSort   key.Binding
	CycleStatus key.Binding
	Search      key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	FocusLeft    key.Binding
	FocusRight   key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Forms
	Confirm       key.Binding
	Submit        key.Binding
	CycleCategory key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Dismiss / back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh"),
		),

		// View switching
		ViewBoard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Board"),
		),
		ViewRoadmap: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Roadmap"),
		),
		ViewReleases: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Changelog"),
		),
		ViewHelp: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Help center"),
		),
		ViewSupport: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Support"),
		),

		// Board actions
		Vote: key.NewBinding(
			key.WithKeys("v", " "),
			key.WithHelp("v/Space", "Toggle vote"),
		),
		NewWish: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New wish"),
		),
		OpenThread: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open comments"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Write comment"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next page"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Focus list"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Focus detail"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Forms
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Submit"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Change category"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Views
		{k.Tab, k.ViewBoard, k.ViewRoadmap, k.ViewReleases, k.ViewHelp, k.ViewSupport},
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.FocusLeft, k.FocusRight},
		{k.HalfPageDown, k.HalfPageUp, k.PrevPage, k.NextPage},
		// Board
		{k.Vote, k.OpenThread, k.Compose, k.NewWish, k.CycleSort, k.CycleStatus, k.Search},
		// General
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
