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
	Reload     key.Binding

	// View switching
	ViewDetections key.Binding
	ViewCameras    key.Binding
	ViewCharts     key.Binding
	ViewLogs       key.Binding

	// Detections
	Search   key.Binding
	Filters  key.Binding
	Clear    key.Binding
	SortKeys key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding

	// Cameras
	Scope        key.Binding
	ClearScope   key.Binding
	Play         key.Binding
	FilterCamera key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Logs
	ToggleFollow key.Binding

	// Modal
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Increase  key.Binding
	Decrease  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to detections"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload from API"),
		),

		ViewDetections: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Detections"),
		),
		ViewCameras: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cameras"),
		),
		ViewCharts: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Charts"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Filters: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Filters"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		SortKeys: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "Sort by column"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "]", "n"),
			key.WithHelp("]/n", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "[", "b"),
			key.WithHelp("[/b", "Previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "Last page"),
		),

		Scope: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Show camera detections"),
		),
		ClearScope: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "All cameras"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Play stream"),
		),
		FilterCamera: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle camera filter"),
		),

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

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "pgup"),
			key.WithHelp("right", "Raise"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "pgdown"),
			key.WithHelp("left", "Lower"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewDetections, k.ViewCameras, k.ViewCharts, k.ViewLogs, k.Search, k.Filters, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewDetections, k.ViewCameras, k.ViewCharts, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.Filters, k.Clear, k.SortKeys, k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.Reload},
		{k.Scope, k.ClearScope, k.FilterCamera, k.Play},
		{k.ToggleFollow, k.CycleTheme, k.Help, k.Quit},
	}
}
