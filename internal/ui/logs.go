package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/logtail"
)

// logState holds the log view's buffer and tail position.
type logState struct {
	lines    []string
	offset   int64
	loaded   bool
	follow   bool
	err      error
	viewport viewport.Model
	version  uint64
	rendered uint64
}

type logLinesMsg struct {
	lines  []string
	offset int64
	reset  bool
	err    error
}

func newLogState(follow bool) logState {
	return logState{follow: follow, viewport: viewport.New(0, 0)}
}

// refreshLogs reads the initial tail once, then follows appended lines.
func (m Model) refreshLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	path := m.logPath
	if !m.logs.loaded {
		return func() tea.Msg {
			lines, offset, err := logtail.Tail(path, LogTailBytes)
			return logLinesMsg{lines: lines, offset: offset, reset: true, err: err}
		}
	}
	offset := m.logs.offset
	return func() tea.Msg {
		lines, next, err := logtail.Follow(path, offset)
		return logLinesMsg{lines: lines, offset: next, reset: next < offset, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logs.err = msg.err
	if msg.err != nil {
		return
	}
	if msg.reset {
		m.logs.lines = nil
	}
	m.logs.loaded = true
	m.logs.offset = msg.offset
	if len(msg.lines) == 0 && !msg.reset {
		return
	}
	m.logs.lines = append(m.logs.lines, msg.lines...)
	if over := len(m.logs.lines) - LogBufferLimit; over > 0 {
		m.logs.lines = append([]string(nil), m.logs.lines[over:]...)
	}
	m.logs.version++
	m.syncLogViewport()
}

func (m *Model) resizeLogs() {
	m.logs.viewport.Width = max(0, m.width-4)
	m.logs.viewport.Height = max(0, m.contentHeight()-3)
	m.logs.rendered = 0
	m.syncLogViewport()
}

// syncLogViewport re-renders the buffer when it changed since the last render.
func (m *Model) syncLogViewport() {
	if m.logs.rendered != m.logs.version || m.logs.rendered == 0 {
		m.logs.viewport.SetContent(m.renderLogContent())
		m.logs.rendered = m.logs.version
	}
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
		}
		m.savePrefs()
	case key.Matches(msg, m.keys.Down):
		m.logs.follow = false
		m.logs.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logs.follow = false
		m.logs.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
	case msg.String() == "ctrl+d":
		m.logs.viewport.HalfPageDown()
	case msg.String() == "ctrl+u":
		m.logs.follow = false
		m.logs.viewport.HalfPageUp()
	}
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	var body string
	switch {
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to file is disabled (set log_file in config)")
	case m.logs.err != nil:
		body = styles.DangerText.Render("Log unavailable: " + m.logs.err.Error())
	case len(m.logs.lines) == 0:
		body = styles.MutedText.Render("No log lines yet")
	default:
		body = m.logs.viewport.View()
	}

	follow := "off"
	if m.logs.follow {
		follow = "on"
	}
	status := bg.Render(fmt.Sprintf("%d lines  auto-tail %s", len(m.logs.lines), follow), styles.FaintText)
	if m.logPath != "" {
		status += bg.Spaces(2) + bg.Render(truncate(m.logPath, 60), styles.MutedText)
	}

	box := m.renderTitledBox("Logs", body, m.width, m.contentHeight()-1, true)
	return box + "\n" + bg.FillLine(status, m.width)
}

// renderLogContent colorizes the buffered slog lines.
func (m *Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.logs.viewport.Width

	out := make([]string, 0, len(m.logs.lines))
	for _, line := range m.logs.lines {
		out = append(out, m.colorizeLogLine(logtail.Parse(line), styles, bg, width))
	}
	return strings.Join(out, "\n")
}

func (m *Model) colorizeLogLine(e logtail.Entry, styles Styles, bg BgStyle, width int) string {
	if e.Level == "" {
		return bg.Render(truncate(e.Raw, width), styles.Text)
	}
	ts := e.Time
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+9 {
		ts = ts[i+1 : i+9]
	}
	var b strings.Builder
	b.WriteString(bg.Render(ts, styles.FaintText))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(padRight(e.Level, 5), levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Msg, styles.Text))
	if e.Attrs != "" {
		used := lipgloss.Width(ts) + 7 + lipgloss.Width(e.Msg)
		if room := width - used - 1; room > 3 {
			b.WriteString(bg.Space())
			b.WriteString(bg.Render(truncate(e.Attrs, room), styles.MutedText))
		}
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}
