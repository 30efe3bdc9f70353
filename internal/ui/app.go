package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/filter"
	"github.com/five82/lookout/internal/live"
	"github.com/five82/lookout/internal/playback"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/query"
	"github.com/five82/lookout/internal/state"
	"github.com/five82/lookout/internal/stream"
)

// View represents the current active view.
type View int

const (
	ViewDetections View = iota
	ViewCameras
	ViewCharts
	ViewLogs
	viewCount
)

// StreamStatus reports the live stream lifecycle. *stream.Manager implements it.
type StreamStatus interface {
	State() stream.State
	Attempts() int
	MaxAttempts() int
}

// Reloader refetches the bulk snapshot into the store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Player opens a camera's stream in an external player.
type Player interface {
	Play(ctx context.Context, cam detection.Camera) (playback.Source, error)
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Store          *state.Store
	Stream         StreamStatus
	Notices        <-chan live.Notice
	Reloader       Reloader
	Player         Player
	PageSize       int
	SearchDebounce time.Duration
	LogPath        string
	Location       *time.Location
	ThemeName      string
	PrefsPath      string
	FollowLogs     bool
	RefreshTick    time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	stream    StreamStatus
	notices   <-chan live.Notice
	reloader  Reloader
	player    Player
	prefsPath string
	logPath   string
	refresh   time.Duration
	now       func() time.Time

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	toasts   []toast

	// Data state
	snapshot state.Snapshot

	// Detections state
	engine    query.Engine
	ctrl      *filter.Controller
	result    query.Result
	search    textinput.Model
	searching bool
	selected  int

	// Cameras state
	cameraRow int
	reloading bool

	// Log state
	logs logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.RefreshTick
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search id, time, camera, type, confidence"
	search.CharLimit = 128

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		stream:    opts.Stream,
		notices:   opts.Notices,
		reloader:  opts.Reloader,
		player:    opts.Player,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		refresh:   refresh,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.ThemeName),
		engine:    query.Engine{Location: loc},
		ctrl:      filter.NewController(opts.PageSize, opts.SearchDebounce),
		search:    search,
		logs:      newLogState(opts.FollowLogs),
	}
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.notices != nil {
		cmds = append(cmds, waitNoticeCmd(m.ctx, m.notices))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-8)
		m.resizeLogs()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.recompute()
		return m, nil

	case debounceMsg:
		if m.ctrl.FireDebounce(msg.seq, msg.at) {
			m.selected = 0
			m.recompute()
		}
		return m, nil

	case noticeMsg:
		m.pushToast(live.Notice(msg))
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.notices != nil {
			cmds = append(cmds, waitNoticeCmd(m.ctx, m.notices))
		}
		return m, tea.Batch(cmds...)

	case filterAppliedMsg:
		m.applyFilters(msg)
		return m, nil

	case reloadMsg:
		m.reloading = false
		if msg.err != nil {
			m.pushToast(live.Notice{Level: live.LevelError, Text: "Reload failed: " + msg.err.Error()})
		} else {
			m.pushToast(live.Notice{Level: live.LevelInfo, Text: "Reloaded detections"})
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case playbackMsg:
		m.handlePlayback(msg)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.view + 1) % viewCount)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.view + viewCount - 1) % viewCount)
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewDetections):
		return m.switchView(ViewDetections)
	case key.Matches(msg, m.keys.ViewCameras):
		return m.switchView(ViewCameras)
	case key.Matches(msg, m.keys.ViewCharts):
		return m.switchView(ViewCharts)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	switch m.view {
	case ViewDetections:
		return m.handleDetectionsKey(msg)
	case ViewCameras:
		return m.handleCamerasKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	// Text still inside the debounce window is dropped, not applied.
	m.ctrl.CancelPending()
	return m, tea.Quit
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, FollowLogs: m.logs.follow}); err != nil {
		m.pushToast(live.Notice{Level: live.LevelError, Text: "Save preferences: " + err.Error()})
	}
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.view = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.reloader == nil || m.reloading {
		return m, nil
	}
	m.reloading = true
	return m, reloadCmd(m.ctx, m.reloader)
}

// handleTick processes the refresh tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.expireToasts(now)

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.view == ViewLogs && m.logs.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.refresh))
	return m, tea.Batch(cmds...)
}

// recompute reruns the query pipeline over the current snapshot.
func (m *Model) recompute() {
	m.result = m.engine.Run(m.snapshot.Detections, m.ctrl.Filter())
	if m.selected >= len(m.result.Items) {
		m.selected = max(0, len(m.result.Items)-1)
	}
	if m.cameraRow >= len(m.snapshot.Cameras) {
		m.cameraRow = max(0, len(m.snapshot.Cameras)-1)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToasts())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.view {
	case ViewDetections:
		return m.renderDetections()
	case ViewCameras:
		return m.renderCameras()
	case ViewCharts:
		return m.renderCharts()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return max(5, m.height-chromeHeight)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticeMsg live.Notice

type debounceMsg struct {
	seq uint64
	at  time.Time
}

type reloadMsg struct {
	err error
}

type playbackMsg struct {
	camera string
	source playback.Source
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func debounceCmd(seq uint64, wait time.Duration) tea.Cmd {
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return debounceMsg{seq: seq, at: t}
	})
}

// waitNoticeCmd blocks for the next notice. It yields nil once ctx is done or
// the channel closes, which ends the wait loop.
func waitNoticeCmd(ctx context.Context, notices <-chan live.Notice) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notices:
			if !ok {
				return nil
			}
			return noticeMsg(n)
		}
	}
}

func reloadCmd(ctx context.Context, r Reloader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()
		return reloadMsg{err: r.Reload(ctx)}
	}
}

func playCmd(ctx context.Context, p Player, cam detection.Camera) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, playTimeout)
		defer cancel()
		src, err := p.Play(ctx, cam)
		return playbackMsg{camera: cam.ID, source: src, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Cancelled by signal; the caller reports the shutdown.
		return nil
	}
	return err
}
