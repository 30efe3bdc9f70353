package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/lookout/internal/stream"
)

// renderHeader renders the status bar: stream state, working set and last fetch.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("lookout", styles.Logo),
		m.streamBadge(styles, bg),
		bg.Render("Detections:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Detections)), styles.Text),
	}
	if !compact {
		parts = append(parts,
			bg.Render("Cameras:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Cameras)), styles.Text))
	}
	if m.snapshot.LiveMerged > 0 {
		parts = append(parts,
			bg.Render("Live:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("+%d", m.snapshot.LiveMerged), styles.SuccessText))
	}
	if scope := m.ctrl.Filter().CameraScope; scope != "" {
		parts = append(parts, bg.Render("Scope:", styles.MutedText)+bg.Space()+bg.Render(m.cameraLabel(scope), styles.AccentText))
	}
	if m.reloading {
		parts = append(parts, bg.Render("Reloading...", styles.WarningText))
	}
	if err := m.snapshot.LastError; err != nil {
		parts = append(parts, bg.Render("API "+truncate(err.Error(), 40), styles.DangerText))
	}
	if !compact {
		parts = append(parts, bg.Render(m.formatLastUpdated(), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// streamBadge summarises the live stream connection.
func (m Model) streamBadge(styles Styles, bg BgStyle) string {
	if m.stream == nil {
		return bg.Render("○ Offline", styles.MutedText)
	}
	switch m.stream.State() {
	case stream.StateOpen:
		return bg.Render("● LIVE", styles.SuccessText)
	case stream.StateConnecting, stream.StateEvaluating:
		if n := m.stream.Attempts(); n > 0 {
			return bg.Render(fmt.Sprintf("◌ Retrying %d/%d", n, m.stream.MaxAttempts()), styles.WarningText.Bold(true))
		}
		return bg.Render("◌ Connecting", styles.WarningText)
	case stream.StateGivenUp:
		return bg.Render("● OFFLINE", styles.DangerText)
	default:
		return bg.Render("○ Idle", styles.MutedText)
	}
}

func (m Model) formatLastUpdated() string {
	if m.snapshot.LastUpdated.IsZero() {
		return "never fetched"
	}
	age := m.now().Sub(m.snapshot.LastUpdated)
	if age < time.Minute {
		return "fetched " + m.snapshot.LastUpdated.Format("15:04:05")
	}
	return "fetched " + age.Truncate(time.Minute).String() + " ago"
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewCameras:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Detections"},
			{"a", "All cameras"},
			{"f", "Filter"},
			{"p", "Play"},
			{"d", "Back"},
		}
	case ViewCharts:
		commands = []cmd{
			{"d", "Detections"},
			{"c", "Cameras"},
			{"l", "Logs"},
		}
	case ViewLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		commands = []cmd{
			{"Space", follow},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"d", "Detections"},
		}
	default:
		if m.searching {
			commands = []cmd{{"enter/esc", "Done"}}
			break
		}
		commands = []cmd{
			{"/", "Search"},
			{"F", "Filters"},
			{"x", "Clear"},
			{"1-5", "Sort"},
			{"[/]", "Page"},
			{"c", "Cameras"},
			{"v", "Charts"},
			{"l", "Logs"},
		}
	}
	commands = append(commands, cmd{"r", "Reload"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
