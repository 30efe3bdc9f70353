package ui

import (
	"strings"
	"time"

	"github.com/five82/lookout/internal/live"
)

type toast struct {
	notice  live.Notice
	expires time.Time
}

// pushToast shows n on the notice line. Errors stay three times longer.
func (m *Model) pushToast(n live.Notice) {
	at := n.At
	if at.IsZero() {
		at = m.now()
		n.At = at
	}
	ttl := NoticeTTL
	if n.Level == live.LevelError {
		ttl *= 3
	}
	m.toasts = append(m.toasts, toast{notice: n, expires: at.Add(ttl)})
	if over := len(m.toasts) - maxNotices; over > 0 {
		m.toasts = append([]toast(nil), m.toasts[over:]...)
	}
}

func (m *Model) expireToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// renderToasts renders the newest notices on one line.
func (m Model) renderToasts() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	if len(m.toasts) == 0 {
		return bg.FillLine("", m.width)
	}
	parts := make([]string, 0, len(m.toasts))
	for i := len(m.toasts) - 1; i >= 0; i-- {
		n := m.toasts[i].notice
		style := styles.InfoText
		if n.Level == live.LevelError {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(n.At.Format("15:04:05"), styles.FaintText)+bg.Space()+bg.Render(n.Text, style))
	}
	line := strings.Join(parts, bg.Render("  •  ", styles.FaintText))
	return bg.FillLine(line, m.width)
}
