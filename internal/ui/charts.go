package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/aggregate"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// renderCharts renders the daily, per-type, hourly and per-camera summaries.
func (m Model) renderCharts() string {
	height := m.contentHeight()
	recs := m.snapshot.Detections
	if len(recs) == 0 {
		styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
		return m.renderTitledBox("Charts", styles.MutedText.Render("No detections to chart"), m.width, height, true)
	}

	daily := aggregate.Daily(recs, m.engine.Location)
	types := aggregate.ObjectTypes(recs)
	hourly := aggregate.Hourly(recs, m.now())
	cams := aggregate.Cameras(recs)

	if m.width < LayoutWideWidth {
		top := height / 2
		left := m.renderTitledBox("Detections per day", m.dailyBars(daily, m.width-2, top-2), m.width, top, false)
		right := m.renderTitledBox("Last 24 hours", m.hourlyChart(hourly, m.width-2), m.width, height-top, false)
		return left + "\n" + right
	}

	leftW := m.width / 2
	rightW := m.width - leftW
	topH := height / 2
	bottomH := height - topH

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox("Detections per day", m.dailyBars(daily, leftW-2, topH-2), leftW, topH, false),
		m.renderTitledBox("By object type", m.typeBars(types, rightW-2), rightW, topH, false),
	)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox("Last 24 hours", m.hourlyChart(hourly, leftW-2), leftW, bottomH, false),
		m.renderTitledBox("By camera", m.cameraBars(cams, rightW-2, bottomH-2), rightW, bottomH, false),
	)
	return topRow + "\n" + bottomRow
}

// dailyBars shows the most recent days that fit in rows.
func (m Model) dailyBars(days []aggregate.DailyCount, width, rows int) string {
	if len(days) > rows && rows > 0 {
		days = days[len(days)-rows:]
	}
	labels := make([]string, len(days))
	counts := make([]int, len(days))
	for i, d := range days {
		labels[i] = d.Date.Format("Jan 02")
		counts[i] = d.Count
	}
	return m.bars(labels, counts, nil, width)
}

func (m Model) typeBars(types []aggregate.TypeCount, width int) string {
	labels := make([]string, len(types))
	counts := make([]int, len(types))
	colors := make([]string, len(types))
	for i, t := range types {
		labels[i] = titleCase(string(t.Type))
		counts[i] = t.Count
		colors[i] = m.theme.ObjectColor(t.Type)
	}
	return m.bars(labels, counts, colors, width)
}

func (m Model) cameraBars(cams []aggregate.CameraActivity, width, rows int) string {
	if len(cams) > rows && rows > 0 {
		cams = cams[:rows]
	}
	labels := make([]string, len(cams))
	counts := make([]int, len(cams))
	for i, c := range cams {
		labels[i] = c.CameraID
		counts[i] = c.Count
	}
	return m.bars(labels, counts, nil, width)
}

// bars renders one horizontal bar per label scaled to the largest count.
func (m Model) bars(labels []string, counts []int, colors []string, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	peak := 0
	labelW := 0
	for i, c := range counts {
		peak = max(peak, c)
		labelW = max(labelW, lipgloss.Width(labels[i]))
	}
	labelW = min(labelW, 14)
	barMax := max(1, width-labelW-9)

	lines := make([]string, 0, len(labels))
	for i, label := range labels {
		n := 0
		if peak > 0 {
			n = counts[i] * barMax / peak
		}
		if counts[i] > 0 && n == 0 {
			n = 1
		}
		color := m.theme.Accent
		if colors != nil && colors[i] != "" {
			color = colors[i]
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render(strings.Repeat("█", n))
		lines = append(lines, styles.MutedText.Render(padRight(label, labelW)+" ")+bar+
			styles.Text.Render(fmt.Sprintf(" %d", counts[i])))
	}
	return strings.Join(lines, "\n")
}

// hourlyChart renders a sparkline of the 24 hourly buckets with hour ticks.
func (m Model) hourlyChart(hours []aggregate.HourlyCount, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	counts := make([]int, len(hours))
	total := 0
	for i, h := range hours {
		counts[i] = h.Count
		total += h.Count
	}
	line := sparkline(counts)
	if len(hours) == 0 {
		return styles.MutedText.Render("No data")
	}

	// One cell per hour, so a 6-cell label every sixth hour lines up.
	var ticks strings.Builder
	for i, h := range hours {
		if i%6 == 0 {
			ticks.WriteString(padRight(h.Label, 6))
		}
	}
	spark := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info)).Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Render(line)
	return strings.Join([]string{
		spark,
		styles.FaintText.Render(truncate(ticks.String(), width)),
		"",
		styles.MutedText.Render(fmt.Sprintf("%d detections since %s", total, hours[0].Label)),
	}, "\n")
}

// sparkline maps counts onto eight block heights. Zero stays at the lowest block.
func sparkline(counts []int) string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	out := make([]rune, len(counts))
	for i, c := range counts {
		idx := 0
		if peak > 0 {
			idx = c * (len(sparkRunes) - 1) / peak
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
