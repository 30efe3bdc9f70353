package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/query"
)

// handleSearchKey routes keys to the search input while it has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	seq, wait := m.ctrl.Type(m.search.Value(), m.now())
	return m, tea.Batch(cmd, debounceCmd(seq, wait))
}

// handleDetectionsKey processes keyboard input for the detections view.
func (m Model) handleDetectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Filters):
		m.modal = newFilterModal(m.ctrl.Filter(), m.cameraChoices(), m.engine.Location)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearFilters()
		m.search.SetValue("")
		m.selected = 0
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.SortKeys):
		n, err := strconv.Atoi(msg.String())
		cols := query.Columns()
		if err != nil || n < 1 || n > len(cols) {
			return m, nil
		}
		m.ctrl.SortBy(cols[n-1])
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.ctrl.NextPage(m.result.TotalPages)
		m.selected = 0
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.ctrl.PrevPage()
		m.selected = 0
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		m.ctrl.SetPage(1, m.result.TotalPages)
		m.selected = 0
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		m.ctrl.SetPage(m.result.TotalPages, m.result.TotalPages)
		m.selected = 0
		m.recompute()
		return m, nil
	}

	count := len(m.result.Items)
	if count == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	}
	return m, nil
}

// applyFilters replaces the structured filters with the modal's values.
func (m *Model) applyFilters(msg filterAppliedMsg) {
	m.ctrl.SetTimeRange(msg.timeRange.Start, msg.timeRange.End)
	m.ctrl.SetCameras(msg.cameras...)
	m.ctrl.SetConfidenceRange(msg.confidence.Min, msg.confidence.Max)

	want := make(map[detection.ObjectType]bool, len(msg.types))
	for _, t := range msg.types {
		want[t] = true
	}
	current := m.ctrl.Filter().ObjectTypes
	for t := range current {
		if !want[t] {
			m.ctrl.ToggleObjectType(t)
		}
	}
	for t := range want {
		if _, ok := current[t]; !ok {
			m.ctrl.ToggleObjectType(t)
		}
	}

	m.selected = 0
	m.recompute()
}

// renderDetections renders the search line, filter summary, table and pager.
func (m Model) renderDetections() string {
	height := m.contentHeight()
	width := m.width
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	inner := width - 2

	var lines []string
	lines = append(lines, m.renderSearchLine(styles, inner))
	lines = append(lines, m.renderFilterSummary(styles, inner))
	lines = append(lines, "")

	if !m.snapshot.Loaded && len(m.snapshot.Detections) == 0 {
		lines = append(lines, styles.MutedText.Render("Loading detections..."))
	} else if len(m.result.Items) == 0 {
		lines = append(lines, styles.MutedText.Render("No detections match"))
	} else {
		lines = append(lines, m.renderTable(inner)...)
	}

	body := strings.Join(lines, "\n")
	pager := m.renderPager(styles, inner)
	bodyLines := strings.Count(body, "\n") + 1
	if gap := height - 3 - bodyLines; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	body += "\n" + pager

	return m.renderTitledBox(m.detectionsTitle(), body, width, height, true)
}

func (m Model) detectionsTitle() string {
	title := "Detections"
	if scope := m.ctrl.Filter().CameraScope; scope != "" {
		title += " · " + m.cameraLabel(scope)
	}
	return title
}

func (m Model) renderSearchLine(styles Styles, width int) string {
	if m.searching {
		return m.search.View()
	}
	f := m.ctrl.Filter()
	if f.SearchText == "" {
		return styles.FaintText.Render(truncate("Press / to search", width))
	}
	text := styles.MutedText.Render("Search: ") + styles.Text.Render(truncate(f.SearchText, width-8))
	if m.ctrl.SearchPending() {
		text += styles.FaintText.Render(" …")
	}
	return text
}

// renderFilterSummary lists active structured filters.
func (m Model) renderFilterSummary(styles Styles, width int) string {
	f := m.ctrl.Filter()
	var parts []string
	if f.TimeRange.IsSet() {
		parts = append(parts, "time "+formatBound(f.TimeRange.Start, m.engine.Location)+" → "+formatBound(f.TimeRange.End, m.engine.Location))
	}
	if len(f.CameraIDs) > 0 {
		parts = append(parts, "cameras "+strings.Join(sortedKeys(f.CameraIDs), ","))
	}
	if len(f.ObjectTypes) > 0 {
		var names []string
		for _, t := range detection.ObjectTypes() {
			if _, ok := f.ObjectTypes[t]; ok {
				names = append(names, string(t))
			}
		}
		parts = append(parts, "types "+strings.Join(names, ","))
	}
	if f.ConfidenceRange.Min > 0 || f.ConfidenceRange.Max < 1 {
		parts = append(parts, fmt.Sprintf("conf %.2f–%.2f", f.ConfidenceRange.Min, f.ConfidenceRange.Max))
	}
	sortLabel := fmt.Sprintf("sort %s %s", f.SortBy, f.SortOrder)
	if len(parts) == 0 {
		return styles.FaintText.Render(truncate("No filters · "+sortLabel+" · F to filter", width))
	}
	return styles.AccentText.Render(truncate(strings.Join(parts, " · "), width-len(sortLabel)-3)) +
		styles.FaintText.Render(" · "+sortLabel)
}

// renderTable renders the current page of results with sort indicators.
func (m Model) renderTable(width int) []string {
	f := m.ctrl.Filter()
	cols := query.Columns()
	widths := columnWidths(width)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Bold(true)
	var header strings.Builder
	for i, col := range cols {
		label := fmt.Sprintf("%d %s", i+1, col.Title())
		if col == f.SortBy {
			if f.SortOrder == query.Ascending {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		header.WriteString(headerStyle.Render(padRight(label, widths[i])))
	}
	lines := []string{header.String()}

	for i, rec := range m.result.Items {
		lines = append(lines, m.renderRow(rec, widths, i == m.selected))
	}
	return lines
}

func (m Model) renderRow(rec detection.Record, widths []int, selected bool) string {
	bg := m.theme.SurfaceAlt
	fg := m.theme.Text
	if selected {
		bg = m.theme.SelectionBg
		fg = m.theme.SelectionText
	}
	base := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
	typeStyle := base
	if !selected {
		typeStyle = base.Foreground(lipgloss.Color(m.theme.ObjectColor(rec.ObjectType)))
	}

	ts := rec.Timestamp
	if t := rec.ParsedTime(); !t.IsZero() {
		ts = query.FormatLocal(t, m.engine.Location)
	}
	cells := []string{
		base.Render(padRight(strconv.FormatInt(rec.ID, 10), widths[0])),
		base.Render(padRight(ts, widths[1])),
		base.Render(padRight(rec.CameraID, widths[2])),
		typeStyle.Render(padRight(titleCase(string(rec.ObjectType)), widths[3])),
		base.Render(padLeft(formatConfidence(rec.ConfidenceScore.Float()), widths[4]-1) + " "),
	}
	return strings.Join(cells, "")
}

func (m Model) renderPager(styles Styles, width int) string {
	r := m.result
	info := fmt.Sprintf("Page %d of %d · %d matches", r.CurrentPage, r.TotalPages, r.TotalMatches)
	if total := len(m.snapshot.Detections); total != r.TotalMatches {
		info += fmt.Sprintf(" of %d", total)
	}
	hint := "< first  [ prev  ] next  > last"
	gap := max(1, width-lipgloss.Width(info)-lipgloss.Width(hint))
	return styles.Text.Render(info) + strings.Repeat(" ", gap) + styles.FaintText.Render(hint)
}

// columnWidths splits width across the five columns.
func columnWidths(width int) []int {
	id, conf := 8, 12
	rest := max(30, width-id-conf)
	ts := rest * 40 / 100
	cam := rest * 35 / 100
	typ := rest - ts - cam
	return []int{id, ts, cam, typ, conf}
}

// cameraChoices lists the /cameras entries followed by camera ids that only
// appear in detections, sorted.
func (m Model) cameraChoices() []detection.Camera {
	out := slices.Clone(m.snapshot.Cameras)
	known := make(map[string]struct{}, len(out))
	for _, cam := range out {
		known[cam.ID] = struct{}{}
	}
	extra := make(map[string]struct{})
	for _, rec := range m.snapshot.Detections {
		if _, ok := known[rec.CameraID]; !ok && rec.CameraID != "" {
			extra[rec.CameraID] = struct{}{}
		}
	}
	for _, id := range sortedKeys(extra) {
		out = append(out, detection.Camera{ID: id})
	}
	return out
}

// cameraLabel resolves a camera id to its display name.
func (m Model) cameraLabel(id string) string {
	if cam, ok := m.snapshot.CameraByID(id); ok && cam.Name != "" {
		return cam.Name
	}
	return id
}

func formatConfidence(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
