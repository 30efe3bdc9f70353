package ui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/query"
)

// modalTimeLayout is the local time format accepted by the filter modal.
const modalTimeLayout = "2006-01-02 15:04"

const (
	fieldStart = iota
	fieldEnd
	fieldCameras
	fieldConfMin
	fieldConfMax
	fieldTypes
	fieldCount
)

// filterAppliedMsg carries the structured filters chosen in the modal.
type filterAppliedMsg struct {
	timeRange  query.TimeRange
	cameras    []string
	confidence query.ConfidenceRange
	types      []detection.ObjectType
}

// filterModal edits the time range, cameras, confidence bounds and object types.
type filterModal struct {
	loc   *time.Location
	focus int
	err   string

	start textinput.Model
	end   textinput.Model

	cameras     []detection.Camera
	cameraOn    map[string]bool
	cameraIndex int

	confMin float64
	confMax float64

	types     []detection.ObjectType
	typeOn    map[detection.ObjectType]bool
	typeIndex int
}

func newFilterModal(f query.Filter, cameras []detection.Camera, loc *time.Location) *filterModal {
	if loc == nil {
		loc = time.Local
	}
	newInput := func(bound time.Time) textinput.Model {
		in := textinput.New()
		in.Placeholder = modalTimeLayout
		in.CharLimit = len(modalTimeLayout)
		in.Width = len(modalTimeLayout) + 1
		in.Prompt = ""
		if !bound.IsZero() {
			in.SetValue(bound.In(loc).Format(modalTimeLayout))
		}
		return in
	}

	// Selected ids missing from the choices stay visible so apply keeps them.
	cameras = slices.Clone(cameras)
	listed := make(map[string]struct{}, len(cameras))
	for _, cam := range cameras {
		listed[cam.ID] = struct{}{}
	}
	for _, id := range sortedKeys(f.CameraIDs) {
		if _, ok := listed[id]; !ok {
			cameras = append(cameras, detection.Camera{ID: id})
		}
	}

	fm := &filterModal{
		loc:      loc,
		start:    newInput(f.TimeRange.Start),
		end:      newInput(f.TimeRange.End),
		cameras:  cameras,
		cameraOn: make(map[string]bool, len(f.CameraIDs)),
		confMin:  f.ConfidenceRange.Min,
		confMax:  f.ConfidenceRange.Max,
		types:    detection.ObjectTypes(),
		typeOn:   make(map[detection.ObjectType]bool, len(f.ObjectTypes)),
	}
	for id := range f.CameraIDs {
		fm.cameraOn[id] = true
	}
	for t := range f.ObjectTypes {
		fm.typeOn[t] = true
	}
	fm.start.Focus()
	return fm
}

// Update implements Modal.
func (fm *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return fm, nil, false
	}

	switch {
	case key.Matches(km, keys.Escape):
		return fm, nil, true
	case key.Matches(km, keys.Confirm):
		applied, err := fm.result()
		if err != nil {
			fm.err = err.Error()
			return fm, nil, false
		}
		return fm, func() tea.Msg { return applied }, true
	case key.Matches(km, keys.NextField) && (km.Type == tea.KeyTab || !fm.onInput()):
		fm.setFocus((fm.focus + 1) % fieldCount)
		return fm, nil, false
	case key.Matches(km, keys.PrevField) && (km.Type == tea.KeyShiftTab || !fm.onInput()):
		fm.setFocus((fm.focus + fieldCount - 1) % fieldCount)
		return fm, nil, false
	}

	switch fm.focus {
	case fieldStart, fieldEnd:
		var cmd tea.Cmd
		if fm.focus == fieldStart {
			fm.start, cmd = fm.start.Update(km)
		} else {
			fm.end, cmd = fm.end.Update(km)
		}
		fm.err = ""
		return fm, cmd, false

	case fieldCameras:
		switch {
		case key.Matches(km, keys.Toggle):
			if len(fm.cameras) > 0 {
				id := fm.cameras[fm.cameraIndex].ID
				fm.cameraOn[id] = !fm.cameraOn[id]
			}
		case key.Matches(km, keys.Decrease) && fm.cameraIndex > 0:
			fm.cameraIndex--
		case key.Matches(km, keys.Increase) && fm.cameraIndex < len(fm.cameras)-1:
			fm.cameraIndex++
		}

	case fieldConfMin, fieldConfMax:
		step := 0.01
		if km.Type == tea.KeyPgUp || km.Type == tea.KeyPgDown {
			step = 0.1
		}
		switch {
		case key.Matches(km, keys.Increase):
		case key.Matches(km, keys.Decrease):
			step = -step
		default:
			step = 0
		}
		if fm.focus == fieldConfMin {
			fm.confMin = clampUnit(fm.confMin + step)
		} else {
			fm.confMax = clampUnit(fm.confMax + step)
		}

	case fieldTypes:
		switch {
		case key.Matches(km, keys.Toggle):
			t := fm.types[fm.typeIndex]
			fm.typeOn[t] = !fm.typeOn[t]
		case key.Matches(km, keys.Decrease) && fm.typeIndex > 0:
			fm.typeIndex--
		case key.Matches(km, keys.Increase) && fm.typeIndex < len(fm.types)-1:
			fm.typeIndex++
		}
	}
	return fm, nil, false
}

func (fm *filterModal) onInput() bool {
	return fm.focus == fieldStart || fm.focus == fieldEnd
}

func (fm *filterModal) setFocus(i int) {
	fm.focus = i
	fm.start.Blur()
	fm.end.Blur()
	switch i {
	case fieldStart:
		fm.start.Focus()
	case fieldEnd:
		fm.end.Focus()
	}
}

// result validates the inputs. The end bound covers its whole minute.
func (fm *filterModal) result() (filterAppliedMsg, error) {
	start, err := fm.parseBound(fm.start.Value())
	if err != nil {
		return filterAppliedMsg{}, fmt.Errorf("start: %w", err)
	}
	end, err := fm.parseBound(fm.end.Value())
	if err != nil {
		return filterAppliedMsg{}, fmt.Errorf("end: %w", err)
	}
	if !end.IsZero() {
		end = end.Add(time.Minute - time.Nanosecond)
	}

	out := filterAppliedMsg{
		timeRange:  query.TimeRange{Start: start, End: end},
		confidence: query.ConfidenceRange{Min: fm.confMin, Max: fm.confMax},
	}
	for _, cam := range fm.cameras {
		if fm.cameraOn[cam.ID] {
			out.cameras = append(out.cameras, cam.ID)
		}
	}
	for _, t := range fm.types {
		if fm.typeOn[t] {
			out.types = append(out.types, t)
		}
	}
	return out, nil
}

func (fm *filterModal) parseBound(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(modalTimeLayout, value, fm.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("want %s", modalTimeLayout)
	}
	return t, nil
}

// View implements Modal.
func (fm *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	label := func(i int, text string) string {
		style := styles.MutedText
		marker := "  "
		if fm.focus == i {
			style = styles.AccentText.Bold(true)
			marker = "> "
		}
		return style.Render(marker + padRight(text, 12))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	b.WriteString(label(fieldStart, "From") + fm.start.View() + "\n")
	b.WriteString(label(fieldEnd, "To") + fm.end.View() + "\n\n")

	b.WriteString(label(fieldCameras, "Cameras"))
	if len(fm.cameras) == 0 {
		b.WriteString(styles.FaintText.Render("none loaded"))
	}
	for i, cam := range fm.cameras {
		b.WriteString(fm.chip(theme, cam.ID, fm.cameraOn[cam.ID], fm.focus == fieldCameras && i == fm.cameraIndex))
	}
	b.WriteString("\n\n")

	b.WriteString(label(fieldConfMin, "Min conf") + styles.Text.Render(fmt.Sprintf("%.2f", fm.confMin)) + "\n")
	b.WriteString(label(fieldConfMax, "Max conf") + styles.Text.Render(fmt.Sprintf("%.2f", fm.confMax)) + "\n\n")

	b.WriteString(label(fieldTypes, "Types"))
	for i, t := range fm.types {
		b.WriteString(fm.chip(theme, titleCase(string(t)), fm.typeOn[t], fm.focus == fieldTypes && i == fm.typeIndex))
	}
	b.WriteString("\n\n")

	if fm.err != "" {
		b.WriteString(styles.DangerText.Render(fm.err))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("tab next · space toggle · ←/→ adjust · enter apply · esc cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func (fm *filterModal) chip(theme Theme, text string, on, cursor bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Padding(0, 1)
	if on {
		style = style.Foreground(lipgloss.Color(theme.SelectionText)).Background(lipgloss.Color(theme.SelectionBg))
	}
	if cursor {
		style = style.Underline(true).Bold(true)
	}
	return style.Render(text) + " "
}

// clampUnit bounds v to [0,1] and rounds away float drift from repeated steps.
func clampUnit(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Max(0, math.Min(1, v))
}
