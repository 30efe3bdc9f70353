package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/aggregate"
	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/live"
)

func (m Model) handleCamerasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cams := m.snapshot.Cameras
	switch {
	case key.Matches(msg, m.keys.ClearScope):
		m.ctrl.SetScope("")
		m.selected = 0
		m.recompute()
		return m, nil
	}
	if len(cams) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cameraRow < len(cams)-1 {
			m.cameraRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cameraRow > 0 {
			m.cameraRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.cameraRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cameraRow = len(cams) - 1
	case key.Matches(msg, m.keys.Scope):
		m.ctrl.SetScope(cams[m.cameraRow].ID)
		m.selected = 0
		m.recompute()
		m.view = ViewDetections
	case key.Matches(msg, m.keys.FilterCamera):
		id := cams[m.cameraRow].ID
		m.ctrl.ToggleCamera(id)
		m.selected = 0
		m.recompute()
		text := "Filtering on " + id
		if _, on := m.ctrl.Filter().CameraIDs[id]; !on {
			text = "Removed filter on " + id
		}
		m.pushToast(live.Notice{Level: live.LevelInfo, Text: text})
	case key.Matches(msg, m.keys.Play):
		if m.player == nil {
			m.pushToast(live.Notice{Level: live.LevelError, Text: "No player configured (set player_command)"})
			return m, nil
		}
		cam := cams[m.cameraRow]
		m.pushToast(live.Notice{Level: live.LevelInfo, Text: "Opening stream for " + cam.ID})
		return m, playCmd(m.ctx, m.player, cam)
	}
	return m, nil
}

func (m *Model) handlePlayback(msg playbackMsg) {
	if msg.err != nil {
		m.pushToast(live.Notice{Level: live.LevelError, Text: fmt.Sprintf("Play %s: %v", msg.camera, msg.err)})
		return
	}
	kind := "recording"
	if msg.source.Live {
		kind = "live"
	}
	text := fmt.Sprintf("Playing %s (%s", msg.camera, kind)
	if len(msg.source.Variants) > 0 && msg.source.Variants[0].Resolution != "" {
		text += ", " + msg.source.Variants[0].Resolution
	}
	m.pushToast(live.Notice{Level: live.LevelInfo, Text: text + ")"})
}

// renderCameras renders the camera list with per-camera activity.
func (m Model) renderCameras() string {
	height := m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := m.width - 2

	if len(m.snapshot.Cameras) == 0 {
		msg := "No cameras loaded"
		if !m.snapshot.Loaded {
			msg = "Loading cameras..."
		}
		return m.renderTitledBox("Cameras", styles.MutedText.Render(msg), m.width, height, true)
	}

	counts := make(map[string]int)
	for _, a := range aggregate.Cameras(m.snapshot.Detections) {
		counts[a.CameraID] = a.Count
	}
	f := m.ctrl.Filter()
	scope := f.CameraScope

	idW, countW := 10, 10
	rest := max(20, inner-idW-countW-2)
	nameW := rest * 40 / 100
	locW := rest - nameW

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Bold(true)
	lines := []string{headerStyle.Render(
		"  " + padRight("ID", idW) + padRight("Name", nameW) + padRight("Location", locW) + padLeft("Detections", countW))}

	for i, cam := range m.snapshot.Cameras {
		_, filtered := f.CameraIDs[cam.ID]
		lines = append(lines, m.renderCameraRow(cam, counts[cam.ID], cam.ID == scope, filtered, i == m.cameraRow, idW, nameW, locW, countW))
	}
	if cam := m.selectedCamera(); cam != nil {
		lines = append(lines, "", styles.FaintText.Render("Stream: ")+styles.MutedText.Render(truncate(orDash(cam.StreamURL), inner-8)))
	}
	return m.renderTitledBox(fmt.Sprintf("Cameras (%d)", len(m.snapshot.Cameras)), strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) renderCameraRow(cam detection.Camera, count int, scoped, filtered, selected bool, idW, nameW, locW, countW int) string {
	bg, fg := m.theme.FocusBg, m.theme.Text
	if selected {
		bg, fg = m.theme.SelectionBg, m.theme.SelectionText
	}
	style := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
	marker := "  "
	switch {
	case scoped:
		marker = "▸ "
	case filtered:
		marker = "• "
	}
	return style.Render(marker + padRight(cam.ID, idW) + padRight(orDash(cam.Name), nameW) +
		padRight(orDash(cam.Location), locW) + padLeft(fmt.Sprintf("%d", count), countW))
}

func (m Model) selectedCamera() *detection.Camera {
	if m.cameraRow < 0 || m.cameraRow >= len(m.snapshot.Cameras) {
		return nil
	}
	cam := m.snapshot.Cameras[m.cameraRow]
	return &cam
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
