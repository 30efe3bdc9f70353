package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
)

// ErrNoPlayer is returned when no player command is configured.
var ErrNoPlayer = errors.New("no player command configured")

// CommandTarget opens a source in an external player such as mpv. The player
// runs detached from the UI and is not supervised.
type CommandTarget struct {
	Command string
	Args    []string
}

// Attach starts the player with the source's best URI as its last argument.
func (t CommandTarget) Attach(_ context.Context, src Source) error {
	if t.Command == "" {
		return ErrNoPlayer
	}
	args := append(slices.Clone(t.Args), src.Best())
	cmd := exec.Command(t.Command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", t.Command, err)
	}
	slog.Info("player started", "command", t.Command, "pid", cmd.Process.Pid, "url", src.Best())

	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("player exited", "command", t.Command, "error", err)
		}
	}()
	return nil
}
