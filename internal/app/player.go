package app

import (
	"context"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/playback"
)

// player resolves a camera's HLS playlist and hands it to the external player.
type player struct {
	loader *playback.Loader
	target playback.Target
}

func (p player) Play(ctx context.Context, cam detection.Camera) (playback.Source, error) {
	return p.loader.Attach(ctx, cam, p.target)
}

func newPlayer(command []string) player {
	target := playback.CommandTarget{}
	if len(command) > 0 {
		target.Command = command[0]
		target.Args = command[1:]
	}
	return player{loader: playback.NewLoader(nil), target: target}
}
