package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/playback"
	"github.com/five82/lookout/internal/state"
)

type fakeFetcher struct {
	dets    []detection.Record
	cams    []detection.Camera
	detsErr error
	camsErr error
}

func (f *fakeFetcher) FetchDetections(context.Context) ([]detection.Record, error) {
	return f.dets, f.detsErr
}

func (f *fakeFetcher) FetchCameras(context.Context) ([]detection.Camera, error) {
	return f.cams, f.camsErr
}

func TestLoader_ReloadPopulatesStore(t *testing.T) {
	store := &state.Store{}
	f := &fakeFetcher{
		dets: []detection.Record{{ID: 1, CameraID: "CAM001"}, {ID: 2, CameraID: "CAM002"}},
		cams: []detection.Camera{{ID: "CAM001"}, {ID: "CAM002"}},
	}
	l := loader{client: f, store: store}

	if err := l.Reload(context.Background()); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	snap := store.Snapshot()
	if !snap.Loaded || len(snap.Detections) != 2 || len(snap.Cameras) != 2 {
		t.Fatalf("snapshot = %+v, want loaded with 2 detections and 2 cameras", snap)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestLoader_ReloadErrorKeepsData(t *testing.T) {
	store := &state.Store{}
	f := &fakeFetcher{
		dets: []detection.Record{{ID: 1}},
		cams: []detection.Camera{{ID: "CAM001"}},
	}
	l := loader{client: f, store: store}
	if err := l.Reload(context.Background()); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	f.camsErr = errors.New("connection refused")
	err := l.Reload(context.Background())
	if err == nil || !strings.Contains(err.Error(), "fetch cameras") {
		t.Fatalf("Reload error = %v, want fetch cameras error", err)
	}
	snap := store.Snapshot()
	if len(snap.Detections) != 1 || snap.Detections[0].ID != 1 {
		t.Fatalf("detections = %+v, want previous data kept", snap.Detections)
	}
	if snap.LastError == nil || !strings.Contains(snap.LastError.Error(), "connection refused") {
		t.Fatalf("LastError = %v, want connection refused", snap.LastError)
	}
}

func TestNewPlayer_SplitsCommand(t *testing.T) {
	p := newPlayer([]string{"mpv", "--really-quiet"})
	target, ok := p.target.(playback.CommandTarget)
	if !ok {
		t.Fatalf("target = %T, want playback.CommandTarget", p.target)
	}
	if target.Command != "mpv" || len(target.Args) != 1 || target.Args[0] != "--really-quiet" {
		t.Fatalf("target = %+v, want mpv --really-quiet", target)
	}

	empty := newPlayer(nil)
	_, err := empty.Play(context.Background(), detection.Camera{ID: "CAM001"})
	if !errors.Is(err, playback.ErrNoStream) {
		t.Fatalf("Play without stream url error = %v, want ErrNoStream", err)
	}
}
