package playback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"

	"github.com/five82/lookout/internal/detection"
)

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=800000,RESOLUTION=640x360
low/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=2500000,RESOLUTION=1280x720,CODECS="avc1.64001f"
high/index.m3u8
`

const livePlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:4
#EXT-X-MEDIA-SEQUENCE:10
#EXTINF:4.000,
seg10.ts
#EXTINF:4.000,
seg11.ts
`

const vodPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:4
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:4.000,
seg0.ts
#EXT-X-ENDLIST
`

func newHLSServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		switch r.URL.Path {
		case "/cam1/master.m3u8":
			_, _ = w.Write([]byte(masterPlaylist))
		case "/cam1/high/index.m3u8", "/cam1/low/index.m3u8":
			_, _ = w.Write([]byte(livePlaylist))
		case "/cam2/archive.m3u8":
			_, _ = w.Write([]byte(vodPlaylist))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type recordingTarget struct {
	got []Source
	err error
}

func (r *recordingTarget) Attach(_ context.Context, src Source) error {
	r.got = append(r.got, src)
	return r.err
}

func TestLoader_MasterPlaylist(t *testing.T) {
	server := newHLSServer(t)
	l := NewLoader(server.Client())

	src, err := l.Load(context.Background(), server.URL+"/cam1/master.m3u8")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(src.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(src.Variants))
	}
	if src.Variants[0].Bandwidth != 2500000 || src.Variants[0].Resolution != "1280x720" {
		t.Fatalf("first variant = %#v, want 720p", src.Variants[0])
	}
	if want := server.URL + "/cam1/high/index.m3u8"; src.Best() != want {
		t.Fatalf("Best = %q, want %q", src.Best(), want)
	}
	if !src.Live || src.Segments != 2 {
		t.Fatalf("src = %#v, want live with 2 segments", src)
	}
}

func TestLoader_MediaPlaylist(t *testing.T) {
	server := newHLSServer(t)
	src, err := NewLoader(server.Client()).Load(context.Background(), server.URL+"/cam2/archive.m3u8")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if src.Live || len(src.Variants) != 0 || src.Segments != 1 {
		t.Fatalf("src = %#v, want closed media playlist", src)
	}
	if src.Best() != server.URL+"/cam2/archive.m3u8" {
		t.Fatalf("Best = %q, want playlist url", src.Best())
	}
}

func TestLoader_NotFound(t *testing.T) {
	server := newHLSServer(t)
	_, err := NewLoader(server.Client()).Load(context.Background(), server.URL+"/missing.m3u8")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("Load error = %v, want status 404", err)
	}
}

func TestLoader_AttachHandsSourceToTarget(t *testing.T) {
	server := newHLSServer(t)
	l := NewLoader(server.Client())
	target := &recordingTarget{}

	cam := detection.Camera{ID: "CAM001", StreamURL: server.URL + "/cam2/archive.m3u8"}
	if _, err := l.Attach(context.Background(), cam, target); err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if len(target.got) != 1 || target.got[0].URL != cam.StreamURL {
		t.Fatalf("target got %#v, want one source", target.got)
	}

	_, err := l.Attach(context.Background(), detection.Camera{ID: "CAM009"}, target)
	if !errors.Is(err, ErrNoStream) {
		t.Fatalf("Attach without url = %v, want ErrNoStream", err)
	}

	target.err = errors.New("player busy")
	if _, err := l.Attach(context.Background(), cam, target); err == nil || !strings.Contains(err.Error(), "attach CAM001") {
		t.Fatalf("Attach error = %v, want wrapped target error", err)
	}
}

func TestCommandTarget(t *testing.T) {
	if err := (CommandTarget{}).Attach(context.Background(), Source{URL: "x"}); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("Attach without command = %v, want ErrNoPlayer", err)
	}

	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	if err := (CommandTarget{Command: bin}).Attach(context.Background(), Source{URL: "http://cam/1.m3u8"}); err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
}
