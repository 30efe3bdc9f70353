// Package playback resolves a camera's HLS stream and hands it to a player.
// Responsibility ends once the target has been attached; playback state is
// never tracked.
package playback

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/grafov/m3u8"

	"github.com/five82/lookout/internal/detection"
)

// ErrNoStream is returned when a camera has no stream URL.
var ErrNoStream = errors.New("camera has no stream url")

// Variant is one rendition of a master playlist.
type Variant struct {
	URI        string
	Bandwidth  uint32
	Resolution string
	Codecs     string
}

// Source is a resolved HLS stream.
type Source struct {
	URL      string
	Variants []Variant // highest bandwidth first; empty for a media playlist
	Live     bool      // the playlist has no ENDLIST tag
	Segments int
}

// Best returns the URI a player should open.
func (s Source) Best() string {
	if len(s.Variants) > 0 {
		return s.Variants[0].URI
	}
	return s.URL
}

// Target receives a resolved source.
type Target interface {
	Attach(ctx context.Context, src Source) error
}

// Loader fetches and decodes playlists.
type Loader struct {
	http *http.Client
}

// NewLoader returns a Loader. A nil client uses a 10 second timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{http: client}
}

// Attach resolves cam's stream and hands it to target.
func (l *Loader) Attach(ctx context.Context, cam detection.Camera, target Target) (Source, error) {
	if strings.TrimSpace(cam.StreamURL) == "" {
		return Source{}, fmt.Errorf("%s: %w", cam.ID, ErrNoStream)
	}
	src, err := l.Load(ctx, cam.StreamURL)
	if err != nil {
		return Source{}, err
	}
	if err := target.Attach(ctx, src); err != nil {
		return src, fmt.Errorf("attach %s: %w", cam.ID, err)
	}
	return src, nil
}

// Load fetches the playlist at streamURL. For a master playlist the variants
// are resolved against it and the highest-bandwidth rendition is fetched to
// decide whether the stream is live.
func (l *Loader) Load(ctx context.Context, streamURL string) (Source, error) {
	base, err := url.Parse(streamURL)
	if err != nil {
		return Source{}, fmt.Errorf("parse stream url: %w", err)
	}

	pl, kind, err := l.fetch(ctx, base.String())
	if err != nil {
		return Source{}, err
	}

	src := Source{URL: base.String()}
	switch kind {
	case m3u8.MEDIA:
		media := pl.(*m3u8.MediaPlaylist)
		src.Live = !media.Closed
		src.Segments = int(media.Count())
		return src, nil
	case m3u8.MASTER:
		master := pl.(*m3u8.MasterPlaylist)
		for _, v := range master.Variants {
			if v == nil || v.Iframe {
				continue
			}
			ref, err := url.Parse(v.URI)
			if err != nil {
				continue
			}
			src.Variants = append(src.Variants, Variant{
				URI:        base.ResolveReference(ref).String(),
				Bandwidth:  v.Bandwidth,
				Resolution: v.Resolution,
				Codecs:     v.Codecs,
			})
		}
		if len(src.Variants) == 0 {
			return Source{}, fmt.Errorf("master playlist %s has no variants", streamURL)
		}
		slices.SortStableFunc(src.Variants, func(a, b Variant) int { return cmp.Compare(b.Bandwidth, a.Bandwidth) })

		child, childKind, err := l.fetch(ctx, src.Variants[0].URI)
		if err != nil {
			return Source{}, err
		}
		if childKind != m3u8.MEDIA {
			return Source{}, fmt.Errorf("variant %s is not a media playlist", src.Variants[0].URI)
		}
		media := child.(*m3u8.MediaPlaylist)
		src.Live = !media.Closed
		src.Segments = int(media.Count())
		return src, nil
	default:
		return Source{}, fmt.Errorf("unknown playlist type for %s", streamURL)
	}
}

func (l *Loader) fetch(ctx context.Context, target string) (m3u8.Playlist, m3u8.ListType, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch playlist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("playlist %s returned status %d", target, resp.StatusCode)
	}
	pl, kind, err := m3u8.DecodeFrom(io.LimitReader(resp.Body, 4<<20), false)
	if err != nil {
		return nil, 0, fmt.Errorf("decode playlist: %w", err)
	}
	return pl, kind, nil
}
