package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/lookout/internal/api"
	"github.com/five82/lookout/internal/observability"
	"github.com/five82/lookout/internal/state"
)

const initialLoadTimeout = 15 * time.Second

// loader performs the bulk snapshot fetch into the store.
type loader struct {
	client api.Fetcher
	store  *state.Store
}

// Reload fetches detections and cameras. A failure is recorded on the store,
// which keeps the records it already had, and is returned to the caller.
func (l loader) Reload(ctx context.Context) error {
	start := time.Now()
	dets, err := l.client.FetchDetections(ctx)
	if err != nil {
		l.store.Load(nil, nil, err)
		slog.Warn("detections fetch failed", "error", err)
		return fmt.Errorf("fetch detections: %w", err)
	}
	cams, err := l.client.FetchCameras(ctx)
	if err != nil {
		l.store.Load(nil, nil, err)
		slog.Warn("cameras fetch failed", "error", err)
		return fmt.Errorf("fetch cameras: %w", err)
	}

	size := l.store.Load(dets, cams, nil)
	observability.WorkingSetSize.Set(float64(size))
	slog.Info("snapshot loaded",
		"detections", len(dets),
		"cameras", len(cams),
		"working_set", size,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// startInitialLoad runs the first fetch in the background so the UI can come
// up while the API answers. It returns immediately.
func startInitialLoad(ctx context.Context, l loader) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
		defer cancel()
		_ = l.Reload(ctx)
	}()
}
