package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/lookout/internal/detection"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Detections  []detection.Record
	Cameras     []detection.Camera
	Loaded      bool // a bulk fetch has succeeded at least once
	LastUpdated time.Time
	LastError   error
	LiveMerged  int // records prepended from the stream since startup
}

// CameraByID returns the camera with the given id.
func (s Snapshot) CameraByID(id string) (detection.Camera, bool) {
	for _, cam := range s.Cameras {
		if cam.ID == id {
			return cam, true
		}
	}
	return detection.Camera{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Prepend places rec at the head of the working set. Records are not
// deduplicated by id. It returns the new working-set size.
func (s *Store) Prepend(rec detection.Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]detection.Record, 0, len(s.snapshot.Detections)+1)
	next = append(next, rec)
	next = append(next, s.snapshot.Detections...)
	s.snapshot.Detections = next
	s.snapshot.LiveMerged++
	s.snapshot.LastUpdated = time.Now()
	return len(next)
}

// Load applies a bulk fetch result. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
//
// Records merged from the stream before the first successful load stay at the
// head of the set. Later loads replace the set with the fetched snapshot.
func (s *Store) Load(dets []detection.Record, cams []detection.Camera, err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return len(s.snapshot.Detections)
	}

	var next []detection.Record
	if !s.snapshot.Loaded {
		next = make([]detection.Record, 0, len(s.snapshot.Detections)+len(dets))
		next = append(next, s.snapshot.Detections...)
		next = append(next, dets...)
	} else {
		next = cloneRecords(dets)
	}
	s.snapshot.Detections = next
	s.snapshot.Cameras = cloneCameras(cams)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	return len(next)
}

// Snapshot returns the current snapshot. Its slices must not be modified.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecords(items []detection.Record) []detection.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]detection.Record, len(items))
	copy(dup, items)
	return dup
}

func cloneCameras(items []detection.Camera) []detection.Camera {
	if len(items) == 0 {
		return nil
	}
	dup := make([]detection.Camera, len(items))
	copy(dup, items)
	return dup
}
