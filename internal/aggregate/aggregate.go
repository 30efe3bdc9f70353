// Package aggregate reduces the working set to the arrays the charts render.
// Records with unparseable timestamps are skipped by the time-based series.
package aggregate

import (
	"maps"
	"slices"
	"time"

	"github.com/five82/lookout/internal/detection"
)

// DailyCount is the number of detections on one calendar day.
type DailyCount struct {
	Date  time.Time // midnight in the aggregation location
	Count int
}

// TypeCount is the number of detections of one object type.
type TypeCount struct {
	Type  detection.ObjectType
	Count int
}

// HourlyCount is the number of detections in one clock hour.
type HourlyCount struct {
	Start time.Time
	Label string
	Count int
}

// CameraActivity is the number of detections from one camera.
type CameraActivity struct {
	CameraID string
	Count    int
}

// Daily counts detections per calendar day in loc, oldest day first.
func Daily(records []detection.Record, loc *time.Location) []DailyCount {
	if loc == nil {
		loc = time.Local
	}
	counts := map[time.Time]int{}
	for _, rec := range records {
		at := rec.ParsedTime()
		if at.IsZero() {
			continue
		}
		at = at.In(loc)
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		counts[day]++
	}

	days := slices.SortedFunc(maps.Keys(counts), func(a, b time.Time) int { return a.Compare(b) })
	out := make([]DailyCount, 0, len(days))
	for _, day := range days {
		out = append(out, DailyCount{Date: day, Count: counts[day]})
	}
	return out
}

// ObjectTypes counts detections per object type. Known types come first in
// their display order, then any other values sorted by name. Types with no
// detections are omitted.
func ObjectTypes(records []detection.Record) []TypeCount {
	counts := map[detection.ObjectType]int{}
	for _, rec := range records {
		counts[rec.ObjectType]++
	}

	var out []TypeCount
	for _, t := range detection.ObjectTypes() {
		if n := counts[t]; n > 0 {
			out = append(out, TypeCount{Type: t, Count: n})
			delete(counts, t)
		}
	}
	for _, t := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, TypeCount{Type: t, Count: counts[t]})
	}
	return out
}

// Hourly returns 24 buckets covering the last 24 full hours up to and
// including now's hour, oldest first. Records outside the window are ignored.
func Hourly(records []detection.Record, now time.Time) []HourlyCount {
	// Truncate works on absolute time and would misalign zones with
	// half-hour offsets.
	last := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	first := last.Add(-23 * time.Hour)

	out := make([]HourlyCount, 24)
	for i := range out {
		start := first.Add(time.Duration(i) * time.Hour)
		out[i] = HourlyCount{Start: start, Label: start.Format("15:04")}
	}
	for _, rec := range records {
		at := rec.ParsedTime()
		if at.IsZero() || at.Before(first) || !at.Before(last.Add(time.Hour)) {
			continue
		}
		idx := int(at.Sub(first) / time.Hour)
		out[idx].Count++
	}
	return out
}

// Cameras counts detections per camera id, sorted by id.
func Cameras(records []detection.Record) []CameraActivity {
	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.CameraID]++
	}
	out := make([]CameraActivity, 0, len(counts))
	for _, id := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, CameraActivity{CameraID: id, Count: counts[id]})
	}
	return out
}
