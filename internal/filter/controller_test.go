package filter

import (
	"testing"
	"time"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/query"
)

var t0 = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func TestDebounce_OnlyLastKeystrokePropagates(t *testing.T) {
	c := NewController(10, 300*time.Millisecond)

	type ticket struct {
		seq uint64
		due time.Time
	}
	var tickets []ticket
	for i, text := range []string{"a", "ab", "abc"} {
		now := t0.Add(time.Duration(i) * 100 * time.Millisecond)
		seq, wait := c.Type(text, now)
		tickets = append(tickets, ticket{seq: seq, due: now.Add(wait)})
	}

	propagations := 0
	for _, tk := range tickets {
		if c.FireDebounce(tk.seq, tk.due) {
			propagations++
			if !tk.due.Equal(t0.Add(500 * time.Millisecond)) {
				t.Fatalf("propagated at %v, want t0+500ms", tk.due.Sub(t0))
			}
		}
	}
	if propagations != 1 {
		t.Fatalf("propagations = %d, want 1", propagations)
	}
	f := c.Filter()
	if f.DebouncedSearchText != "abc" || f.SearchText != "abc" {
		t.Fatalf("filter = %q/%q, want abc/abc", f.SearchText, f.DebouncedSearchText)
	}
}

func TestSearchPending_TracksDebounce(t *testing.T) {
	c := NewController(10, 300*time.Millisecond)
	if c.SearchPending() {
		t.Fatalf("SearchPending = true before typing, want false")
	}
	seq, wait := c.Type("veh", t0)
	if !c.SearchPending() {
		t.Fatalf("SearchPending = false after typing, want true")
	}
	c.FireDebounce(seq, t0.Add(wait))
	if c.SearchPending() {
		t.Fatalf("SearchPending = true after propagation, want false")
	}
	c.Type("vehicle", t0.Add(time.Second))
	c.CancelPending()
	if c.SearchPending() {
		t.Fatalf("SearchPending = true after cancel, want false")
	}
}

func TestDebounce_EarlyAndCancelledTicketsAreIgnored(t *testing.T) {
	c := NewController(10, 300*time.Millisecond)

	seq, _ := c.Type("cam", t0)
	if c.FireDebounce(seq, t0.Add(299*time.Millisecond)) {
		t.Fatalf("fired before quiet period elapsed")
	}

	c.CancelPending()
	if c.FireDebounce(seq, t0.Add(time.Second)) {
		t.Fatalf("fired after cancel")
	}
	if got := c.Filter().DebouncedSearchText; got != "" {
		t.Fatalf("DebouncedSearchText = %q, want empty", got)
	}
}

func TestSortBy_Toggle(t *testing.T) {
	c := NewController(10, 0)

	c.SortBy(query.ColumnConfidence)
	if f := c.Filter(); f.SortBy != query.ColumnConfidence || f.SortOrder != query.Ascending {
		t.Fatalf("sort = %v %v, want confidenceScore asc", f.SortBy, f.SortOrder)
	}
	c.SortBy(query.ColumnConfidence)
	if f := c.Filter(); f.SortOrder != query.Descending {
		t.Fatalf("order = %v, want desc after second click", f.SortOrder)
	}
	c.SortBy(query.ColumnCamera)
	if f := c.Filter(); f.SortBy != query.ColumnCamera || f.SortOrder != query.Ascending {
		t.Fatalf("sort = %v %v, want cameraId asc", f.SortBy, f.SortOrder)
	}
}

func TestSortBy_DefaultColumnFlips(t *testing.T) {
	c := NewController(10, 0)
	c.SortBy(query.ColumnTimestamp)
	if f := c.Filter(); f.SortBy != query.ColumnTimestamp || f.SortOrder != query.Ascending {
		t.Fatalf("sort = %v %v, want timestamp flipped to asc", f.SortBy, f.SortOrder)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Controller)
	}{
		{"time range", func(c *Controller) { c.SetTimeRange(t0, t0.Add(time.Hour)) }},
		{"camera", func(c *Controller) { c.ToggleCamera("CAM001") }},
		{"cameras", func(c *Controller) { c.SetCameras("CAM001", "CAM002") }},
		{"confidence", func(c *Controller) { c.SetConfidenceRange(0.2, 0.8) }},
		{"object type", func(c *Controller) { c.ToggleObjectType(detection.ObjectAnimal) }},
		{"scope", func(c *Controller) { c.SetScope("CAM002") }},
		{"clear", func(c *Controller) { c.ClearFilters() }},
		{"search", func(c *Controller) {
			seq, wait := c.Type("x", t0)
			c.FireDebounce(seq, t0.Add(wait))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(5, 0)
			c.SetPage(3, 5)
			tt.mutate(c)
			if got := c.Filter().CurrentPage; got != 1 {
				t.Fatalf("CurrentPage = %d, want 1", got)
			}
		})
	}
}

func TestSortKeepsPage(t *testing.T) {
	c := NewController(5, 0)
	c.SetPage(2, 3)
	c.SortBy(query.ColumnID)
	if got := c.Filter().CurrentPage; got != 2 {
		t.Fatalf("CurrentPage = %d, want 2", got)
	}
}

func TestPagingClampsToBounds(t *testing.T) {
	c := NewController(5, 0)

	c.PrevPage()
	if got := c.Filter().CurrentPage; got != 1 {
		t.Fatalf("PrevPage at 1 = %d, want 1", got)
	}
	c.NextPage(2)
	c.NextPage(2)
	if got := c.Filter().CurrentPage; got != 2 {
		t.Fatalf("NextPage past end = %d, want 2", got)
	}
	c.SetPage(9, 3)
	if got := c.Filter().CurrentPage; got != 3 {
		t.Fatalf("SetPage(9,3) = %d, want 3", got)
	}
	c.SetPage(0, 3)
	if got := c.Filter().CurrentPage; got != 1 {
		t.Fatalf("SetPage(0,3) = %d, want 1", got)
	}
}

func TestToggleAndClear(t *testing.T) {
	c := NewController(10, 0)
	c.ToggleCamera("CAM001")
	c.ToggleCamera("CAM001")
	if len(c.Filter().CameraIDs) != 0 {
		t.Fatalf("camera toggle twice should remove")
	}

	c.SetConfidenceRange(0.9, 0.1)
	if r := c.Filter().ConfidenceRange; r.Min != 0.1 || r.Max != 0.9 {
		t.Fatalf("confidence = %+v, want swapped {0.1 0.9}", r)
	}
	c.ToggleObjectType(detection.ObjectPerson)
	c.SetScope("CAM003")
	c.SortBy(query.ColumnID)
	if !c.Active() {
		t.Fatalf("Active = false, want true")
	}

	c.ClearFilters()
	f := c.Filter()
	if c.Active() || len(f.ObjectTypes) != 0 || f.ConfidenceRange.Max != 1 {
		t.Fatalf("filters not cleared: %+v", f)
	}
	if f.SortBy != query.ColumnID || f.CameraScope != "CAM003" {
		t.Fatalf("clear dropped sort or scope: %+v", f)
	}
}

func TestFilterReturnsCopy(t *testing.T) {
	c := NewController(10, 0)
	f := c.Filter()
	f.CameraIDs["CAM009"] = struct{}{}
	if len(c.Filter().CameraIDs) != 0 {
		t.Fatalf("Filter() exposed internal set")
	}
}
