// Package filter owns the operator's filter state for the detections view and
// applies discrete user actions to it.
//
// Any change that alters which records match resets the page to 1. Sorting
// keeps the current page.
package filter

import (
	"time"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/query"
)

// Controller mutates a query.Filter. It is not safe for concurrent use; the UI
// event loop owns it.
type Controller struct {
	f        query.Filter
	debounce *Debouncer
}

// NewController returns a Controller holding the default filter.
func NewController(pageSize int, delay time.Duration) *Controller {
	return &Controller{
		f:        query.DefaultFilter(pageSize),
		debounce: NewDebouncer(delay),
	}
}

// Filter returns a copy of the current filter.
func (c *Controller) Filter() query.Filter {
	return c.f.Clone()
}

// Type sets the raw search text and schedules its propagation.
func (c *Controller) Type(text string, now time.Time) (seq uint64, wait time.Duration) {
	c.f.SearchText = text
	return c.debounce.Push(text, now)
}

// FireDebounce propagates the pending search text when seq is current and the
// quiet period has passed. It reports whether the filter changed.
func (c *Controller) FireDebounce(seq uint64, now time.Time) bool {
	text, ok := c.debounce.Fire(seq, now)
	if !ok {
		return false
	}
	c.f.DebouncedSearchText = text
	c.f.CurrentPage = 1
	return true
}

// CancelPending drops any search text that has not propagated yet.
func (c *Controller) CancelPending() {
	c.debounce.Cancel()
}

// SearchPending reports whether typed search text is still waiting out the
// debounce period.
func (c *Controller) SearchPending() bool {
	return c.debounce.Pending()
}

// SetTimeRange sets the inclusive time bounds. Inverted bounds are swapped.
func (c *Controller) SetTimeRange(start, end time.Time) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		start, end = end, start
	}
	c.f.TimeRange = query.TimeRange{Start: start, End: end}
	c.f.CurrentPage = 1
}

// ToggleCamera adds or removes id from the camera set.
func (c *Controller) ToggleCamera(id string) {
	if _, ok := c.f.CameraIDs[id]; ok {
		delete(c.f.CameraIDs, id)
	} else {
		c.f.CameraIDs[id] = struct{}{}
	}
	c.f.CurrentPage = 1
}

// SetCameras replaces the camera set.
func (c *Controller) SetCameras(ids ...string) {
	c.f.CameraIDs = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.f.CameraIDs[id] = struct{}{}
	}
	c.f.CurrentPage = 1
}

// SetConfidenceRange sets the inclusive confidence bounds.
func (c *Controller) SetConfidenceRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	c.f.ConfidenceRange = query.ConfidenceRange{Min: lo, Max: hi}
	c.f.CurrentPage = 1
}

// ToggleObjectType adds or removes t from the object type set.
func (c *Controller) ToggleObjectType(t detection.ObjectType) {
	if _, ok := c.f.ObjectTypes[t]; ok {
		delete(c.f.ObjectTypes, t)
	} else {
		c.f.ObjectTypes[t] = struct{}{}
	}
	c.f.CurrentPage = 1
}

// SetScope restricts results to one camera. An empty id clears the scope.
func (c *Controller) SetScope(cameraID string) {
	if c.f.CameraScope == cameraID {
		return
	}
	c.f.CameraScope = cameraID
	c.f.CurrentPage = 1
}

// SortBy applies a header click: the active column flips direction, any other
// column becomes active in ascending order.
func (c *Controller) SortBy(col query.Column) {
	if c.f.SortBy == col {
		c.f.SortOrder = c.f.SortOrder.Flip()
		return
	}
	c.f.SortBy = col
	c.f.SortOrder = query.Ascending
}

// NextPage advances one page unless already on the last of totalPages.
func (c *Controller) NextPage(totalPages int) {
	if c.f.CurrentPage < totalPages {
		c.f.CurrentPage++
	}
}

// PrevPage moves back one page unless already on the first.
func (c *Controller) PrevPage() {
	if c.f.CurrentPage > 1 {
		c.f.CurrentPage--
	}
}

// SetPage jumps to page, clamped to [1, totalPages].
func (c *Controller) SetPage(page, totalPages int) {
	c.f.CurrentPage = max(1, min(page, max(1, totalPages)))
}

// ClearFilters resets search and structured filters. Sort, page size and
// camera scope are kept.
func (c *Controller) ClearFilters() {
	c.debounce.Cancel()
	def := query.DefaultFilter(c.f.PageSize)
	def.SortBy = c.f.SortBy
	def.SortOrder = c.f.SortOrder
	def.CameraScope = c.f.CameraScope
	c.f = def
}

// Active reports whether any search or structured filter is narrowing results.
func (c *Controller) Active() bool {
	f := c.f
	return f.DebouncedSearchText != "" ||
		f.TimeRange.IsSet() ||
		len(f.CameraIDs) > 0 ||
		len(f.ObjectTypes) > 0 ||
		f.ConfidenceRange != (query.ConfidenceRange{Min: 0, Max: 1})
}
