package query

import (
	"maps"
	"time"

	"github.com/five82/lookout/internal/detection"
)

// DefaultPageSize is used when a Filter carries no page size.
const DefaultPageSize = 10

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// TimeRange bounds timestamps inclusively. A zero side is unset.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsSet reports whether either bound is set.
func (r TimeRange) IsSet() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

func (r TimeRange) contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// ConfidenceRange bounds confidence scores inclusively.
type ConfidenceRange struct {
	Min float64
	Max float64
}

// Filter is the full set of user-controlled query parameters.
type Filter struct {
	SearchText          string
	DebouncedSearchText string
	SortBy              Column
	SortOrder           Order
	TimeRange           TimeRange
	CameraIDs           map[string]struct{}
	ConfidenceRange     ConfidenceRange
	ObjectTypes         map[detection.ObjectType]struct{}
	// CameraScope restricts results to one camera when non-empty.
	CameraScope string
	CurrentPage int
	PageSize    int
}

// DefaultFilter returns the filter a freshly opened detections view starts with.
func DefaultFilter(pageSize int) Filter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Filter{
		SortBy:          ColumnTimestamp,
		SortOrder:       Descending,
		CameraIDs:       map[string]struct{}{},
		ConfidenceRange: ConfidenceRange{Min: 0, Max: 1},
		ObjectTypes:     map[detection.ObjectType]struct{}{},
		CurrentPage:     1,
		PageSize:        pageSize,
	}
}

// Clone returns a copy that shares no sets with f.
func (f Filter) Clone() Filter {
	out := f
	out.CameraIDs = maps.Clone(f.CameraIDs)
	out.ObjectTypes = maps.Clone(f.ObjectTypes)
	if out.CameraIDs == nil {
		out.CameraIDs = map[string]struct{}{}
	}
	if out.ObjectTypes == nil {
		out.ObjectTypes = map[detection.ObjectType]struct{}{}
	}
	return out
}
