package query

import (
	"slices"
	"strings"
	"time"

	"github.com/five82/lookout/internal/detection"
)

// Result is the page handed to presentation.
type Result struct {
	Items        []detection.Record
	CurrentPage  int
	TotalPages   int
	TotalMatches int
}

// Engine runs the query pipeline. Location controls the locale rendering of
// timestamps for search; nil means time.Local.
type Engine struct {
	Location *time.Location
}

// Run filters, sorts and paginates records. Neither argument is modified.
func (e Engine) Run(records []detection.Record, f Filter) Result {
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}
	needle := strings.ToLower(strings.TrimSpace(f.DebouncedSearchText))

	rows := make([]row, 0, len(records))
	for _, rec := range records {
		r := newRow(rec)
		if f.CameraScope != "" && rec.CameraID != f.CameraScope {
			continue
		}
		if needle != "" && !matchesSearch(r, needle, loc) {
			continue
		}
		if f.TimeRange.IsSet() && (!r.valid || !f.TimeRange.contains(r.at)) {
			continue
		}
		if len(f.CameraIDs) > 0 {
			if _, ok := f.CameraIDs[rec.CameraID]; !ok {
				continue
			}
		}
		score := rec.ConfidenceScore.Float()
		if score < f.ConfidenceRange.Min || score > f.ConfidenceRange.Max {
			continue
		}
		if len(f.ObjectTypes) > 0 {
			if _, ok := f.ObjectTypes[rec.ObjectType]; !ok {
				continue
			}
		}
		rows = append(rows, r)
	}

	sortRows(rows, f.SortBy, f.SortOrder)
	return paginate(rows, f.CurrentPage, f.PageSize)
}

func newRow(rec detection.Record) row {
	at := rec.ParsedTime()
	return row{rec: rec, at: at, valid: !at.IsZero()}
}

func matchesSearch(r row, needle string, loc *time.Location) bool {
	for _, c := range Columns() {
		for _, value := range columnDefs[c].search(r, loc) {
			if value != "" && strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

// sortRows sorts stably. Unparseable timestamps sort last in both directions.
func sortRows(rows []row, by Column, order Order) {
	if !by.valid() {
		by = ColumnTimestamp
	}
	compare := columnDefs[by].compare
	slices.SortStableFunc(rows, func(a, b row) int {
		if by == ColumnTimestamp && a.valid != b.valid {
			if a.valid {
				return -1
			}
			return 1
		}
		c := compare(a, b)
		if order == Descending {
			c = -c
		}
		return c
	})
}

func paginate(rows []row, page, size int) Result {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := (len(rows) + size - 1) / size
	if total < 1 {
		total = 1
	}
	res := Result{
		Items:        []detection.Record{},
		CurrentPage:  page,
		TotalPages:   total,
		TotalMatches: len(rows),
	}
	if page < 1 {
		return res
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return res
	}
	end := min(start+size, len(rows))
	res.Items = make([]detection.Record, 0, end-start)
	for _, r := range rows[start:end] {
		res.Items = append(res.Items, r.rec)
	}
	return res
}
