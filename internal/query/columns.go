package query

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/five82/lookout/internal/detection"
)

// Column identifies a displayed detection field.
type Column int

const (
	ColumnID Column = iota
	ColumnTimestamp
	ColumnCamera
	ColumnObjectType
	ColumnConfidence
)

const (
	localeLayout = "1/2/2006, 3:04:05 PM"
	isoLayout    = "2006-01-02T15:04:05.000Z"
)

// row is a record with its timestamp parsed once per run.
type row struct {
	rec   detection.Record
	at    time.Time
	valid bool
}

type columnDef struct {
	name    string
	title   string
	search  func(r row, loc *time.Location) []string
	compare func(a, b row) int
}

var columnDefs = [...]columnDef{
	ColumnID: {
		name:  "id",
		title: "ID",
		search: func(r row, _ *time.Location) []string {
			return []string{strconv.FormatInt(r.rec.ID, 10)}
		},
		compare: func(a, b row) int { return cmp.Compare(a.rec.ID, b.rec.ID) },
	},
	ColumnTimestamp: {
		name:  "timestamp",
		title: "Timestamp",
		search: func(r row, loc *time.Location) []string {
			if !r.valid {
				return []string{r.rec.Timestamp}
			}
			return []string{FormatLocal(r.at, loc), r.at.UTC().Format(isoLayout)}
		},
		compare: func(a, b row) int { return a.at.Compare(b.at) },
	},
	ColumnCamera: {
		name:    "cameraId",
		title:   "Camera",
		search:  func(r row, _ *time.Location) []string { return []string{r.rec.CameraID} },
		compare: func(a, b row) int { return strings.Compare(a.rec.CameraID, b.rec.CameraID) },
	},
	ColumnObjectType: {
		name:    "objectType",
		title:   "Object",
		search:  func(r row, _ *time.Location) []string { return []string{string(r.rec.ObjectType)} },
		compare: func(a, b row) int { return strings.Compare(string(a.rec.ObjectType), string(b.rec.ObjectType)) },
	},
	ColumnConfidence: {
		name:  "confidenceScore",
		title: "Confidence",
		search: func(r row, _ *time.Location) []string {
			return []string{strconv.FormatFloat(r.rec.ConfidenceScore.Float(), 'f', -1, 64)}
		},
		compare: func(a, b row) int { return cmp.Compare(a.rec.ConfidenceScore, b.rec.ConfidenceScore) },
	},
}

// Columns returns every column in display order.
func Columns() []Column {
	return []Column{ColumnID, ColumnTimestamp, ColumnCamera, ColumnObjectType, ColumnConfidence}
}

func (c Column) valid() bool {
	return c >= ColumnID && c <= ColumnConfidence
}

// String returns the record field name for c.
func (c Column) String() string {
	if !c.valid() {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnDefs[c].name
}

// Title returns the table header for c.
func (c Column) Title() string {
	if !c.valid() {
		return ""
	}
	return columnDefs[c].title
}

// FormatLocal renders t the way the table and search display it.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(localeLayout)
}
