package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for the side-by-side chart grid.
	LayoutWideWidth = 120
)

// chromeHeight is the rows taken by the header, command bar and notice line.
const chromeHeight = 3

const (
	// LogTailBytes bounds the initial read of the log file.
	LogTailBytes = 256 * 1024

	// LogBufferLimit is the maximum number of log lines kept in memory.
	LogBufferLimit = 2000
)

const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second

	// NoticeTTL is how long a notice stays on screen.
	NoticeTTL = 4 * time.Second

	// maxNotices bounds the notice line.
	maxNotices = 3

	reloadTimeout = 10 * time.Second
	playTimeout   = 15 * time.Second
)
