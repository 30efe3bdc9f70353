// Package logtail reads lookout's own log file for the Logs view.
//
// Read returns the last N lines using a ring buffer, so memory stays bounded
// by N regardless of file size. Follow returns only what was appended since a
// previous offset and copes with the file being truncated or rotated. Parse
// splits lines written by the slog text handler into time, level, message and
// remaining attributes for display.
package logtail
