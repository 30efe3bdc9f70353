// Package app is the composition root for lookout.
//
// Run loads configuration, installs the file logger, starts the optional
// metrics endpoint, then wires the pieces together:
//
//	api.Client ──Reload──> state.Store <──Prepend── live.Sink <── stream.Manager
//	                            │                       │
//	                            └── Snapshot ──> ui <── Notices
//
// The initial bulk fetch runs in the background so the UI is usable while the
// API answers; a failed fetch shows in the header and r retries it. The stream
// manager is closed when the UI exits, which sends a normal close frame.
package app
