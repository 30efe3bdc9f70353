// Package state holds the in-memory working set of detections and cameras.
//
// The live sink is the only writer of detections; the bulk loader writes the
// initial snapshot and manual reloads. The UI reads Snapshot values on its own
// schedule and renders them.
//
// Snapshots are immutable. Prepend never writes into a backing array that a
// previous Snapshot may still reference, so readers holding an older Snapshot
// keep seeing a complete, consistent set.
//
// The zero Store is ready to use.
package state
