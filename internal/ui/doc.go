// Package ui provides the Bubble Tea dashboard for lookout.
//
// # Views
//
//   - Detections: searchable, filterable, sortable and paginated table of the
//     working set. Search text is debounced before it reaches the query.
//   - Cameras: camera list with per-camera counts. Enter scopes the detections
//     view to one camera and p opens its HLS stream in the configured player.
//   - Charts: detections per day, per object type, per camera and the last 24
//     hours as a sparkline.
//   - Logs: tail of lookout's own slog file with follow mode.
//
// # Event Flow
//
//  1. Run builds the Model and starts the program.
//  2. A tick copies the latest state.Store snapshot into the model and reruns
//     the query engine.
//  3. Live notices arrive through a blocking command that re-arms itself after
//     each notice.
//  4. Key presses mutate the filter.Controller; anything that changes the
//     result set reruns the query.
//  5. Cancelling the context ends the program.
//
// The UI never writes to the store. Reload and playback run as commands and
// report back with messages.
package ui
