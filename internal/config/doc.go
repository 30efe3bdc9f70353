// Package config loads lookout's TOML configuration.
//
// Resolution order, later wins:
//
//  1. Built-in defaults (API at http://localhost:3001, stream at
//     ws://localhost:8080, 10 rows per page, 3 reconnects 5s apart)
//  2. ~/.config/lookout/config.toml, or the path given with -config
//  3. LOOKOUT_API_BASE, LOOKOUT_STREAM_URL, LOOKOUT_METRICS_ADDR and
//     LOOKOUT_LOG_LEVEL
//
// Command-line flags are applied on top by the caller. A missing file is not an
// error. Empty values fall back to defaults and a leading ~ is expanded.
//
// Example config.toml:
//
//	api_base = "http://nvr.lan:3001"
//	stream_url = "ws://nvr.lan:8080"
//	page_size = 20
//	reconnect_delay = "5s"
//	search_debounce = "300ms"
//	player_command = "mpv --no-terminal"
//	log_file = "~/.local/state/lookout/lookout.log"
//	metrics_addr = "127.0.0.1:9464"
package config
