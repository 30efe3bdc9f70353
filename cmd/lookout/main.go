package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"

	"github.com/five82/lookout/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/lookout/config.toml)")
	streamURL := flag.String("stream", "", "live detection websocket url (overrides config)")
	apiBase := flag.String("api", "", "detection API base url (overrides config)")
	flag.Parse()

	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "lookout: stdout is not a terminal")
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		StreamURL:  *streamURL,
		APIBase:    *apiBase,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "lookout: %v\n", err)
		return 1
	}
	return 0
}
