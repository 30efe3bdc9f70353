// Package live merges records from the stream into the working set and turns
// stream lifecycle events into operator notices.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/observability"
	"github.com/five82/lookout/internal/stream"
)

// Merger receives live records. *state.Store implements it.
type Merger interface {
	Prepend(rec detection.Record) int
}

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a short operator-facing message.
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

const failureText = "Failed to connect to the live stream after multiple attempts"

// Sink applies stream events to a Merger.
type Sink struct {
	store   Merger
	notices chan Notice
	log     *slog.Logger
	now     func() time.Time
}

// NewSink returns a Sink writing to store. buffer bounds the notice queue.
func NewSink(store Merger, buffer int) *Sink {
	if buffer <= 0 {
		buffer = 16
	}
	return &Sink{
		store:   store,
		notices: make(chan Notice, buffer),
		log:     slog.Default().With("component", "live"),
		now:     time.Now,
	}
}

// Notices returns the operator notice channel.
func (s *Sink) Notices() <-chan Notice {
	return s.notices
}

// Run consumes events until ctx is cancelled or events is closed.
func (s *Sink) Run(ctx context.Context, events <-chan stream.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ctx, ev)
		}
	}
}

// Handle applies one event.
func (s *Sink) Handle(ctx context.Context, ev stream.Event) {
	switch ev.Kind {
	case stream.EventRecord:
		size := s.store.Prepend(ev.Record)
		observability.LiveMerges.Inc()
		observability.WorkingSetSize.Set(float64(size))
		s.offer(Notice{
			Level: LevelInfo,
			Text:  fmt.Sprintf("New detection: %s on %s", ev.Record.ObjectType, ev.Record.CameraID),
		})
	case stream.EventOpened:
		s.log.Info("live stream connected")
		s.offer(Notice{Level: LevelInfo, Text: "Live stream connected"})
	case stream.EventClosed:
		if ev.Intentional {
			s.log.Debug("live stream closed")
			return
		}
		s.log.Debug("live stream dropped", "error", ev.Err, "attempt", ev.Attempt)
	case stream.EventFailed:
		s.log.Error("live stream unavailable", "error", ev.Err)
		n := Notice{Level: LevelError, Text: failureText, At: s.now()}
		select {
		case s.notices <- n:
		case <-ctx.Done():
		}
	}
}

// offer drops n when the consumer is behind.
func (s *Sink) offer(n Notice) {
	n.At = s.now()
	select {
	case s.notices <- n:
	default:
		s.log.Debug("notice dropped", "text", n.Text)
	}
}
