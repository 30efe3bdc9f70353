package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/observability"
)

// ErrGivenUp is returned by Connect once the retry budget has been exhausted.
var ErrGivenUp = errors.New("stream: retry budget exhausted")

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
	defaultBuffer      = 64
)

// State is the connection lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateEvaluating
	StateGivenUp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateEvaluating:
		return "evaluating"
	case StateGivenUp:
		return "given up"
	default:
		return "unknown"
	}
}

// EventKind identifies an Event.
type EventKind int

const (
	EventOpened EventKind = iota + 1
	EventRecord
	EventClosed
	EventFailed
)

// Event is delivered on the Manager's event channel.
type Event struct {
	Kind        EventKind
	Record      detection.Record // EventRecord
	Err         error            // EventClosed, EventFailed
	Attempt     int              // retry number for EventClosed
	Intentional bool             // EventClosed caused by Close or context cancel
}

// Options configures a Manager.
type Options struct {
	URL         string
	MaxAttempts int
	RetryDelay  time.Duration
	Dialer      Dialer
	// After returns a channel that fires once d has elapsed. Defaults to time.After.
	After  func(d time.Duration) <-chan time.Time
	Logger *slog.Logger
	// Buffer is the event channel capacity.
	Buffer int
}

// Manager maintains a single live connection with bounded reconnects.
type Manager struct {
	opts   Options
	log    *slog.Logger
	events chan Event

	mu       sync.Mutex
	state    State
	attempts int
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New returns an idle Manager.
func New(opts Options) *Manager {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{}
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		opts:   opts,
		log:    logger.With("component", "stream"),
		events: make(chan Event, opts.Buffer),
	}
}

// Events returns the channel on which lifecycle changes and records arrive.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the number of reconnects made since the last successful open.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// MaxAttempts returns the configured retry budget.
func (m *Manager) MaxAttempts() int {
	return m.opts.MaxAttempts
}

// Connect starts the connection if none is active. Repeated or concurrent calls
// while a connection run is in progress are no-ops.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateGivenUp {
		return ErrGivenUp
	}
	if m.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	m.setStateLocked(StateConnecting)
	go m.run(runCtx, m.done)
	return nil
}

// Close closes the connection without scheduling a reconnect and waits for the
// connection goroutine to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer m.finish(done)

	for {
		log := m.log.With("attempt_id", uuid.NewString(), "url", m.opts.URL)
		m.setState(StateConnecting)
		observability.StreamConnectAttempts.Inc()

		conn, err := m.opts.Dialer.Dial(ctx, m.opts.URL)
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			m.closedIntentionally()
			return
		}
		if err == nil {
			err = m.serve(ctx, conn, log)
			if ctx.Err() != nil {
				m.closedIntentionally()
				return
			}
		}

		m.setState(StateEvaluating)
		attempts, ok := m.nextAttempt()
		if !ok {
			m.setState(StateGivenUp)
			observability.StreamGiveUps.Inc()
			log.Warn("stream retry budget exhausted", "error", err, "max_attempts", m.opts.MaxAttempts)
			m.emit(ctx, Event{Kind: EventFailed, Err: err, Attempt: attempts})
			return
		}

		observability.StreamReconnects.Inc()
		log.Debug("stream closed, reconnecting", "error", err, "attempt", attempts, "delay", m.opts.RetryDelay)
		if !m.emit(ctx, Event{Kind: EventClosed, Err: err, Attempt: attempts}) {
			m.closedIntentionally()
			return
		}

		select {
		case <-ctx.Done():
			m.closedIntentionally()
			return
		case <-m.opts.After(m.opts.RetryDelay):
		}
	}
}

// serve runs one open connection until it fails or ctx is cancelled.
func (m *Manager) serve(ctx context.Context, conn Conn, log *slog.Logger) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
	}()

	m.mu.Lock()
	m.attempts = 0
	m.setStateLocked(StateOpen)
	m.mu.Unlock()
	log.Info("stream opened")

	if !m.emit(ctx, Event{Kind: EventOpened}) {
		return ctx.Err()
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		rec, err := detection.DecodeRecord(data)
		if err != nil {
			observability.StreamMalformed.Inc()
			log.Debug("dropping malformed detection", "error", err, "bytes", len(data))
			continue
		}
		observability.StreamRecords.WithLabelValues(metricType(rec.ObjectType)).Inc()
		if !m.emit(ctx, Event{Kind: EventRecord, Record: rec}) {
			return ctx.Err()
		}
	}
}

// nextAttempt consumes one retry. ok is false once the budget is spent.
func (m *Manager) nextAttempt() (attempts int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempts >= m.opts.MaxAttempts {
		return m.attempts, false
	}
	m.attempts++
	return m.attempts, true
}

func (m *Manager) emit(ctx context.Context, ev Event) bool {
	select {
	case m.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (m *Manager) closedIntentionally() {
	m.log.Info("stream closed")
	select {
	case m.events <- Event{Kind: EventClosed, Intentional: true}:
	default:
	}
}

func (m *Manager) finish(done chan struct{}) {
	m.mu.Lock()
	m.running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.state != StateGivenUp {
		m.setStateLocked(StateIdle)
	}
	m.mu.Unlock()
	close(done)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setStateLocked(s)
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
	observability.StreamState.Set(float64(s))
}

func metricType(t detection.ObjectType) string {
	if t.Known() {
		return string(t)
	}
	return "other"
}
