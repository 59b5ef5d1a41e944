// Package screencap is a cross-platform screenshot library: request
// pixels from a numbered monitor, an arbitrary rectangle, or the
// virtual "all monitors" union, and get back a Screenshot plus monitor
// geometry.
package screencap

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"
	"go.uber.org/zap"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
	"github.com/captureframe/screencap/internal/obslog"
	"github.com/captureframe/screencap/pixel"
)

// Session is one instance of the library's facade: it owns native
// handles and a monitor list for its lifetime. Calls against a single
// Session are serialized by a per-session lock; two independent
// Sessions may capture concurrently.
type Session interface {
	// Monitors returns the ordered monitor list computed for this
	// session; index 0 is the virtual monitor.
	Monitors() ([]geom.Monitor, error)

	// Grab captures region and returns the resulting Screenshot.
	Grab(region geom.Monitor) (pixel.Screenshot, error)

	// CompressionLevel returns the PNG compression level this session
	// was opened with, for callers building their own save pipeline.
	CompressionLevel() int

	// Close releases every native handle in reverse acquisition order.
	// Close is idempotent; a Session that failed and was closed cannot
	// produce further screenshots.
	Close() error
}

type session struct {
	mu      sync.Mutex
	id      string
	backend backend.Backend
	level   int
	closed  bool
	log     *zap.SugaredLogger
}

var _ Session = (*session)(nil)

// Open constructs the capture backend matching the host OS and the
// given Options, and returns it wrapped in a Session. The returned
// Session must be released with Close on every exit path, including
// error paths; callers typically `defer sess.Close()` immediately.
func Open(opts Options) (Session, error) {
	opts = opts.withDefaults()
	log := obslog.New()

	if hi, err := host.Info(); err == nil {
		log.Infow("screencap: host info", "os", hi.OS, "platform", hi.Platform, "kernel_version", hi.KernelVersion)
	} else {
		log.Debugw("screencap: host info unavailable", "error", err)
	}

	cfg := backend.Config{
		Display:     opts.Display,
		MaxDisplays: opts.MaxDisplays,
		WithCursor:  opts.WithCursor,
		LinuxKind:   string(opts.Backend),
	}

	id := uuid.NewString()
	b, err := backend.Open(cfg, log.With("session_id", id))
	if err != nil {
		return nil, convertErr(err)
	}

	log.Infow("screencap: session opened", "session_id", id, "compression_level", opts.CompressionLevel)

	return &session{
		id:      id,
		backend: b,
		level:   opts.CompressionLevel,
		log:     log,
	}, nil
}

func (s *session) Monitors() ([]geom.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, New(KindSessionClosed, "session is closed").WithTerminal()
	}
	monitors, err := s.backend.Monitors()
	return monitors, convertErr(err)
}

func (s *session) Grab(region geom.Monitor) (pixel.Screenshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pixel.Screenshot{}, New(KindSessionClosed, "session is closed").WithTerminal()
	}
	shot, err := s.backend.Grab(region)
	err = convertErr(err)
	if err != nil && IsTerminal(err) {
		s.log.Warnw("screencap: terminal error, closing session", "session_id", s.id, "error", err)
		s.closeLocked()
	}
	return shot, err
}

func (s *session) CompressionLevel() int { return s.level }

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *session) closeLocked() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.backend.Close()
}
