// Package save implements the orchestrator that turns a monitor
// selector and a filename template into a lazy, single-pass, finite
// sequence of capture results, invoking a caller-supplied pre-write
// callback before each file hits disk.
package save

import (
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/captureframe/screencap"
	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/history"
)

// Selector picks which monitor(s) a Sequence captures.
type Selector int

const (
	// SelectorVirtual captures one combined shot of the virtual monitor.
	SelectorVirtual Selector = -1
	// SelectorAllPhysical iterates every physical monitor in order.
	SelectorAllPhysical Selector = 0
	// SelectorPhysical(N) (any positive Selector value) captures exactly
	// physical monitor N.
)

// PreWrite is invoked with the resolved path immediately before a file
// is written, giving the caller the chance to rename, back up, or
// (by making the write fail downstream) refuse it. It returns nothing;
// the orchestrator never inspects a return value from this callback.
type PreWrite func(path string)

// Result is one element of the sequence Sequence produces.
type Result struct {
	// Monitor is the 1-based physical monitor index, or 0 for the
	// virtual-monitor capture (selector == SelectorVirtual).
	Monitor int
	// Path is the resolved output path. Empty when Orchestrator was
	// built in byte mode (see WithNoFile).
	Path string
	// PNG holds the encoded bytes when running in byte mode; nil
	// otherwise, since the orchestrator already wrote the file.
	PNG []byte
	// Err is non-nil if this capture or its encode/write failed. A
	// non-terminal error here does not stop the sequence; a terminal
	// one (screencap.IsTerminal(Err)) does, since the session backing
	// it can no longer produce screenshots.
	Err error
}

// Orchestrator runs save.Sequence against one Session with a fixed
// template, callback, and compression level.
type Orchestrator struct {
	sess      screencap.Session
	template  string
	preWrite  PreWrite
	level     int
	noFile    bool
	formatter func(time.Time) string
	ledger    *history.Ledger
}

// Option configures an Orchestrator beyond its required constructor
// arguments.
type Option func(*Orchestrator)

// WithNoFile switches the orchestrator into byte mode: Results carry
// PNG bytes instead of being written to Path, and Path is left empty.
// No-file mode is an explicit option rather than a magic template
// string, since a real filename can legally contain any of the
// placeholder syntax's characters.
func WithNoFile() Option {
	return func(o *Orchestrator) { o.noFile = true }
}

// WithDateFormatter overrides the default `{date}` placeholder
// formatter (RFC3339 with colons replaced by '-' for path safety).
func WithDateFormatter(f func(time.Time) string) Option {
	return func(o *Orchestrator) { o.formatter = f }
}

// WithHistory attaches an audit ledger: every successful file write
// appends one row. Disabled (nil) ledgers produce byte-identical
// behavior to the unaudited path.
func WithHistory(l *history.Ledger) Option {
	return func(o *Orchestrator) { o.ledger = l }
}

// New builds an Orchestrator. level is the PNG compression level used
// for every capture in the resulting sequence; pass -1 to reuse
// sess.CompressionLevel().
func New(sess screencap.Session, template string, preWrite PreWrite, level int, opts ...Option) *Orchestrator {
	if preWrite == nil {
		preWrite = func(string) {}
	}
	if level < 0 {
		level = sess.CompressionLevel()
	}
	o := &Orchestrator{
		sess:      sess,
		template:  template,
		preWrite:  preWrite,
		level:     level,
		formatter: defaultDateFormatter,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sequence returns the lazy, single-pass, finite sequence of Results
// for selector. Iteration over the returned iter.Seq performs one
// capture per step; nothing runs until the caller ranges over it.
func (o *Orchestrator) Sequence(selector Selector) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		monitors, err := o.sess.Monitors()
		if err != nil {
			yield(Result{Err: err})
			return
		}

		jobs := jobsFor(selector, monitors)
		if len(jobs) == 0 && selector != SelectorVirtual && selector != SelectorAllPhysical {
			yield(Result{Monitor: int(selector), Err: screencap.New(screencap.KindInvalidArgument, fmt.Sprintf("unknown monitor index %d", selector))})
			return
		}
		for _, job := range jobs {
			res := o.runOne(job)
			if !yield(res) {
				return
			}
			if res.Err != nil && screencap.IsTerminal(res.Err) {
				return
			}
		}
	}
}

type job struct {
	monitorIndex int // 0 == virtual, N == physical monitor N
	region       geom.Monitor
}

// jobsFor expands selector into the concrete list of captures to run.
func jobsFor(selector Selector, monitors []geom.Monitor) []job {
	switch {
	case selector == SelectorVirtual:
		if len(monitors) == 0 {
			return nil
		}
		return []job{{monitorIndex: 0, region: monitors[0]}}
	case selector == SelectorAllPhysical:
		jobs := make([]job, 0, len(monitors)-1)
		for i := 1; i < len(monitors); i++ {
			jobs = append(jobs, job{monitorIndex: i, region: monitors[i]})
		}
		return jobs
	default:
		n := int(selector)
		if n < 0 || n >= len(monitors) {
			return nil
		}
		return []job{{monitorIndex: n, region: monitors[n]}}
	}
}

func (o *Orchestrator) runOne(j job) Result {
	shot, err := o.sess.Grab(j.region)
	if err != nil {
		return Result{Monitor: j.monitorIndex, Err: err}
	}

	png, err := encodeScreenshot(shot, o.level)
	if err != nil {
		return Result{Monitor: j.monitorIndex, Err: err}
	}

	now := time.Now()
	path := resolveTemplate(o.template, j.monitorIndex, j.region, now, o.formatter)

	if o.noFile {
		o.preWrite(path)
		return Result{Monitor: j.monitorIndex, PNG: png}
	}

	o.preWrite(path)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return Result{Monitor: j.monitorIndex, Path: path, Err: fmt.Errorf("save: write %s: %w", path, err)}
	}
	if o.ledger != nil {
		_ = o.ledger.Record(j.monitorIndex, path, len(png), now)
	}
	return Result{Monitor: j.monitorIndex, Path: path}
}
