// Package obslog builds the structured logger every session and
// backend in this repository logs through. It exists so backend
// selection, SHM fallback decisions, and native-call failures are
// queryable structured events instead of interpolated strings.
package obslog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.SugaredLogger
)

// New returns a process-wide structured logger, built once and cached.
func New() *zap.SugaredLogger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		global = l.Sugar()
	})
	return global
}

// Nop returns a logger that discards everything, for tests and callers
// that don't want the default production encoder.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// SessionFields returns structured fields for a session-scoped log
// line: a correlation SessionID plus the backend Kind in use.
func SessionFields(sessionID, kind string) []any {
	return []any{"session_id", sessionID, "backend", kind}
}
