//go:build darwin

package backend

import (
	"go.uber.org/zap"

	"github.com/captureframe/screencap/internal/backend/quartz"
)

// Open constructs the Quartz/CoreGraphics backend. cfg.LinuxKind is
// ignored on macOS; there is only one backend variant.
func Open(cfg Config, log *zap.SugaredLogger) (Backend, error) {
	return quartz.Open(cfg.Display, cfg.WithCursor, cfg.MaxDisplays, log)
}
