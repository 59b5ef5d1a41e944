//go:build windows

package backend

import (
	"go.uber.org/zap"

	"github.com/captureframe/screencap/internal/backend/gdi"
)

// Open constructs the GDI backend. cfg.LinuxKind and cfg.MaxDisplays
// are ignored on Windows; monitor enumeration is unconditional via
// EnumDisplayMonitors.
func Open(cfg Config, log *zap.SugaredLogger) (Backend, error) {
	return gdi.Open(cfg.Display, cfg.WithCursor, log)
}
