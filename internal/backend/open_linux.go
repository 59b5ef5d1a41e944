//go:build linux

package backend

import (
	"go.uber.org/zap"

	"github.com/captureframe/screencap/internal/backend/xcb"
	"github.com/captureframe/screencap/internal/backend/xlib"
)

// Open picks the Linux backend named by cfg.LinuxKind ("" == default).
// "default" and "xshmgetimage" both construct the XCB+SHM backend with
// the same preferSHM=true argument; Backend.Grab falls back to
// XGetImage on any SHM failure regardless of which of the two was
// requested, so "xshmgetimage" is currently just an explicit spelling
// of "default" rather than a fallback-disabling variant. Use
// "xgetimage" to force the plain XGetImage path with no SHM probe at
// all.
func Open(cfg Config, log *zap.SugaredLogger) (Backend, error) {
	switch LinuxKind(cfg.LinuxKind) {
	case linuxKindXlib:
		return xlib.Open(cfg.Display, cfg.WithCursor, log)
	case linuxKindXGetImage:
		return xcb.Open(cfg.Display, cfg.WithCursor, false, log)
	case linuxKindXShmGetImage:
		return xcb.Open(cfg.Display, cfg.WithCursor, true, log)
	case linuxKindDefault, "":
		return xcb.Open(cfg.Display, cfg.WithCursor, true, log)
	default:
		return xcb.Open(cfg.Display, cfg.WithCursor, true, log)
	}
}

// LinuxKind mirrors screencap.LinuxBackend without importing the root
// package (which would cycle back into this one).
type LinuxKind string

const (
	linuxKindDefault      LinuxKind = "default"
	linuxKindXShmGetImage LinuxKind = "xshmgetimage"
	linuxKindXGetImage    LinuxKind = "xgetimage"
	linuxKindXlib         LinuxKind = "xlib"
)
