//go:build linux

// Package xcb is the default Linux capture backend: plain XGetImage
// plus a MIT-SHM fast path, both built on the pure-Go jezek/xgb
// protocol client (no libxcb, no cgo). CRTC enumeration uses the
// RandR extension; cursor compositing uses XFixes.
package xcb

import (
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	"go.uber.org/zap"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
	"github.com/captureframe/screencap/pixel"
)

// ProbeState is the MIT-SHM availability probe result.
type ProbeState int

const (
	ProbeUnknown ProbeState = iota
	ProbeAvailable
	ProbeUnavailable
)

type Backend struct {
	conn   *xgb.Conn
	root   xproto.Window
	depth  byte
	log    *zap.SugaredLogger
	cursor bool

	useSHM      bool
	probe       ProbeState
	probeReason string

	shmSegID   shm.Seg
	shmAddr    uintptr
	shmID      int
	shmBytes   int
	fellback   bool
	fallbackAt string

	monitors []geom.Monitor
	closed   bool
}

var _ backendInterface = (*Backend)(nil)

// backendInterface is an alias for backend.Backend, used by the
// assertion above.
type backendInterface = backend.Backend

// Open connects to displayName (or $DISPLAY when empty), enumerates
// monitors via RandR, and, when preferSHM is true, probes MIT-SHM,
// falling back to plain XGetImage on any probe or attach failure.
func Open(displayName string, withCursor, preferSHM bool, log *zap.SugaredLogger) (*Backend, error) {
	if displayName == "" {
		displayName = os.Getenv("DISPLAY")
	}

	conn, err := xgb.NewConnDisplay(displayName)
	if err != nil {
		return nil, backend.DisplayUnavailable("xgb.NewConnDisplay", err)
	}

	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, backend.DisplayUnavailable("xproto.Setup", fmt.Errorf("no screens reported"))
	}
	screen := setup.Roots[0]
	if screen.RootDepth != 32 && screen.RootDepth != 24 {
		conn.Close()
		return nil, backend.UnsupportedDepth(fmt.Sprintf("root depth %d not 24/32 bpp", screen.RootDepth))
	}

	b := &Backend{
		conn:   conn,
		root:   screen.Root,
		depth:  screen.RootDepth,
		log:    log,
		cursor: withCursor,
		probe:  ProbeUnknown,
	}

	if err := randr.Init(conn); err != nil {
		log.Warnw("xcb: RandR unavailable, falling back to single root monitor", "error", err)
	}
	if withCursor {
		if err := xfixes.Init(conn); err != nil {
			log.Debugw("xcb: XFixes unavailable, cursor compositing disabled", "error", err)
			b.cursor = false
		} else {
			xfixes.QueryVersion(conn, 5, 0)
		}
	}

	monitors, err := detectMonitors(conn, screen)
	if err != nil {
		conn.Close()
		return nil, err
	}
	b.monitors = geom.WithVirtual(monitors)

	if preferSHM {
		b.tryEnableSHM()
	}

	log.Infow("xcb: backend opened", "display", displayName, "shm", b.useSHM, "monitor_count", len(b.monitors))
	return b, nil
}

func (b *Backend) Monitors() ([]geom.Monitor, error) {
	if b.closed {
		return nil, backend.SessionClosed()
	}
	out := make([]geom.Monitor, len(b.monitors))
	copy(out, b.monitors)
	return out, nil
}

func (b *Backend) Grab(region geom.Monitor) (pixel.Screenshot, error) {
	if b.closed {
		return pixel.Screenshot{}, backend.SessionClosed()
	}
	if err := backend.ValidateRegion(region); err != nil {
		return pixel.Screenshot{}, err
	}

	width, height := int(region.Width), int(region.Height)

	if b.useSHM {
		raw, err := b.grabSHM(width, height, region.Left, region.Top)
		if err == nil {
			if b.cursor {
				compositeCursor(b.conn, raw, width, height, region.Left, region.Top)
			}
			return pixel.New(raw, region.Left, region.Top, width, height), nil
		}
		b.log.Warnw("xcb: SHM grab failed, falling back to XGetImage for remainder of session", "error", err)
		b.disableSHM(err.Error())
	}

	raw, err := b.grabXGetImage(width, height, region.Left, region.Top)
	if err != nil {
		return pixel.Screenshot{}, err
	}
	if b.cursor {
		compositeCursor(b.conn, raw, width, height, region.Left, region.Top)
	}
	return pixel.New(raw, region.Left, region.Top, width, height), nil
}

func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.releaseSHM()
	b.conn.Close()
	return nil
}

// grabXGetImage reads pixels through a plain xproto.GetImage request,
// built against jezek/xgb instead of libxcb's C API.
func (b *Backend) grabXGetImage(width, height int, left, top int32) ([]byte, error) {
	cookie := xproto.GetImage(
		b.conn, xproto.ImageFormatZPixmap, xproto.Drawable(b.root),
		int16(left), int16(top), uint16(width), uint16(height), 0xffffffff,
	)
	reply, err := cookie.Reply()
	if err != nil {
		return nil, backend.NativeCallFailed("xproto.GetImage", err)
	}
	return bgraFromXImage(reply.Data, width, height), nil
}

// bgraFromXImage packs a ZPixmap reply (already BGRx on little-endian
// X servers at 24/32 bpp) into a tight BGRA buffer with opaque alpha.
func bgraFromXImage(data []byte, width, height int) []byte {
	out := make([]byte, width*height*4)
	stride := len(data) / max1(height)
	for y := 0; y < height; y++ {
		srcRow := data[y*stride:]
		dstRow := out[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			so := x * 4
			if so+3 >= len(srcRow) {
				break
			}
			do := x * 4
			dstRow[do+0] = srcRow[so+0] // B
			dstRow[do+1] = srcRow[so+1] // G
			dstRow[do+2] = srcRow[so+2] // R
			dstRow[do+3] = 0xff
		}
	}
	return out
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

func detectMonitors(conn *xgb.Conn, screen xproto.ScreenInfoRoot) ([]geom.Monitor, error) {
	res, err := randr.GetScreenResources(conn, screen.Root).Reply()
	if err != nil || len(res.Crtcs) == 0 {
		// RandR unavailable or no CRTCs reported: fall back to a
		// single monitor spanning the root window.
		return []geom.Monitor{{Left: 0, Top: 0, Width: uint32(screen.WidthInPixels), Height: uint32(screen.HeightInPixels)}}, nil
	}

	var monitors []geom.Monitor
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 {
			continue
		}
		width, height := uint32(info.Width), uint32(info.Height)
		if info.Rotation == randr.RotationRotate90 || info.Rotation == randr.RotationRotate270 {
			width, height = height, width
		}
		monitors = append(monitors, geom.Monitor{Left: int32(info.X), Top: int32(info.Y), Width: width, Height: height})
	}
	if len(monitors) == 0 {
		monitors = []geom.Monitor{{Left: 0, Top: 0, Width: uint32(screen.WidthInPixels), Height: uint32(screen.HeightInPixels)}}
	}
	return monitors, nil
}

// tryEnableSHM probes MIT-SHM availability and, if present, allocates
// and attaches a shared-memory segment sized for the largest monitor.
// Any failure leaves useSHM false and records the reason; it never
// returns an error since SHM unavailability is non-fatal.
func (b *Backend) tryEnableSHM() {
	if err := shm.Init(b.conn); err != nil {
		b.probe = ProbeUnavailable
		b.probeReason = err.Error()
		return
	}

	var largest uint32
	for _, m := range b.monitors {
		if area := m.Width * m.Height; area > largest {
			largest = area
		}
	}
	if largest == 0 {
		largest = 1920 * 1080
	}
	segBytes := int(largest) * 4

	var err error
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	err = backoff.Retry(func() error {
		return b.attachSHM(segBytes)
	}, policy)

	if err != nil {
		b.probe = ProbeUnavailable
		b.probeReason = err.Error()
		b.releaseSHM()
		return
	}
	b.probe = ProbeAvailable
	b.useSHM = true
}

func (b *Backend) disableSHM(reason string) {
	b.useSHM = false
	b.fellback = true
	b.fallbackAt = reason
	b.releaseSHM()
}
