//go:build windows

// Package gdi is the Windows capture backend: a BitBlt screen-to-
// memory-DC copy built against the lxn/win struct/constant bindings
// instead of hand-declared structs. The two exports lxn/win does not
// provide (SetProcessDpiAwarenessContext, GetCurrentThreadId) are
// called through syscall lazy procs.
package gdi

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/dblohm7/wingoes"
	"github.com/lxn/win"
	"go.uber.org/zap"

	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/internal/backend"
	"github.com/captureframe/screencap/pixel"
)

var dpiAwareOnce sync.Once

// ensureDPIAware requests per-monitor DPI awareness once per process,
// picking the API available for the running Windows version the way
// wingoes reports it: the modern SetProcessDpiAwarenessContext on
// 1703+, falling back to the older SetProcessDPIAware on everything
// before it.
func ensureDPIAware(log *zap.SugaredLogger) {
	dpiAwareOnce.Do(func() {
		if wingoes.IsWin10BuildOrGreater(15063) { // 1703 "Creators Update"
			if setProcessDpiAwarenessContext(dpiAwarenessContextPerMonitorAwareV2) {
				return
			}
		}
		if ok := win.SetProcessDPIAware(); !ok {
			log.Debugw("gdi: SetProcessDPIAware failed, captures may be scaled by the DPI virtualization layer")
		}
	})
}

// Backend captures via GDI BitBlt into a DIB section, one call per
// Grab. The only native handles it keeps between calls are the cached
// per-thread source DCs, which Close releases before marking the
// backend unusable.
type Backend struct {
	monitors []geom.Monitor
	log      *zap.SugaredLogger
	closed   bool
	dcs      *threadDCCache
}

var _ backend.Backend = (*Backend)(nil)

// Open enumerates monitors via EnumDisplayMonitors. displayName is
// unused on Windows, kept for signature symmetry with the other
// backends' Open functions.
func Open(displayName string, withCursor bool, log *zap.SugaredLogger) (*Backend, error) {
	ensureDPIAware(log)

	monitors, err := enumMonitors()
	if err != nil {
		return nil, backend.DisplayUnavailable("EnumDisplayMonitors", err)
	}
	if len(monitors) == 0 {
		return nil, backend.DisplayUnavailable("EnumDisplayMonitors", fmt.Errorf("no monitors reported"))
	}

	if withCursor {
		log.Debugw("gdi: with_cursor has no effect on the GDI backend, ignoring")
	}

	log.Infow("gdi: backend opened", "monitor_count", len(monitors), "with_cursor", withCursor)
	return &Backend{monitors: geom.WithVirtual(monitors), log: log, dcs: newThreadDCCache()}, nil
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

	raw, err := blitRegion(b.dcs, region)
	if err != nil {
		return pixel.Screenshot{}, err
	}
	return pixel.New(raw, region.Left, region.Top, int(region.Width), int(region.Height)), nil
}

func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.dcs.releaseAll()
	return nil
}

// blitRegion performs the (cached) source DC -> CreateCompatibleDC ->
// CreateCompatibleBitmap -> SelectObject -> BitBlt -> GetDIBits ->
// cleanup sequence for one rectangle, releasing every handle it
// creates itself in reverse acquisition order; the source DC is owned
// by dcs and outlives this call.
func blitRegion(dcs *threadDCCache, region geom.Monitor) ([]byte, error) {
	width, height := int32(region.Width), int32(region.Height)

	hdcScreen, err := dcs.sourceDC()
	if err != nil {
		return nil, err
	}

	hdcMem := win.CreateCompatibleDC(hdcScreen)
	if hdcMem == 0 {
		return nil, backend.NativeCallFailed("CreateCompatibleDC", fmt.Errorf("returned NULL"))
	}
	defer win.DeleteDC(hdcMem)

	hBitmap := win.CreateCompatibleBitmap(hdcScreen, width, height)
	if hBitmap == 0 {
		return nil, backend.NativeCallFailed("CreateCompatibleBitmap", fmt.Errorf("returned NULL"))
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	oldObj := win.SelectObject(hdcMem, win.HGDIOBJ(hBitmap))
	if oldObj == 0 {
		return nil, backend.NativeCallFailed("SelectObject", fmt.Errorf("returned NULL"))
	}
	defer win.SelectObject(hdcMem, oldObj)

	rop := uint32(win.SRCCOPY) | captureBlt
	if !win.BitBlt(hdcMem, 0, 0, width, height, hdcScreen, region.Left, region.Top, rop) {
		return nil, backend.NativeCallFailed("BitBlt", fmt.Errorf("returned FALSE"))
	}

	return readDIB(hdcMem, hBitmap, width, height)
}

// readDIB pulls the bitmap's pixels out as top-down 32bpp BGRA via
// GetDIBits; BI_RGB at 32bpp already matches this module's BGRA
// convention with the alpha byte unused by GDI, so it is forced opaque.
func readDIB(hdcMem win.HDC, hBitmap win.HBITMAP, width, height int32) ([]byte, error) {
	var info win.BITMAPINFO
	info.BmiHeader.BiSize = uint32(unsafe.Sizeof(info.BmiHeader))
	info.BmiHeader.BiWidth = width
	info.BmiHeader.BiHeight = -height // negative: top-down DIB
	info.BmiHeader.BiPlanes = 1
	info.BmiHeader.BiBitCount = 32
	info.BmiHeader.BiCompression = win.BI_RGB

	raw := make([]byte, int(width)*int(height)*4)
	if ret := win.GetDIBits(hdcMem, hBitmap, 0, uint32(height), unsafe.Pointer(&raw[0]), &info, win.DIB_RGB_COLORS); ret == 0 {
		return nil, backend.NativeCallFailed("GetDIBits", fmt.Errorf("returned 0"))
	}
	for i := 3; i < len(raw); i += 4 {
		raw[i] = 0xff
	}
	return raw, nil
}

// captureBlt includes layered/WS_EX_LAYERED windows in the BitBlt;
// win.CAPTUREBLT is not exposed by lxn/win so the constant is declared
// locally.
const captureBlt = 0x40000000

func enumMonitors() ([]geom.Monitor, error) {
	var monitors []geom.Monitor
	cb := syscall.NewCallback(func(hMonitor win.HMONITOR, hdcMonitor win.HDC, lprcMonitor *win.RECT, dwData uintptr) uintptr {
		monitors = append(monitors, geom.Monitor{
			Left:   lprcMonitor.Left,
			Top:    lprcMonitor.Top,
			Width:  uint32(lprcMonitor.Right - lprcMonitor.Left),
			Height: uint32(lprcMonitor.Bottom - lprcMonitor.Top),
		})
		return 1 // continue enumeration
	})
	if !win.EnumDisplayMonitors(0, nil, cb, 0) {
		return nil, fmt.Errorf("EnumDisplayMonitors returned FALSE")
	}
	return monitors, nil
}
