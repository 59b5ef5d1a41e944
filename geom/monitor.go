// Package geom defines the rectangle model shared by every capture
// backend: the physical Monitor and the bounding-box math used to
// synthesize the virtual "all monitors" entry.
package geom

import "fmt"

// Monitor is an axis-aligned rectangle in the global display coordinate
// space. Left/Top may be negative when a secondary monitor sits left of
// or above the primary one. Width/Height must be strictly positive for
// any monitor that was actually enumerated from the OS.
type Monitor struct {
	Left   int32
	Top    int32
	Width  uint32
	Height uint32
}

// Bounds returns the monitor's rectangle as (left, top, right, bottom).
func (m Monitor) Bounds() (left, top, right, bottom int32) {
	return m.Left, m.Top, m.Left + int32(m.Width), m.Top + int32(m.Height)
}

// Empty reports whether the monitor has zero area.
func (m Monitor) Empty() bool {
	return m.Width == 0 || m.Height == 0
}

func (m Monitor) String() string {
	return fmt.Sprintf("{left:%d top:%d width:%d height:%d}", m.Left, m.Top, m.Width, m.Height)
}

// Virtual computes the synthetic "virtual monitor": the axis-aligned
// bounding box of every physical monitor in physicals. It returns the
// zero Monitor if physicals is empty, since the monitor list (and
// hence the virtual entry) is non-empty iff at least one display is
// attached.
func Virtual(physicals []Monitor) Monitor {
	if len(physicals) == 0 {
		return Monitor{}
	}

	left, top, right, bottom := physicals[0].Bounds()
	for _, m := range physicals[1:] {
		l, t, r, b := m.Bounds()
		if l < left {
			left = l
		}
		if t < top {
			top = t
		}
		if r > right {
			right = r
		}
		if b > bottom {
			bottom = b
		}
	}

	return Monitor{
		Left:   left,
		Top:    top,
		Width:  uint32(right - left),
		Height: uint32(bottom - top),
	}
}

// WithVirtual builds the ordered monitor list required throughout this
// repository: index 0 is the virtual monitor, indices 1..N are the
// physical monitors in the order the backend reported them.
func WithVirtual(physicals []Monitor) []Monitor {
	if len(physicals) == 0 {
		return nil
	}
	out := make([]Monitor, 0, len(physicals)+1)
	out = append(out, Virtual(physicals))
	out = append(out, physicals...)
	return out
}
