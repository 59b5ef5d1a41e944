//go:build linux

package xcb

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xfixes"
)

// compositeCursor overlays the current cursor image onto raw (a tight
// BGRA buffer for the width x height region at (left, top)) using
// XFixes.GetCursorImage. Any failure is silently ignored: cursor
// compositing (with_cursor) is a best-effort extra, not a
// capture-affecting error.
func compositeCursor(conn *xgb.Conn, raw []byte, width, height int, left, top int32) {
	reply, err := xfixes.GetCursorImage(conn).Reply()
	if err != nil || reply == nil {
		return
	}

	cx := int32(reply.X) - int32(reply.Xhot)
	cy := int32(reply.Y) - int32(reply.Yhot)
	cw, ch := int(reply.Width), int(reply.Height)

	for sy := 0; sy < ch; sy++ {
		dy := int(cy) - int(top) + sy
		if dy < 0 || dy >= height {
			continue
		}
		for sx := 0; sx < cw; sx++ {
			dx := int(cx) - int(left) + sx
			if dx < 0 || dx >= width {
				continue
			}
			argb := reply.CursorImage[sy*cw+sx]
			a := byte(argb >> 24)
			if a == 0 {
				continue
			}
			r := byte(argb >> 16)
			g := byte(argb >> 8)
			b := byte(argb)

			off := (dy*width + dx) * 4
			if a == 0xff {
				raw[off+0], raw[off+1], raw[off+2] = b, g, r
				continue
			}
			raw[off+0] = blendChannel(raw[off+0], b, a)
			raw[off+1] = blendChannel(raw[off+1], g, a)
			raw[off+2] = blendChannel(raw[off+2], r, a)
		}
	}
}

func blendChannel(dst, src, alpha byte) byte {
	return byte((int(src)*int(alpha) + int(dst)*(255-int(alpha))) / 255)
}
