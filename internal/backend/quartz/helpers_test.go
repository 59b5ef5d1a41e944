//go:build darwin

package quartz

import (
	"testing"

	"github.com/captureframe/screencap/pixel"
)

func makeSolidShot(t *testing.T, left, top int32, width, height int, value byte) pixel.Screenshot {
	t.Helper()
	raw := make([]byte, width*height*4)
	for i := range raw {
		raw[i] = value
	}
	return pixel.New(raw, left, top, width, height)
}
