package save

import (
	"errors"

	"github.com/captureframe/screencap"
	"github.com/captureframe/screencap/pixel"
	"github.com/captureframe/screencap/pngenc"
)

// encodeScreenshot PNG-encodes a Screenshot at level, translating
// pngenc's error into the library's own error taxonomy so every
// Result.Err a caller observes is a *screencap.ScreenCaptureError.
func encodeScreenshot(shot pixel.Screenshot, level int) ([]byte, error) {
	width, height := shot.Size()
	png, err := pngenc.Encode(shot.BGRA(), width, height, level)
	if errors.Is(err, pngenc.ErrInvalidLevel) {
		return nil, screencap.Wrap(screencap.KindInvalidArgument, "invalid compression level", err)
	}
	if err != nil {
		return nil, screencap.Wrap(screencap.KindEncoderError, "png encode failed", err)
	}
	return png, nil
}
