package pngenc

import "errors"

// ErrInvalidLevel is returned when the requested deflate compression
// level falls outside [0,9].
var ErrInvalidLevel = errors.New("pngenc: compression level must be in [0,9]")

// ErrInvalidDimensions is returned when width/height are non-positive
// or the BGRA buffer's length doesn't match width*height*4.
var ErrInvalidDimensions = errors.New("pngenc: invalid image dimensions")
