package save

import (
	"github.com/captureframe/screencap/geom"
	"github.com/captureframe/screencap/pixel"
)

// fakeSession is a minimal screencap.Session double: enough to drive
// Orchestrator.Sequence without touching any real backend.
type fakeSession struct {
	monitors []geom.Monitor

	grabCalls int
	grabErrAt int // 1-indexed Grab call at which to return grabErr; 0 disables
	grabErr   error

	closeCalls int
}

func (f *fakeSession) Monitors() ([]geom.Monitor, error) {
	return f.monitors, nil
}

func (f *fakeSession) Grab(region geom.Monitor) (pixel.Screenshot, error) {
	f.grabCalls++
	if f.grabErrAt != 0 && f.grabCalls == f.grabErrAt {
		return pixel.Screenshot{}, f.grabErr
	}
	raw := make([]byte, int(region.Width)*int(region.Height)*4)
	return pixel.New(raw, region.Left, region.Top, int(region.Width), int(region.Height)), nil
}

func (f *fakeSession) CompressionLevel() int { return 6 }

func (f *fakeSession) Close() error {
	f.closeCalls++
	return nil
}
