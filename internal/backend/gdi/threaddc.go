//go:build windows

package gdi

import (
	"fmt"
	"sync"
	"syscall"

	"github.com/lxn/win"

	"github.com/captureframe/screencap/internal/backend"
)

var getCurrentThreadID = syscall.NewLazyDLL("kernel32.dll").NewProc("GetCurrentThreadId")

func currentThreadID() uint32 {
	id, _, _ := getCurrentThreadID.Call()
	return uint32(id)
}

// threadDCCache maps OS thread id to that thread's screen source DC:
// device contexts are per-thread, so concurrent captures from distinct
// threads never share a GDI resource. Entries are created lazily on
// first use from a given thread and released together in releaseAll.
type threadDCCache struct {
	mu  sync.Mutex
	dcs map[uint32]win.HDC
}

func newThreadDCCache() *threadDCCache {
	return &threadDCCache{dcs: make(map[uint32]win.HDC)}
}

func (c *threadDCCache) sourceDC() (win.HDC, error) {
	tid := currentThreadID()

	c.mu.Lock()
	defer c.mu.Unlock()
	if dc, ok := c.dcs[tid]; ok {
		return dc, nil
	}
	dc := win.GetDC(0)
	if dc == 0 {
		return 0, backend.NativeCallFailed("GetDC", fmt.Errorf("GetDC(NULL) returned NULL"))
	}
	c.dcs[tid] = dc
	return dc, nil
}

func (c *threadDCCache) releaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for tid, dc := range c.dcs {
		win.ReleaseDC(0, dc)
		delete(c.dcs, tid)
	}
}
