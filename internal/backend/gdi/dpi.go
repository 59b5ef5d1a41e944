//go:build windows

package gdi

import "syscall"

// user32 resolves the one export lxn/win doesn't provide.
var (
	user32                    = syscall.NewLazyDLL("user32.dll")
	procSetProcessDpiAwareCtx = user32.NewProc("SetProcessDpiAwarenessContext")
)

const dpiAwarenessContextPerMonitorAwareV2 = ^uintptr(3) // DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2, -4 as uintptr

func setProcessDpiAwarenessContext(context uintptr) bool {
	ret, _, _ := procSetProcessDpiAwareCtx.Call(context)
	return ret != 0
}
