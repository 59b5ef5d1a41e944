//go:build windows

package gdi

// with_cursor has no effect on the GDI backend: Windows is not one of
// the cursor-compositing platforms (Linux+XFixes, macOS), and BitBlt's
// framebuffer readback never includes the compositor-drawn cursor in
// the first place, so there is nothing to strip or fake back in. The
// option is accepted and logged, never acted on.
