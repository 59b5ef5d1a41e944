package screencap

import "github.com/captureframe/screencap/internal/config"

// LinuxBackend selects which Linux capture backend Open uses.
type LinuxBackend string

const (
	// BackendDefault selects XCB+SHM with automatic XGetImage fallback.
	BackendDefault LinuxBackend = "default"
	// BackendXShmGetImage forces the XCB+SHM backend (no fallback probe skip).
	BackendXShmGetImage LinuxBackend = "xshmgetimage"
	// BackendXGetImage forces the plain XCB/XGetImage backend.
	BackendXGetImage LinuxBackend = "xgetimage"
	// BackendXlib forces the legacy Xlib backend.
	BackendXlib LinuxBackend = "xlib"
)

// Options configures Open. Every field has a documented default so a
// zero-value Options is usable as-is, except CompressionLevel: its Go
// zero value 0 is itself a valid, distinct level (see below), so
// NewOptions must be used to pick up the default compression level.
type Options struct {
	// CompressionLevel is the PNG compression strength (0..9) the
	// encoder uses for this session's saves. Defaults to 6. Since 0 is
	// itself a valid, selectable level (no compression), an unset
	// CompressionLevel is represented as -1 (what NewOptions returns),
	// not 0. A plain Options{} literal leaves CompressionLevel at the
	// Go zero value 0, which Open honors as an explicit "no
	// compression" request, not as "apply the default"; use NewOptions
	// if the default is wanted.
	CompressionLevel int

	// Display is the X server display name (e.g. ":0.0"), Linux only.
	// When empty, the ambient DISPLAY environment variable is used.
	Display string

	// MaxDisplays bounds how many physical displays macOS enumerates.
	// Defaults to 32.
	MaxDisplays int

	// WithCursor includes the mouse cursor in captures on platforms
	// that support compositing it (Linux+XFixes, macOS). It is a
	// silent no-op where unsupported.
	WithCursor bool

	// Backend selects the Linux backend variant. Ignored on other
	// platforms. Defaults to BackendDefault.
	Backend LinuxBackend
}

// NewOptions returns an Options populated with every documented
// default, including the CompressionLevel=-1 ("unset") sentinel.
// Constructing Options{} directly and passing it to Open also works:
// Open fills in MaxDisplays and Backend, but keeps the zero-value
// CompressionLevel as level 0 (no compression).
func NewOptions() Options {
	return Options{CompressionLevel: -1, MaxDisplays: 32, Backend: BackendDefault}
}

// withDefaults returns a copy of o with zero-valued/unset fields
// replaced by their documented defaults.
func (o Options) withDefaults() Options {
	if o.CompressionLevel < 0 {
		o.CompressionLevel = 6
	}
	if o.MaxDisplays == 0 {
		o.MaxDisplays = 32
	}
	if o.Backend == "" {
		o.Backend = BackendDefault
	}
	return o
}

// WithConfigFile overlays non-nil fields from a parsed screencap.yaml
// onto o and returns the result. It does not read the filesystem
// itself (see OptionsFromFile for that), so it stays trivially
// testable without touching disk.
func (o Options) WithConfigFile(f *config.File) Options {
	if f == nil {
		return o
	}
	if f.CompressionLevel != nil {
		o.CompressionLevel = *f.CompressionLevel
	}
	if f.Display != nil {
		o.Display = *f.Display
	}
	if f.MaxDisplays != nil {
		o.MaxDisplays = *f.MaxDisplays
	}
	if f.WithCursor != nil {
		o.WithCursor = *f.WithCursor
	}
	if f.Backend != nil {
		o.Backend = LinuxBackend(*f.Backend)
	}
	return o
}

// OptionsFromFile loads path as a YAML overlay (via internal/config)
// and applies it on top of o.
func OptionsFromFile(o Options, path string) (Options, error) {
	f, err := config.Load(path)
	if err != nil {
		return o, err
	}
	return o.WithConfigFile(f), nil
}
