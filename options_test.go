package screencap

import "testing"

func TestWithDefaultsPreservesExplicitZeroCompression(t *testing.T) {
	o := Options{CompressionLevel: 0}.withDefaults()
	if o.CompressionLevel != 0 {
		t.Fatalf("CompressionLevel = %d, want 0 (explicit no-compression preserved)", o.CompressionLevel)
	}
}

func TestWithDefaultsAppliesDefaultForUnsetCompression(t *testing.T) {
	o := NewOptions().withDefaults()
	if o.CompressionLevel != 6 {
		t.Fatalf("CompressionLevel = %d, want 6 (default applied to -1 sentinel)", o.CompressionLevel)
	}
}

func TestWithDefaultsFillsMaxDisplaysAndBackend(t *testing.T) {
	o := Options{}.withDefaults()
	if o.MaxDisplays != 32 {
		t.Fatalf("MaxDisplays = %d, want 32", o.MaxDisplays)
	}
	if o.Backend != BackendDefault {
		t.Fatalf("Backend = %q, want %q", o.Backend, BackendDefault)
	}
}
