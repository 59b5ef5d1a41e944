package screencap

import (
	"errors"
	"testing"

	"github.com/captureframe/screencap/internal/backend"
)

func TestConvertErrTranslatesBackendError(t *testing.T) {
	cause := errors.New("boom")
	be := backend.NativeCallFailed("XGetImage", cause).WithTerminal()

	err := convertErr(be)

	var sce *ScreenCaptureError
	if !errors.As(err, &sce) {
		t.Fatalf("convertErr did not produce a *ScreenCaptureError: %T", err)
	}
	if sce.Kind != KindNativeCallFailed {
		t.Fatalf("Kind = %q, want %q", sce.Kind, KindNativeCallFailed)
	}
	if !sce.Terminal {
		t.Fatal("Terminal not carried across translation")
	}
	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost across translation")
	}
}

func TestConvertErrPassesThroughExistingScreenCaptureError(t *testing.T) {
	orig := New(KindInvalidArgument, "bad region")
	if got := convertErr(orig); got != error(orig) {
		t.Fatalf("convertErr should return the same value unchanged, got %v", got)
	}
}

func TestConvertErrNil(t *testing.T) {
	if convertErr(nil) != nil {
		t.Fatal("convertErr(nil) should be nil")
	}
}

func TestIsTerminalAfterConversion(t *testing.T) {
	err := convertErr(backend.SessionClosed())
	if !IsTerminal(err) {
		t.Fatal("expected converted session-closed error to be terminal")
	}
}
