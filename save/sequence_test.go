package save

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/captureframe/screencap"
	"github.com/captureframe/screencap/geom"
)

func threeMonitorFake() *fakeSession {
	return &fakeSession{
		monitors: []geom.Monitor{
			{Left: 0, Top: 0, Width: 4, Height: 2},
			{Left: 0, Top: 0, Width: 2, Height: 2},
			{Left: 2, Top: 0, Width: 2, Height: 2},
		},
	}
}

func TestSequenceAllPhysicalYieldsPathsAndFiresPreWriteBeforeWrite(t *testing.T) {
	dir := t.TempDir()
	sess := threeMonitorFake()

	var preWriteCalls int
	preWrite := func(path string) {
		preWriteCalls++
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("preWrite fired for %s after it already existed on disk", path)
		}
	}

	o := New(sess, filepath.Join(dir, "shot_{mon}.png"), preWrite, 6)

	var paths []string
	for res := range o.Sequence(SelectorAllPhysical) {
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		paths = append(paths, res.Path)
		if _, err := os.Stat(res.Path); err != nil {
			t.Fatalf("expected %s to exist once yielded: %v", res.Path, err)
		}
	}

	if len(paths) != 2 {
		t.Fatalf("got %d paths, want exactly 2", len(paths))
	}
	if preWriteCalls != 2 {
		t.Fatalf("preWrite called %d times, want 2", preWriteCalls)
	}
}

func TestSequenceStopsOnTerminalError(t *testing.T) {
	dir := t.TempDir()
	sess := threeMonitorFake()
	sess.grabErrAt = 1
	sess.grabErr = screencap.New(screencap.KindDisplayUnavailable, "display gone").WithTerminal()

	o := New(sess, filepath.Join(dir, "shot_{mon}.png"), nil, 6)

	var results []Result
	for res := range o.Sequence(SelectorAllPhysical) {
		results = append(results, res)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (a terminal error must stop the sequence)", len(results))
	}
	if !screencap.IsTerminal(results[0].Err) {
		t.Fatal("expected the yielded error to be terminal")
	}
}

func TestSequenceContinuesPastNonTerminalError(t *testing.T) {
	dir := t.TempDir()
	sess := threeMonitorFake()
	sess.grabErrAt = 1
	sess.grabErr = screencap.New(screencap.KindNativeCallFailed, "transient")

	o := New(sess, filepath.Join(dir, "shot_{mon}.png"), nil, 6)

	var results []Result
	for res := range o.Sequence(SelectorAllPhysical) {
		results = append(results, res)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (a non-terminal error must not stop the sequence)", len(results))
	}
	if results[0].Err == nil || screencap.IsTerminal(results[0].Err) {
		t.Fatalf("expected a non-terminal error on the first job, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Fatalf("unexpected error on second job: %v", results[1].Err)
	}
}
