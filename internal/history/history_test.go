package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := l.Record(0, "/tmp/a.png", 100, base); err != nil {
		t.Fatalf("Record a: %v", err)
	}
	if err := l.Record(1, "/tmp/b.png", 200, base.Add(time.Second)); err != nil {
		t.Fatalf("Record b: %v", err)
	}

	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Path != "/tmp/b.png" || entries[0].Monitor != 1 || entries[0].Bytes != 200 {
		t.Fatalf("newest entry wrong: %+v", entries[0])
	}
	if !entries[0].CapturedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("CapturedAt = %v, want %v", entries[0].CapturedAt, base.Add(time.Second))
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	now := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Record(i, "/tmp/x.png", i, now); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := l.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
}
