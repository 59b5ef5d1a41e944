package save

import (
	"testing"
	"time"

	"github.com/captureframe/screencap/geom"
)

func TestResolveTemplate(t *testing.T) {
	region := geom.Monitor{Left: 10, Top: -5, Width: 1920, Height: 1080}
	fixedDate := func(time.Time) string { return "20260731" }

	got := resolveTemplate("shot_{mon}_{left}x{top}_{width}x{height}_{date}.png", 2, region, time.Time{}, fixedDate)
	want := "shot_2_10x-5_1920x1080_20260731.png"
	if got != want {
		t.Fatalf("resolveTemplate = %q, want %q", got, want)
	}
}

func TestDefaultDateFormatterHasNoColons(t *testing.T) {
	s := defaultDateFormatter(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))
	for _, r := range s {
		if r == ':' {
			t.Fatalf("defaultDateFormatter produced a colon in %q", s)
		}
	}
}

func TestJobsForVirtual(t *testing.T) {
	monitors := []geom.Monitor{
		{Left: 0, Top: 0, Width: 3000, Height: 1080},
		{Left: 0, Top: 0, Width: 1920, Height: 1080},
		{Left: 1920, Top: 0, Width: 1080, Height: 1080},
	}
	jobs := jobsFor(SelectorVirtual, monitors)
	if len(jobs) != 1 || jobs[0].monitorIndex != 0 {
		t.Fatalf("jobsFor(virtual) = %+v, want one job for monitor 0", jobs)
	}
}

func TestJobsForAllPhysical(t *testing.T) {
	monitors := []geom.Monitor{
		{Left: 0, Top: 0, Width: 3000, Height: 1080},
		{Left: 0, Top: 0, Width: 1920, Height: 1080},
		{Left: 1920, Top: 0, Width: 1080, Height: 1080},
	}
	jobs := jobsFor(SelectorAllPhysical, monitors)
	if len(jobs) != 2 {
		t.Fatalf("jobsFor(all physical) returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].monitorIndex != 1 || jobs[1].monitorIndex != 2 {
		t.Fatalf("jobsFor(all physical) = %+v, want monitors [1 2]", jobs)
	}
}

func TestJobsForSpecificMonitor(t *testing.T) {
	monitors := []geom.Monitor{
		{Left: 0, Top: 0, Width: 3000, Height: 1080},
		{Left: 0, Top: 0, Width: 1920, Height: 1080},
		{Left: 1920, Top: 0, Width: 1080, Height: 1080},
	}
	jobs := jobsFor(Selector(2), monitors)
	if len(jobs) != 1 || jobs[0].monitorIndex != 2 || jobs[0].region != monitors[2] {
		t.Fatalf("jobsFor(2) = %+v, want one job for monitor 2", jobs)
	}
}

func TestJobsForOutOfRangeMonitorYieldsNothing(t *testing.T) {
	monitors := []geom.Monitor{{Left: 0, Top: 0, Width: 100, Height: 100}}
	if jobs := jobsFor(Selector(5), monitors); len(jobs) != 0 {
		t.Fatalf("jobsFor(5) with 1 monitor = %+v, want empty", jobs)
	}
}
