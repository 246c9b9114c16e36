package ui

import (
	"strings"
	"testing"

	"soul/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	files := []string{"/p/src/a.soul", "/p/src/b.soul"}
	m := NewProgressModel("parsing", "/p", files, nil).(*progressModel)

	steps := []struct {
		ev   driver.Event
		file int
		want string
	}{
		{driver.Event{File: files[0], Stage: driver.StageScan, Status: driver.StatusWorking}, 0, "scanning"},
		{driver.Event{File: files[0], Stage: driver.StageScan, Status: driver.StatusCached}, 0, "scanned"},
		{driver.Event{File: files[0], Stage: driver.StageParse, Status: driver.StatusWorking}, 0, "parsing"},
		{driver.Event{File: files[0], Stage: driver.StageParse, Status: driver.StatusDone}, 0, "done"},
		// финальный статус не перезаписывается
		{driver.Event{File: files[0], Stage: driver.StageParse, Status: driver.StatusWorking}, 0, "done"},
		{driver.Event{File: files[1], Stage: driver.StageParse, Status: driver.StatusError}, 1, "error"},
		{driver.Event{File: "/elsewhere.soul", Stage: driver.StageParse, Status: driver.StatusDone}, 1, "error"},
	}
	for i, st := range steps {
		m.applyEvent(st.ev)
		if got := m.items[st.file].status; got != st.want {
			t.Fatalf("step %d: status %q, want %q", i, got, st.want)
		}
	}
	if m.finished() != 2 {
		t.Fatalf("finished = %d", m.finished())
	}

	view := m.View()
	if !strings.Contains(view, "(2/2)") || !strings.Contains(view, "src/a.soul") || strings.Contains(view, "/p/src") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-path.soul", 10, "a-very-..."},
		{"abcdef", 3, "abc"},
		{"世界世界", 5, "世..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
