package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("scan")
	tm.End(idx, "3 files")
	tm.Add("parse", 2*time.Millisecond, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "scan" || r.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[1].DurationMS != 2 || r.TotalMS < 2 {
		t.Fatalf("durations: %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "scan") || !strings.Contains(s, "// 3 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 16 {
		t.Fatalf("got %d phases", got)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatalf("empty timer must report nothing")
	}
}
