package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	clock := time.Unix(0, 0)
	tm := NewTimer()
	tm.now = func() time.Time { return clock }

	idx := tm.Begin("parse")
	clock = clock.Add(2 * time.Millisecond)
	tm.End(idx, "3 files")
	tm.Record("codegen", 500*time.Microsecond, "")
	tm.End(99, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].DurationMS != 2 || rep.Phases[0].Note != "3 files" {
		t.Fatalf("report = %+v", rep)
	}
	if rep.TotalMS != 2.5 {
		t.Fatalf("total = %v", rep.TotalMS)
	}

	var sb strings.Builder
	tm.Fprint(&sb)
	out := sb.String()
	if !strings.HasPrefix(out, "timings:\n") || !strings.Contains(out, "// 3 files") || !strings.Contains(out, "total") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("report = %+v", rep)
	}
}
