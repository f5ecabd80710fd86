package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/trace"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeCommand, false},
		{trace.LevelPhase, trace.ScopePhase, true},
		{trace.LevelPhase, trace.ScopeUnit, false},
		{trace.LevelDetail, trace.ScopeUnit, true},
		{trace.LevelDetail, trace.ScopeFunc, false},
		{trace.LevelDebug, trace.ScopeFunc, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v", tc.level, tc.scope, got)
		}
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelDetail, Output: &buf, Format: trace.FormatText})
	if err != nil {
		t.Fatal(err)
	}
	ctx := trace.WithTracer(context.Background(), tr)
	root := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "pack", 0)
	unit := trace.Begin(tr, trace.ScopeUnit, "unit:main.nova", root.ID())
	unit.WithExtra("bytes", "12").End("")
	trace.Begin(tr, trace.ScopeFunc, "hidden", unit.ID()).End("")
	root.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "  → pack") || !strings.Contains(lines[2], "{bytes=12}") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[3], "(ok)") {
		t.Fatalf("detail missing: %q", lines[3])
	}
}

func TestNDJSONAndRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Output: &buf, OutputPath: "x.ndjson", RingSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b"} {
		trace.Begin(tr, trace.ScopePhase, name, 0).End("")
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad json %q: %v", line, err)
		}
	}
	ring := trace.Ring(tr)
	if ring == nil {
		t.Fatal("no ring")
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[0].Kind != trace.KindSpanBegin {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestDisabledIsInert(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	s := trace.Begin(tr, trace.ScopeCommand, "x", 0)
	if s.ID() != 0 || s.End("") != 0 {
		t.Fatalf("disabled span recorded")
	}
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Fatalf("expected parse error")
	}
}
