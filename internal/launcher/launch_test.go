package launcher_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/archive"
	"github.com/NovaVoxel/NovaLang/internal/launcher"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/testkit"
)

func unit(t *testing.T, name, src string) testkit.ArchiveUnit {
	t.Helper()
	return testkit.ArchiveUnit{Entry: "bin/" + name + ".nomc", Data: testkit.UnitBytes(t, name, src)}
}

func states(rep *launcher.Report) string {
	parts := make([]string, 0, len(rep.States))
	for _, s := range rep.States {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ",")
}

func TestLaunchIsolatesFailingUnit(t *testing.T) {
	broken := testkit.Unit(t, "two", `func main() { return 2 }`)
	broken.Symbols[0].Func = 42
	brokenData, err := nomc.Encode(broken)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "app.novar")
	testkit.WriteArchive(t, dst, "app",
		unit(t, "one", `func main() { print("one") }`),
		testkit.ArchiveUnit{Entry: "bin/two.nomc", Data: brokenData},
		unit(t, "three", `func main() { print("three"); return 3 }`),
	)

	var out, status bytes.Buffer
	rep, err := launcher.Launch(context.Background(), dst, launcher.Options{Stdout: &out, Status: &status})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if rep.ExitCode != 3 {
		t.Fatalf("exit code = %d", rep.ExitCode)
	}
	if out.String() != "one\nthree\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if len(rep.Units) != 3 || rep.Units[0].Err != nil || rep.Units[2].Err != nil {
		t.Fatalf("units = %+v", rep.Units)
	}
	u2 := rep.Units[1]
	if u2.Code != 1 || u2.Err == nil || u2.Err.Stage != "load" || u2.Err.Path != "bin/two.nomc" {
		t.Fatalf("unit 2 = %+v", u2)
	}
	want := "Opening,ManifestRead,UnitLoad,UnitExecute,UnitLoad,UnitLoad,UnitExecute,Done"
	if got := states(rep); got != want {
		t.Fatalf("states = %s", got)
	}
	if !strings.HasPrefix(status.String(), "Launching app v0.1.0\n") || !strings.Contains(status.String(), "Runtime error in bin/two.nomc") {
		t.Fatalf("status = %q", status.String())
	}
}

func TestLaunchEmptyManifest(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "empty.novar")
	testkit.WriteArchive(t, dst, "empty")
	rep, err := launcher.Launch(context.Background(), dst, launcher.Options{})
	var le *launcher.LaunchError
	if !errors.As(err, &le) || le.State != launcher.StateManifestRead {
		t.Fatalf("err = %v", err)
	}
	if len(rep.Units) != 0 || rep.ExitCode != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if got := states(rep); got != "Opening,ManifestRead,Terminal" {
		t.Fatalf("states = %s", got)
	}
}

func TestLaunchFatalErrors(t *testing.T) {
	dir := t.TempDir()
	noManifest := filepath.Join(dir, "bare.novar")
	w, err := archive.Create(noManifest)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile("bin/a.nomc", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		state launcher.State
		is    error
	}{
		{"missing archive", filepath.Join(dir, "nope.novar"), launcher.StateOpening, os.ErrNotExist},
		{"missing manifest", noManifest, launcher.StateManifestRead, archive.ErrNoManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := launcher.Launch(context.Background(), tt.path, launcher.Options{})
			var le *launcher.LaunchError
			if !errors.As(err, &le) || le.State != tt.state || !errors.Is(err, tt.is) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestLaunchUnitFailures(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "f.novar")
	testkit.WriteArchive(t, dst, "f",
		unit(t, "trap", `func main() { return 1 / 0 }`),
		unit(t, "lib", `func helper() { return 1 }`),
		testkit.ArchiveUnit{Entry: "bin/missing.nomc"},
	)
	rep, err := launcher.Launch(context.Background(), dst, launcher.Options{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	stages := []string{"execute", "entry", "read"}
	for i, u := range rep.Units {
		if u.Code != 1 || u.Err == nil || u.Err.Stage != stages[i] {
			t.Fatalf("unit %d = %+v", i, u)
		}
	}
	if rep.ExitCode != 1 {
		t.Fatalf("exit = %d", rep.ExitCode)
	}
}

func TestUnitsShareArgsAndStdin(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "io.novar")
	src := `func main() { print(nova.sys_input()); return len(nova.sys_args()) }`
	testkit.WriteArchive(t, dst, "io", unit(t, "a", src), unit(t, "b", src))
	var out bytes.Buffer
	rep, err := launcher.Launch(context.Background(), dst, launcher.Options{
		Args:   []string{"x", "y"},
		Stdin:  strings.NewReader("first\nsecond\n"),
		Stdout: &out,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "first\nsecond\n" || rep.ExitCode != 2 {
		t.Fatalf("stdout = %q exit = %d", out.String(), rep.ExitCode)
	}
}

func TestRunUnit(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.nomc")
	if err := os.WriteFile(p, testkit.UnitBytes(t, "main", `func main() { return 5 }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := launcher.RunUnit(context.Background(), p, launcher.Options{}); res.Err != nil || res.Code != 5 {
		t.Fatalf("RunUnit = %+v", res)
	}
	res := launcher.RunUnit(context.Background(), filepath.Join(dir, "gone.nomc"), launcher.Options{})
	if res.Err == nil || res.Err.Stage != "read" || res.Code != 1 {
		t.Fatalf("missing unit = %+v", res)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := launcher.ParseMode("extract"); err != nil || m != launcher.ModeExtract {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := launcher.ParseMode("fork"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLaunchLenientManifest(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "loose.novar")
	w, err := archive.Create(dst)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile("bin/a.nomc", testkit.UnitBytes(t, "a", `func main() { print("a"); return 4 }`)); err != nil {
		t.Fatal(err)
	}
	raw := `{"project": {"name": ""}, "bin": ["bin/a.nomc", "bin/a.nomc"]}`
	if err := w.AddFile(archive.ManifestPath, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var out, status bytes.Buffer
	rep, err := launcher.Launch(context.Background(), dst, launcher.Options{Stdout: &out, Status: &status})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(rep.Units) != 2 || out.String() != "a\na\n" || rep.ExitCode != 4 {
		t.Fatalf("units = %+v stdout = %q exit = %d", rep.Units, out.String(), rep.ExitCode)
	}
	if rep.Project.Name != archive.UnknownField {
		t.Fatalf("project = %+v", rep.Project)
	}
	if !strings.HasPrefix(status.String(), "Launching <unknown> v<unknown>\n") {
		t.Fatalf("status = %q", status.String())
	}
}
