package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return cliResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-n", "a.nova"}, []string{"compile", "-n", "a.nova"}},
		{[]string{"-p", "."}, []string{"compile", "-p", "."}},
		{[]string{"-nomc", "a.nomc"}, []string{"run", "--nomc", "a.nomc"}},
		{[]string{"-novar", "a.novar", "x", "-v"}, []string{"run", "--novar", "a.novar", "--", "x", "-v"}},
		{[]string{"app.novar", "x"}, []string{"run", "--novar", "app.novar", "--", "x"}},
		{[]string{"run", "-nomc", "a.nomc", "--", "x"}, []string{"run", "--nomc", "a.nomc", "--", "x"}},
		{[]string{"compile", "-n", "a.nova", "--emit-ir"}, []string{"compile", "-n", "a.nova", "--emit-ir"}},
		{[]string{"--quiet", "run", "--novar", "a.novar"}, []string{"--quiet", "run", "--novar", "a.novar"}},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := normalizeArgs(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("normalizeArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompileAndRunUnit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.nova")
	writeFile(t, src, `func main() { print("hi " + nova.sys_args()[0]); return 4 }`)

	res := runCLI(t, "", "-n", src, "--emit-ir")
	if res.code != 0 {
		t.Fatalf("compile exit %d: %s", res.code, res.stderr)
	}
	unit := filepath.Join(dir, "hello.nomc")
	if !strings.Contains(res.stdout, "Compiled") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if _, err := os.Stat(unit + ".ir"); err != nil {
		t.Fatalf("ir dump missing: %v", err)
	}

	res = runCLI(t, "", "-nomc", unit, "there")
	if res.code != 4 || res.stdout != "hi there\n" {
		t.Fatalf("run = %+v", res)
	}
}

func TestPackageAndLaunch(t *testing.T) {
	root := filepath.Join(t.TempDir(), "app")
	writeFile(t, filepath.Join(root, "nova", "a.nova"), `func main() { print("a") }`)
	writeFile(t, filepath.Join(root, "nova", "b.nova"), `func main() { return 7 }`)

	res := runCLI(t, "", "compile", "-p", root, "--ui=off", "--no-cache", "--timings")
	if res.code != 0 {
		t.Fatalf("pack exit %d: %s", res.code, res.stderr)
	}
	archive := filepath.Join(root, "target", "app.novar")
	if !strings.Contains(res.stdout, "Built "+archive+" (2 units)") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "timings:") {
		t.Fatalf("timings missing: %q", res.stderr)
	}

	res = runCLI(t, "", archive)
	if res.code != 7 || res.stdout != "a\n" {
		t.Fatalf("launch = %+v", res)
	}
	if !strings.Contains(res.stderr, "Launching app v0.1.0") {
		t.Fatalf("stderr = %q", res.stderr)
	}

	res = runCLI(t, "", "--quiet", "run", "--novar", archive)
	if res.code != 7 || res.stderr != "" {
		t.Fatalf("quiet launch = %+v", res)
	}
}

func TestCompileReportsDiagnostics(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.nova")
	writeFile(t, src, "func main() {\n  x = \n}\n")
	res := runCLI(t, "", "compile", "-n", src)
	if res.code != 1 {
		t.Fatalf("exit = %d", res.code)
	}
	if !strings.Contains(res.stderr, "SYN") || !strings.Contains(res.stderr, "error") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestCompileDiagnosticsJSON(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.nova")
	writeFile(t, src, "func main() {\n  x = \n}\n")
	res := runCLI(t, "", "--diag-format=json", "compile", "-n", src)
	if res.code != 1 {
		t.Fatalf("exit = %d", res.code)
	}
	if !strings.Contains(res.stderr, `"severity": "error"`) || !strings.Contains(res.stderr, `"code": "SYN`) {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"compile"}, "nothing to compile"},
		{[]string{"run"}, "nothing to run"},
		{[]string{"run", "--extract", "--nomc", "a.nomc"}, "archives only"},
		{[]string{"compile", "-p", ".", "--ui=maybe"}, "invalid --ui"},
		{[]string{"--color=purple", "version"}, "invalid --color"},
		{[]string{"--diag-format=xml", "version"}, "invalid --diag-format"},
		{[]string{"frobnicate"}, "unknown command"},
	}
	for _, tt := range tests {
		res := runCLI(t, "", tt.args...)
		if res.code != 1 || !strings.Contains(res.stderr, tt.want) {
			t.Errorf("%q: exit %d, stderr %q", tt.args, res.code, res.stderr)
		}
	}
}

func TestRunMissingFiles(t *testing.T) {
	dir := t.TempDir()
	if res := runCLI(t, "", "-nomc", filepath.Join(dir, "x.nomc")); res.code != 1 || !strings.Contains(res.stderr, "read") {
		t.Fatalf("missing unit = %+v", res)
	}
	if res := runCLI(t, "", "-novar", filepath.Join(dir, "x.novar")); res.code != 1 || !strings.Contains(res.stderr, "Opening") {
		t.Fatalf("missing archive = %+v", res)
	}
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("bad json: %v\n%s", err, res.stdout)
	}
	if payload.Tool != "nova" || payload.UnitFormat == 0 || payload.Target == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTraceToStderr(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tr")
	writeFile(t, filepath.Join(root, "nova", "main.nova"), `func main() {}`)
	res := runCLI(t, "", "--trace=-", "compile", "-p", root, "--ui=off", "--no-cache")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "→ pack") || !strings.Contains(res.stderr, "← pack") {
		t.Fatalf("trace output missing: %q", res.stderr)
	}
}
