package packager_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/archive"
	"github.com/NovaVoxel/NovaLang/internal/buildcache"
	"github.com/NovaVoxel/NovaLang/internal/buildpipeline"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/packager"
	"github.com/NovaVoxel/NovaLang/internal/parser"
	"github.com/NovaVoxel/NovaLang/internal/testkit"
)

func request(root string) *packager.Request {
	return &packager.Request{
		ProjectName: "demo",
		Version:     "0.1.0",
		SourceDir:   filepath.Join(root, "nova"),
		BinDir:      filepath.Join(root, "bin"),
		TargetDir:   filepath.Join(root, "target"),
	}
}

func TestPackOrdersUnitsBySourceName(t *testing.T) {
	root := t.TempDir()
	testkit.WriteFiles(t, root, map[string]string{
		"nova/g.nova":     "func g() { return 2 }\nfunc main() { return g() }\n",
		"nova/f.nova":     "func f() { return 1 }\nfunc main() { return f() }\n",
		"nova/notes.txt":  "ignored",
		"nova/sub/x.nova": "func main() {}",
	})
	res, err := packager.Pack(context.Background(), request(root))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if got := strings.Join(res.Manifest.Bin, ","); got != "bin/f.nomc,bin/g.nomc" {
		t.Fatalf("bin = %s", got)
	}
	if res.ArchivePath != filepath.Join(root, "target", "demo.novar") {
		t.Fatalf("archive path = %s", res.ArchivePath)
	}
	for _, name := range []string{"f.nomc", "g.nomc", "Manifest.json"} {
		if _, err := os.Stat(filepath.Join(root, "bin", name)); err != nil {
			t.Fatalf("bin/%s: %v", name, err)
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	root := t.TempDir()
	testkit.WriteFiles(t, root, map[string]string{
		"nova/main.nova": `func main() { x = "a" + "b"; print(x); return 0 }`,
	})
	res, err := packager.Pack(context.Background(), request(root))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	r, err := archive.Open(res.ArchivePath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m, err := r.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if m.Project.Name != "demo" || m.Project.Version != "0.1.0" || len(m.Bin) != 1 {
		t.Fatalf("manifest = %+v", m)
	}
	data, err := r.ReadFile(m.Bin[0])
	if err != nil {
		t.Fatal(err)
	}
	onDisk, _ := os.ReadFile(filepath.Join(root, "bin", "main.nomc"))
	if !bytes.Equal(data, onDisk) {
		t.Fatalf("archived unit differs from bin/main.nomc")
	}
	u, err := nomc.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := u.Entry(); !ok || u.Module != "main" {
		t.Fatalf("unit = %s, entry missing", u.Module)
	}
}

func TestPackIsIdempotent(t *testing.T) {
	root := t.TempDir()
	testkit.WriteFiles(t, root, map[string]string{
		"nova/a.nova": "func main() { return 1 }",
		"nova/b.nova": "func main() { for x in [1, 2] { print(x) } }",
	})
	var archives, manifests [][]byte
	for range 2 {
		res, err := packager.Pack(context.Background(), request(root))
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}
		a, _ := os.ReadFile(res.ArchivePath)
		m, _ := os.ReadFile(filepath.Join(root, "bin", "Manifest.json"))
		archives = append(archives, a)
		manifests = append(manifests, m)
	}
	if !bytes.Equal(manifests[0], manifests[1]) || !bytes.Equal(archives[0], archives[1]) {
		t.Fatalf("repeated packs differ")
	}
}

func TestPackWithoutSources(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "nova"), 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := packager.Pack(context.Background(), request(root))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Manifest.Bin) != 0 {
		t.Fatalf("bin = %v", res.Manifest.Bin)
	}
	if !res.Diags.HasWarnings() || res.Diags.Items()[0].Code != diag.PkgNoSources {
		t.Fatalf("expected no-sources warning, got %v", res.Diags.Items())
	}
	if _, err := os.Stat(res.ArchivePath); err != nil {
		t.Fatalf("empty archive not written: %v", err)
	}
}

func TestPackAbortsOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		op    string
	}{
		{"parse", map[string]string{"nova/a.nova": "func main() {", "nova/b.nova": "func main() {}"}, "parse"},
		{"codegen", map[string]string{"nova/a.nova": "func main() { return y }"}, "codegen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			testkit.WriteFiles(t, root, tt.files)
			res, err := packager.Pack(context.Background(), request(root))
			var pe *packager.Error
			if !errors.As(err, &pe) || pe.Op != tt.op {
				t.Fatalf("err = %v, want op %s", err, tt.op)
			}
			if !strings.HasSuffix(pe.Path, "a.nova") {
				t.Fatalf("path = %s", pe.Path)
			}
			if tt.op == "parse" {
				var perr *parser.Error
				if !errors.As(err, &perr) || !res.Diags.HasErrors() {
					t.Fatalf("parse diagnostics missing")
				}
			}
			if _, err := os.Stat(filepath.Join(root, "target", "demo.novar")); !os.IsNotExist(err) {
				t.Fatalf("archive written despite failure: %v", err)
			}
		})
	}
}

func TestPackMissingSourceDir(t *testing.T) {
	_, err := packager.Pack(context.Background(), request(t.TempDir()))
	var pe *packager.Error
	if !errors.As(err, &pe) || pe.Op != "read" {
		t.Fatalf("err = %v", err)
	}
}

func TestPackRejectsBadRequest(t *testing.T) {
	req := request(t.TempDir())
	req.ProjectName = "a/b"
	_, err := packager.Pack(context.Background(), req)
	var pe *packager.Error
	if !errors.As(err, &pe) || pe.Op != "config" {
		t.Fatalf("err = %v", err)
	}
}

func TestPackUsesCache(t *testing.T) {
	root := t.TempDir()
	testkit.WriteFiles(t, root, map[string]string{"nova/main.nova": "func main() { return 7 }"})
	cache, err := buildcache.Open(filepath.Join(root, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	req := request(root)
	req.Cache = cache

	first, err := packager.Pack(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var (
		mu     sync.Mutex
		events []buildpipeline.Event
	)
	req.Progress = buildpipeline.FuncSink(func(e buildpipeline.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})
	second, err := packager.Pack(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Units[0].Cached || !second.Units[0].Cached {
		t.Fatalf("cached flags = %v, %v", first.Units[0].Cached, second.Units[0].Cached)
	}
	for _, e := range events {
		if e.Stage == buildpipeline.StageParse {
			t.Fatalf("cache hit still parsed: %+v", e)
		}
	}
	a, _ := os.ReadFile(first.ArchivePath)
	if len(a) == 0 {
		t.Fatalf("empty archive")
	}
}

func TestPackReportsProgress(t *testing.T) {
	root := t.TempDir()
	testkit.WriteFiles(t, root, map[string]string{"nova/main.nova": "func main() {}"})
	req := request(root)
	var statuses []string
	req.Progress = buildpipeline.FuncSink(func(e buildpipeline.Event) {
		statuses = append(statuses, string(e.Stage)+"/"+string(e.Status))
	})
	if _, err := packager.Pack(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	want := "/queued parse/working lower/working codegen/working codegen/done pack/working pack/done"
	if got := strings.Join(statuses, " "); got != want {
		t.Fatalf("events = %s\nwant     %s", got, want)
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFiles(t, dir, map[string]string{"hello.nova": `func main() { print("hi") }`})
	src := filepath.Join(dir, "hello.nova")
	res, err := packager.CompileFile(context.Background(), src, packager.CompileOptions{EmitIR: true, EmitAsm: true, EmitLLVM: true})
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if res.Output != filepath.Join(dir, "hello.nomc") {
		t.Fatalf("output = %s", res.Output)
	}
	irText, err := os.ReadFile(res.IRPath)
	if err != nil || !strings.Contains(string(irText), "func main") {
		t.Fatalf("ir dump = %q, %v", irText, err)
	}
	asm, err := os.ReadFile(res.AsmPath)
	if err != nil || !strings.Contains(string(asm), "main:") {
		t.Fatalf("disasm = %q, %v", asm, err)
	}
	ll, err := os.ReadFile(res.LLVMPath)
	if err != nil || !strings.Contains(string(ll), "define i32 @main()") {
		t.Fatalf("llvm = %v", err)
	}
}

func TestCompileFileWarnsWithoutMain(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFiles(t, dir, map[string]string{"lib.nova": "func helper(a) { return a }"})
	res, err := packager.CompileFile(context.Background(), filepath.Join(dir, "lib.nova"), packager.CompileOptions{})
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if !res.Diags.HasWarnings() || res.Diags.Items()[0].Code != diag.PkgNoEntry {
		t.Fatalf("diags = %v", res.Diags.Items())
	}
}

func TestUnitPath(t *testing.T) {
	if got := packager.UnitPath("a/b.nova"); got != "a/b.nomc" {
		t.Fatalf("UnitPath = %s", got)
	}
	if got := packager.UnitPath("x.txt"); got != "x.txt.nomc" {
		t.Fatalf("UnitPath = %s", got)
	}
}

func TestPackParallelKeepsSourceOrder(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	var want []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["nova/"+name+".nova"] = "func main() { return 0 }\n"
		want = append(want, "bin/"+name+".nomc")
	}
	files["nova/bad.nova"] = "func helper() { return 1 }\n"
	want = append([]string{"bin/bad.nomc"}, want...)
	testkit.WriteFiles(t, root, files)

	req := request(root)
	req.Jobs = 4
	res, err := packager.Pack(context.Background(), req)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if strings.Join(res.Manifest.Bin, ",") != strings.Join(want, ",") {
		t.Fatalf("bin = %v, want %v", res.Manifest.Bin, want)
	}
	if got := res.Diags.Len(); got != 1 || res.Diags.Items()[0].Code != diag.PkgNoEntry {
		t.Fatalf("diags = %+v, want one no-entry warning", res.Diags.Items())
	}
}
