package archive

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArchive(t *testing.T, dst string, m *Manifest, files map[string][]byte) {
	t.Helper()
	w, err := Create(dst)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, name := range m.Bin {
		if err := w.AddFile(name, files[name]); err != nil {
			t.Fatalf("AddFile(%s): %v", name, err)
		}
	}
	if err := w.AddManifest(m); err != nil {
		t.Fatalf("AddManifest: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "target", "demo.novar")
	m := &Manifest{Project: ProjectInfo{Name: "demo", Version: "0.1.0"}, Bin: []string{"bin/a.nomc", "bin/b.nomc"}}
	files := map[string][]byte{"bin/a.nomc": []byte("AAA"), "bin/b.nomc": {0, 1, 2}}
	writeArchive(t, dst, m, files)

	r, err := Open(dst)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := r.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if got.Project != m.Project || strings.Join(got.Bin, ",") != "bin/a.nomc,bin/b.nomc" {
		t.Fatalf("manifest = %+v", got)
	}
	for name, want := range files {
		data, err := r.ReadFile(name)
		if err != nil || !bytes.Equal(data, want) {
			t.Fatalf("ReadFile(%s) = %q, %v", name, data, err)
		}
	}
	if _, err := r.ReadFile("bin/missing.nomc"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing entry err = %v", err)
	}
	if names := r.Names(); names[len(names)-1] != ManifestPath {
		t.Fatalf("names = %v", names)
	}
}

func TestArchivesAreReproducible(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Project: ProjectInfo{Name: "x", Version: "1"}, Bin: []string{"bin/main.nomc"}}
	files := map[string][]byte{"bin/main.nomc": []byte("unit")}
	a, b := filepath.Join(dir, "a.novar"), filepath.Join(dir, "b.novar")
	writeArchive(t, a, m, files)
	writeArchive(t, b, m, files)
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Fatalf("archives differ")
	}
}

func TestEmptyManifestMarshalsEmptyList(t *testing.T) {
	data, err := (&Manifest{Project: ProjectInfo{Name: "p", Version: "0.1.0"}}).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bin": []`) {
		t.Fatalf("manifest = %s", data)
	}
	m, err := ParseManifest(data)
	if err != nil || len(m.Bin) != 0 {
		t.Fatalf("ParseManifest = %+v, %v", m, err)
	}
}

func TestValidateManifest(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
		want string
	}{
		{"no name", Manifest{Bin: []string{"bin/a.nomc"}}, "project name"},
		{"absolute", Manifest{Project: ProjectInfo{Name: "p"}, Bin: []string{"/bin/a.nomc"}}, "absolute"},
		{"outside bin", Manifest{Project: ProjectInfo{Name: "p"}, Bin: []string{"lib/a.nomc"}}, "outside"},
		{"unclean", Manifest{Project: ProjectInfo{Name: "p"}, Bin: []string{"bin/../a.nomc"}}, "not clean"},
		{"duplicate", Manifest{Project: ProjectInfo{Name: "p"}, Bin: []string{"bin/a.nomc", "bin/a.nomc"}}, "twice"},
		{"manifest as unit", Manifest{Project: ProjectInfo{Name: "p"}, Bin: []string{ManifestPath}}, "not a unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifest(&tt.m)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestMissingManifest(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bare.novar")
	w, err := Create(dst)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile("bin/a.nomc", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Manifest(); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v", err)
	}
}

func TestAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(filepath.Join(dir, "x.novar"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile("../escape", nil); err == nil {
		t.Fatalf("AddFile accepted an escaping path")
	}
	w.Abort()
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("leftover files: %v", entries)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "junk.novar")
	if err := os.WriteFile(p, bytes.Repeat([]byte{0xff}, 1024), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(p); err == nil {
		t.Fatalf("Open accepted garbage")
	}
}

func TestParseManifestIsLenient(t *testing.T) {
	m, err := ParseManifest([]byte(`{"project": {"name": " "}, "bin": ["bin/a.nomc", "bin/a.nomc"]}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.Project.Name != UnknownField || m.Project.Version != UnknownField {
		t.Fatalf("project = %+v", m.Project)
	}
	if len(m.Bin) != 2 {
		t.Fatalf("bin = %v", m.Bin)
	}
	if _, err := ParseManifest([]byte(`{"project": {"name": "p"}, "bin": ["../a.nomc"]}`)); err == nil {
		t.Fatal("path outside bin/ was accepted")
	}
}
