// Package testkit holds helpers shared by package tests: compiling source
// strings and laying out projects and archives on disk.
package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/archive"
	"github.com/NovaVoxel/NovaLang/internal/backend/native"
	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/parser"
)

// Module parses and builds src as module name.
func Module(tb testing.TB, name, src string) *ir.Module {
	tb.Helper()
	f, err := parser.ParseFile(name+".nova", []byte(src))
	if err != nil {
		tb.Fatalf("parse: %v", err)
	}
	m, err := ir.BuildNamed(name, f)
	if err != nil {
		tb.Fatalf("build: %v", err)
	}
	if err := CheckInvariants(m); err != nil {
		tb.Fatalf("invariants: %v", err)
	}
	return m
}

// Unit compiles src to a unit; library modules without main are allowed.
func Unit(tb testing.TB, name, src string) *nomc.Unit {
	tb.Helper()
	u, err := native.Lower(Module(tb, name, src), native.Options{AllowNoEntry: true})
	if err != nil {
		tb.Fatalf("lower: %v", err)
	}
	return u
}

// UnitBytes compiles and encodes src.
func UnitBytes(tb testing.TB, name, src string) []byte {
	tb.Helper()
	data, err := nomc.Encode(Unit(tb, name, src))
	if err != nil {
		tb.Fatalf("encode: %v", err)
	}
	return data
}

// WriteFiles writes name -> content pairs under dir, creating parents.
func WriteFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			tb.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			tb.Fatal(err)
		}
	}
}

// ArchiveUnit is one entry of WriteArchive.
type ArchiveUnit struct {
	Entry string // bin/<name>.nomc
	Data  []byte
}

// WriteArchive writes an archive listing units in order. Entries with nil
// Data are listed in the manifest but not stored.
func WriteArchive(tb testing.TB, dst, project string, units ...ArchiveUnit) {
	tb.Helper()
	w, err := archive.Create(dst)
	if err != nil {
		tb.Fatalf("create archive: %v", err)
	}
	m := &archive.Manifest{Project: archive.ProjectInfo{Name: project, Version: "0.1.0"}, Bin: []string{}}
	for _, u := range units {
		m.Bin = append(m.Bin, u.Entry)
		if u.Data == nil {
			continue
		}
		if err := w.AddFile(u.Entry, u.Data); err != nil {
			w.Abort()
			tb.Fatalf("add %s: %v", u.Entry, err)
		}
	}
	if err := w.AddManifest(m); err != nil {
		w.Abort()
		tb.Fatalf("manifest: %v", err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("close archive: %v", err)
	}
}
