package packager

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/NovaVoxel/NovaLang/internal/archive"
	"github.com/NovaVoxel/NovaLang/internal/buildcache"
	"github.com/NovaVoxel/NovaLang/internal/buildpipeline"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/project"
	"github.com/NovaVoxel/NovaLang/internal/token"
	"github.com/NovaVoxel/NovaLang/internal/trace"
)

// Request describes one pack.
type Request struct {
	ProjectName string
	Version     string
	SourceDir   string
	BinDir      string
	TargetDir   string
	// Cache is optional.
	Cache *buildcache.Cache
	// Progress may be called from several goroutines at once.
	Progress buildpipeline.ProgressSink
	// Jobs > 1 compiles that many units at once. Each unit still has its
	// own builder; the default compiles one unit at a time.
	Jobs int
}

// FromConfig fills a request from a loaded nova.toml.
func FromConfig(cfg *project.Config) *Request {
	return &Request{
		ProjectName: cfg.Package.Name,
		Version:     cfg.Package.Version,
		SourceDir:   cfg.SourceDir(),
		BinDir:      cfg.BinDir(),
		TargetDir:   cfg.TargetDir(),
	}
}

// Unit is one packed unit.
type Unit struct {
	Source string // path of the .nova file
	Entry  string // archive entry, bin/<stem>.nomc
	Size   int
	Cached bool
}

// Result describes a finished pack.
type Result struct {
	ArchivePath string
	Manifest    *archive.Manifest
	Units       []Unit
	// Diags holds warnings (no sources, units without main) and, on a parse
	// failure, the parser's diagnostics.
	Diags   *diag.Bag
	Timings buildpipeline.Timings
}

// Pack compiles every *.nova directly in SourceDir, writes the units and
// bin/Manifest.json to BinDir and the archive to TargetDir/<name>.novar.
// The returned Result is non-nil even on error so callers can print Diags.
func Pack(ctx context.Context, req *Request) (*Result, error) {
	res := &Result{Diags: diag.NewBag(0)}
	if err := validate(req); err != nil {
		return res, &Error{Op: "config", Err: err}
	}
	parent := trace.CurrentSpan(ctx).SpanID
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "pack", parent)
	defer span.End("")

	sources, err := listSources(req.SourceDir)
	if err != nil {
		return res, &Error{Op: "read", Path: req.SourceDir, Err: err}
	}
	if len(sources) == 0 {
		res.Diags.Add(diag.New(diag.SevWarning, diag.PkgNoSources, req.SourceDir, token.Pos{},
			"no "+SourceExt+" files found to compile"))
	}
	for _, src := range sources {
		buildpipeline.Emit(req.Progress, buildpipeline.Event{File: src, Status: buildpipeline.StatusQueued})
	}
	if err := os.MkdirAll(req.BinDir, 0o755); err != nil {
		return res, &Error{Op: "write", Path: req.BinDir, Err: err}
	}

	units, err := compileAll(ctx, req, sources, span.ID(), res)
	if err != nil {
		return res, err
	}
	payloads := make(map[string][]byte, len(sources))
	manifest := &archive.Manifest{
		Project: archive.ProjectInfo{Name: req.ProjectName, Version: cmp.Or(req.Version, project.DefaultVersion)},
		Bin:     make([]string, 0, len(sources)),
	}
	for i, src := range sources {
		stem := ModuleName(src)
		entry := path.Join(archive.BinDir, stem+UnitExt)
		out := filepath.Join(req.BinDir, stem+UnitExt)
		if err := os.WriteFile(out, units[i].data, 0o644); err != nil {
			return res, &Error{Op: "write", Path: out, Err: err}
		}
		payloads[entry] = units[i].data
		manifest.Bin = append(manifest.Bin, entry)
		res.Units = append(res.Units, Unit{Source: src, Entry: entry, Size: len(units[i].data), Cached: units[i].cached})
	}

	buildpipeline.Emit(req.Progress, buildpipeline.Event{Stage: buildpipeline.StagePack, Status: buildpipeline.StatusWorking})
	if err := writeManifest(req.BinDir, manifest); err != nil {
		return res, err
	}
	dst := filepath.Join(req.TargetDir, req.ProjectName+archive.Ext)
	if err := writeArchive(dst, manifest, payloads); err != nil {
		buildpipeline.Emit(req.Progress, buildpipeline.Event{Stage: buildpipeline.StagePack, Status: buildpipeline.StatusError, Err: err})
		return res, err
	}
	buildpipeline.Emit(req.Progress, buildpipeline.Event{Stage: buildpipeline.StagePack, Status: buildpipeline.StatusDone})
	res.ArchivePath = dst
	res.Manifest = manifest
	span.WithExtra("units", fmt.Sprint(len(manifest.Bin)))
	return res, nil
}

func validate(req *Request) error {
	if req == nil {
		return errors.New("nil request")
	}
	switch {
	case strings.TrimSpace(req.ProjectName) == "":
		return errors.New("project name is empty")
	case strings.ContainsAny(req.ProjectName, `/\`):
		return fmt.Errorf("project name %q contains a path separator", req.ProjectName)
	case req.SourceDir == "" || req.BinDir == "" || req.TargetDir == "":
		return errors.New("source, bin and target directories are required")
	}
	return nil
}

// listSources returns the *.nova regular files of dir, sorted by name.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), SourceExt) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	slices.Sort(out)
	return out, nil
}

type compiledUnit struct {
	data    []byte
	cached  bool
	diags   *diag.Bag
	timings buildpipeline.Timings
}

// compileAll compiles sources with up to req.Jobs workers. Diagnostics and timings are
// merged into res in source order whether or not a unit failed.
func compileAll(ctx context.Context, req *Request, sources []string, parent uint64, res *Result) ([]compiledUnit, error) {
	units := make([]compiledUnit, len(sources))
	if len(sources) == 0 {
		return units, nil
	}
	jobs := max(req.Jobs, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(sources)))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u := &units[i]
			u.diags = diag.NewBag(0)
			c := compiler{ctx: gctx, sink: req.Progress, timings: &u.timings, diags: u.diags, parent: parent}
			var err error
			u.data, u.cached, err = compileCached(&c, req.Cache, src)
			return err
		})
	}
	err := g.Wait()
	for i := range units {
		if units[i].diags != nil {
			res.Diags.Merge(units[i].diags)
		}
		res.Timings.Merge(units[i].timings)
	}
	return units, err
}

// compileCached serves src from cache when its content is unchanged. A
// corrupt entry is dropped with a warning and the file is rebuilt.
func compileCached(c *compiler, cache *buildcache.Cache, src string) ([]byte, bool, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, false, &Error{Op: "read", Path: src, Err: err}
	}
	module := ModuleName(src)
	key := buildcache.Key(module, data)
	if cache != nil {
		e, err := cache.Get(key)
		switch {
		case err != nil:
			c.diags.Add(diag.New(diag.SevWarning, diag.PkgCacheCorrupt, src, token.Pos{}, err.Error()))
			_ = cache.Drop(key)
		case e != nil:
			buildpipeline.Emit(c.sink, buildpipeline.Event{File: src, Status: buildpipeline.StatusCached})
			return e.Unit, true, nil
		}
	}
	_, unit, err := c.compile(src, module, data)
	if err != nil {
		return nil, false, err
	}
	if cache != nil {
		if err := cache.Put(key, &buildcache.Entry{Module: module, SourceHash: project.Sum(data), Unit: unit}); err != nil {
			c.diags.Add(diag.New(diag.SevWarning, diag.PkgCacheCorrupt, src, token.Pos{}, "cache write: "+err.Error()))
		}
	}
	return unit, false, nil
}

func writeManifest(binDir string, m *archive.Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return &Error{Op: "write", Path: binDir, Err: err}
	}
	p := filepath.Join(binDir, filepath.Base(archive.ManifestPath))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return &Error{Op: "write", Path: p, Err: err}
	}
	return nil
}

func writeArchive(dst string, m *archive.Manifest, payloads map[string][]byte) error {
	w, err := archive.Create(dst)
	if err != nil {
		return &Error{Op: "archive", Path: dst, Err: err}
	}
	for _, entry := range m.Bin {
		if err := w.AddFile(entry, payloads[entry]); err != nil {
			w.Abort()
			return &Error{Op: "archive", Path: dst, Err: err}
		}
	}
	if err := w.AddManifest(m); err != nil {
		w.Abort()
		return &Error{Op: "archive", Path: dst, Err: err}
	}
	if err := w.Close(); err != nil {
		return &Error{Op: "archive", Path: dst, Err: err}
	}
	return nil
}
