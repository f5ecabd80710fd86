package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"
)

// modTime is stamped on every entry so equal inputs give equal bytes.
var modTime = time.Unix(0, 0).UTC()

// Writer builds an archive in a temporary file next to the destination and
// renames it into place on Close. Abort (or a failed Close) removes it.
type Writer struct {
	path string
	tmp  *os.File
	tw   *tar.Writer
	dirs map[string]struct{}
	done bool
}

// Create starts an archive that will be written to dst.
func Create(dst string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return &Writer{
		path: dst,
		tmp:  tmp,
		tw:   tar.NewWriter(tmp),
		dirs: make(map[string]struct{}),
	}, nil
}

// AddFile appends an entry. name must be a clean path under bin/.
func (w *Writer) AddFile(name string, data []byte) error {
	if w.done {
		return errors.New("archive: write after close")
	}
	if err := validateEntryName(name); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := w.addDirs(path.Dir(name)); err != nil {
		return err
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  modTime,
		Format:   tar.FormatUSTAR,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive: %s: %w", name, err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return fmt.Errorf("archive: %s: %w", name, err)
	}
	return nil
}

// AddManifest validates m and writes it to ManifestPath.
func (w *Writer) AddManifest(m *Manifest) error {
	if err := ValidateManifest(m); err != nil {
		return err
	}
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	return w.AddFile(ManifestPath, data)
}

func (w *Writer) addDirs(dir string) error {
	if dir == "." || dir == "/" {
		return nil
	}
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.addDirs(path.Dir(dir)); err != nil {
		return err
	}
	w.dirs[dir] = struct{}{}
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     dir + "/",
		Mode:     0o755,
		ModTime:  modTime,
		Format:   tar.FormatUSTAR,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive: %s: %w", dir, err)
	}
	return nil
}

// Close finishes the stream and moves the archive into place.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	err := w.tw.Close()
	if err == nil {
		err = w.tmp.Sync()
	}
	if cerr := w.tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(w.tmp.Name(), w.path)
	}
	if err != nil {
		_ = os.Remove(w.tmp.Name())
		return fmt.Errorf("archive: %s: %w", w.path, err)
	}
	return nil
}

// Abort discards the partial archive.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}
