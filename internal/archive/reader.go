package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNoManifest reports an archive without bin/Manifest.json.
var ErrNoManifest = errors.New("archive: manifest not found")

// maxEntrySize bounds a single entry read into memory.
const maxEntrySize = 256 << 20

// Reader is a fully indexed archive. It is read-only after Open.
type Reader struct {
	Path    string
	names   []string
	entries map[string][]byte
}

// Open reads the archive at p.
func Open(p string) (*Reader, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer f.Close()
	r, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	r.Path = p
	return r, nil
}

// Read indexes a tar stream. Directory entries are skipped; "./" prefixes
// are dropped.
func Read(src io.Reader) (*Reader, error) {
	r := &Reader{entries: make(map[string][]byte)}
	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Size > maxEntrySize {
			return nil, fmt.Errorf("archive: entry %q too large (%d bytes)", hdr.Name, hdr.Size)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", hdr.Name, err)
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		if _, dup := r.entries[name]; !dup {
			r.names = append(r.names, name)
		}
		r.entries[name] = data
	}
	return r, nil
}

// Names lists regular entries in stream order.
func (r *Reader) Names() []string {
	return append([]string(nil), r.names...)
}

// ReadFile returns the entry bytes. Missing entries wrap fs.ErrNotExist.
func (r *Reader) ReadFile(name string) ([]byte, error) {
	data, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("archive: %q: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

// Manifest parses bin/Manifest.json with ParseManifest.
func (r *Reader) Manifest() (*Manifest, error) {
	data, ok := r.entries[ManifestPath]
	if !ok {
		return nil, ErrNoManifest
	}
	return ParseManifest(data)
}
