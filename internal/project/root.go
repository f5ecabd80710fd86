package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoManifest means no nova.toml exists in a directory or its parents.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// FindRoot returns the nearest directory at or above start that holds a
// nova.toml.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ManifestName))
		switch {
		case err == nil && !info.IsDir():
			return dir, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		up := filepath.Dir(dir)
		if up == dir {
			return "", fmt.Errorf("%w in %s or its parents", ErrNoManifest, start)
		}
		dir = up
	}
}
