package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// BinDir is the root directory of every entry.
	BinDir = "bin"
	// ManifestPath is the manifest entry name.
	ManifestPath = BinDir + "/Manifest.json"
	// Ext is the archive file extension.
	Ext = ".novar"
)

// Manifest lists the units of an archive.
type Manifest struct {
	Project ProjectInfo `json:"project"`
	// Bin holds archive-relative unit paths ("bin/main.nomc") in the order
	// they are executed.
	Bin []string `json:"bin"`
}

type ProjectInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Marshal renders the manifest as indented JSON with a trailing newline.
// An empty Bin is written as [].
func (m *Manifest) Marshal() ([]byte, error) {
	out := *m
	if out.Bin == nil {
		out.Bin = []string{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnknownField stands in for a missing project name or version on read.
const UnknownField = "<unknown>"

// ParseManifest decodes a manifest read from an archive. It is more lenient
// than ValidateManifest: a blank name or version reads as UnknownField and
// a unit listed twice stays in Bin, so it runs twice. Unit paths must still
// be clean paths under bin/.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}
	if strings.TrimSpace(m.Project.Name) == "" {
		m.Project.Name = UnknownField
	}
	if strings.TrimSpace(m.Project.Version) == "" {
		m.Project.Version = UnknownField
	}
	for _, p := range m.Bin {
		if err := validateUnitPath(p); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// ValidateManifest checks the project name and that every unit path is a
// clean relative path under bin/. Duplicate units are rejected.
func ValidateManifest(m *Manifest) error {
	if m == nil {
		return errors.New("manifest: missing")
	}
	if strings.TrimSpace(m.Project.Name) == "" {
		return errors.New("manifest: project name is empty")
	}
	seen := make(map[string]struct{}, len(m.Bin))
	for _, p := range m.Bin {
		if err := validateUnitPath(p); err != nil {
			return err
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("manifest: unit %q listed twice", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

func validateUnitPath(p string) error {
	if err := validateEntryName(p); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if p == ManifestPath {
		return fmt.Errorf("manifest: %q is not a unit", p)
	}
	return nil
}

func validateEntryName(name string) error {
	switch {
	case name == "":
		return errors.New("empty entry path")
	case strings.Contains(name, `\`):
		return fmt.Errorf("entry %q uses a backslash", name)
	case path.IsAbs(name):
		return fmt.Errorf("entry %q is absolute", name)
	case path.Clean(name) != name:
		return fmt.Errorf("entry %q is not clean", name)
	case !strings.HasPrefix(name, BinDir+"/"):
		return fmt.Errorf("entry %q is outside %s/", name, BinDir)
	}
	for seg := range strings.SplitSeq(name, "/") {
		if seg == ".." {
			return fmt.Errorf("entry %q escapes the archive", name)
		}
	}
	return nil
}
