package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// ManifestName is the optional project file at the project root.
	ManifestName = "nova.toml"

	DefaultVersion   = "0.1.0"
	DefaultSourceDir = "nova"
	DefaultBinDir    = "bin"
	DefaultTargetDir = "target"
)

// Config is the parsed nova.toml with defaults applied.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`

	// Root is the absolute project directory; not read from the file.
	Root string `toml:"-"`
	// FromFile reports whether nova.toml was present.
	FromFile bool `toml:"-"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildConfig holds directories relative to Root.
type BuildConfig struct {
	Source string `toml:"source"`
	Bin    string `toml:"bin"`
	Target string `toml:"target"`
}

// Load reads root/nova.toml. A missing file is not an error: the project
// is named after the root directory and uses the default layout.
func Load(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %q is not a directory", root)
	}

	cfg := &Config{Root: abs}
	path := filepath.Join(abs, ManifestName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		md, decodeErr := toml.Decode(string(data), cfg)
		if decodeErr != nil {
			return nil, fmt.Errorf("%s: %w", path, decodeErr)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		cfg.FromFile = true
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Package.Name == "" {
		c.Package.Name = filepath.Base(c.Root)
	}
	if c.Package.Version == "" {
		c.Package.Version = DefaultVersion
	}
	if c.Build.Source == "" {
		c.Build.Source = DefaultSourceDir
	}
	if c.Build.Bin == "" {
		c.Build.Bin = DefaultBinDir
	}
	if c.Build.Target == "" {
		c.Build.Target = DefaultTargetDir
	}
}

func (c *Config) validate() error {
	for key, dir := range map[string]string{
		"build.source": c.Build.Source,
		"build.bin":    c.Build.Bin,
		"build.target": c.Build.Target,
	} {
		if filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
			return fmt.Errorf("%s must be a path inside the project, got %q", key, dir)
		}
	}
	if strings.ContainsAny(c.Package.Name, `/\`) {
		return fmt.Errorf("package.name %q must not contain path separators", c.Package.Name)
	}
	return nil
}

func (c *Config) SourceDir() string { return filepath.Join(c.Root, c.Build.Source) }
func (c *Config) BinDir() string    { return filepath.Join(c.Root, c.Build.Bin) }
func (c *Config) TargetDir() string { return filepath.Join(c.Root, c.Build.Target) }

// ArchivePath is target/<name>.novar.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.TargetDir(), c.Package.Name+".novar")
}
