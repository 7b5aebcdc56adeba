// Package project locates and reads the jvmabi.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file searched for upward from the working directory.
const ManifestName = "jvmabi.toml"

const defaultMetadataPath = ".jvmabi/metadata.mp"

// ErrNoManifest is returned when no manifest exists up to the filesystem root.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables.
type Config struct {
	Module     ModuleConfig     `toml:"module"`
	Metadata   MetadataConfig   `toml:"metadata"`
	Intrinsics IntrinsicsConfig `toml:"intrinsics"`
	Plan       PlanConfig       `toml:"plan"`
}

// ModuleConfig names the module and its declaration files.
type ModuleConfig struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
}

// MetadataConfig points at the persisted facts file.
type MetadataConfig struct {
	Path string `toml:"path"`
}

// IntrinsicsConfig lists extra intrinsic companions.
type IntrinsicsConfig struct {
	Extra []string `toml:"extra"`
}

// PlanConfig tunes the planner.
type PlanConfig struct {
	Jobs   int  `toml:"jobs"`
	NoMemo bool `toml:"no_memo"`
}

// FindManifest walks up from startDir looking for ManifestName.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest above startDir.
func LoadManifest(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return ReadManifest(path)
}

// ReadManifest parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("module") {
		return nil, fmt.Errorf("%s: missing [module]", path)
	}
	if !meta.IsDefined("module", "name") || strings.TrimSpace(cfg.Module.Name) == "" {
		return nil, fmt.Errorf("%s: missing [module].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Plan.Jobs < 0 {
		return nil, fmt.Errorf("%s: [plan].jobs must not be negative", path)
	}
	if strings.TrimSpace(cfg.Metadata.Path) == "" {
		cfg.Metadata.Path = defaultMetadataPath
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// MetadataPath resolves the metadata file relative to the manifest root.
func (m *Manifest) MetadataPath() string {
	p := filepath.FromSlash(m.Config.Metadata.Path)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// SourceFiles expands the [module].sources globs, sorted and deduplicated.
func (m *Manifest) SourceFiles() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range m.Config.Module.Sources {
		abs := filepath.Join(m.Root, filepath.FromSlash(pattern))
		matches, err := filepath.Glob(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: bad source pattern %q: %w", m.Path, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: source pattern %q matches no files", m.Path, pattern)
		}
		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	slices.Sort(out)
	return out, nil
}

// HashFiles combines the content hashes of files, in the given order.
func HashFiles(paths []string) (Digest, error) {
	hashes := make([]Digest, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return Digest{}, err
		}
		hashes = append(hashes, HashBytes(data))
	}
	return Combine(Digest{}, hashes...), nil
}
