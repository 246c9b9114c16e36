package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// Manifest is a loaded soul.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of soul.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Build   BuildConfig   `toml:"build"`
}

// ProjectConfig is the [project] section.
type ProjectConfig struct {
	Name string `toml:"name"`
	// Soul is a semver constraint on the compiler version, e.g. ">= 0.1, < 0.3".
	Soul string `toml:"soul"`
	// Source is the book root relative to the manifest; "." when empty.
	Source string `toml:"source"`
}

// BuildConfig is the optional [build] section. Zero values mean "use the default".
type BuildConfig struct {
	Jobs      int   `toml:"jobs"`
	MaxErrors int   `toml:"max-errors"`
	Cache     *bool `toml:"cache"`
}

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing or empty.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

// LoadConfig decodes and validates a soul.toml file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	cfg.Project.Name = strings.TrimSpace(cfg.Project.Name)
	if !meta.IsDefined("project", "name") || cfg.Project.Name == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if !IsValidSegment(cfg.Project.Name) {
		return Config{}, fmt.Errorf("%s: invalid project name %q", path, cfg.Project.Name)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if cfg.Build.MaxErrors < 0 {
		return Config{}, fmt.Errorf("%s: [build].max-errors must not be negative", path)
	}
	if c := strings.TrimSpace(cfg.Project.Soul); c != "" {
		if _, err := semver.NewConstraint(c); err != nil {
			return Config{}, fmt.Errorf("%s: invalid [project].soul constraint %q: %w", path, c, err)
		}
	}
	return cfg, nil
}

// LoadManifest finds soul.toml above startDir and loads it. ok is false when
// there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// SourceRoot is the directory pages are named relative to.
func (m *Manifest) SourceRoot() string {
	src := strings.TrimSpace(m.Config.Project.Source)
	if src == "" {
		return m.Root
	}
	return filepath.Join(m.Root, filepath.FromSlash(src))
}

// CacheEnabled reports whether [build].cache allows the parse cache (default on).
func (m *Manifest) CacheEnabled() bool {
	return m.Config.Build.Cache == nil || *m.Config.Build.Cache
}

// CheckCompiler verifies the [project].soul constraint against the compiler
// version. An empty constraint accepts every version.
func (m *Manifest) CheckCompiler(compilerVersion string) error {
	c := strings.TrimSpace(m.Config.Project.Soul)
	if c == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		return fmt.Errorf("%s: invalid [project].soul constraint %q: %w", m.Path, c, err)
	}
	v, err := semver.NewVersion(compilerVersion)
	if err != nil {
		return fmt.Errorf("compiler version %q is not a semantic version: %w", compilerVersion, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("%s: project requires soul %s, this compiler is %s (%s)", m.Path, c, v, strings.Join(msgs, "; "))
	}
	return nil
}
