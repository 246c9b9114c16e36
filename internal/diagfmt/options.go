package diagfmt

import (
	"path/filepath"

	"soul/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto is relative to BaseDir when possible.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// Options configure error rendering.
type Options struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Context - сколько строк до ошибки показывать
	Context int
}

func displayPath(f *source.File, opts Options) string {
	if f == nil {
		return "<unknown>"
	}
	switch opts.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil && f.Flags&source.FileVirtual == 0 {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.DisplayPath(opts.BaseDir)
	}
}
