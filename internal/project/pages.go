package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// SourceExt is the extension of Soul source files (pages).
const SourceExt = ".soul"

// IsValidSegment reports whether name can be a segment of a page path.
func IsValidSegment(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// PageName maps a source file to its dotted page path: the project name
// followed by the directories (books) below sourceRoot and the file name
// without extension. `src/math/vec.soul` in project `app` is `app.math.vec`.
func PageName(project, sourceRoot, file string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside the source root %s", file, sourceRoot)
	}
	rel = strings.TrimSuffix(rel, SourceExt)
	segments := strings.Split(rel, "/")
	for _, seg := range segments {
		if !IsValidSegment(seg) {
			return "", fmt.Errorf("%s: %q is not a valid page name segment", file, seg)
		}
	}
	if project != "" {
		segments = append([]string{project}, segments...)
	}
	return strings.Join(segments, "."), nil
}

// ListSources returns every .soul file below dir, sorted. Hidden directories
// and build folders are skipped.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && len(name) > 1 && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "target" || name == "build" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
