package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"soul/internal/project"
	"soul/internal/trace"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 150 * time.Millisecond

// Watch calls onChange with the sorted set of changed paths whenever source
// files or the manifest under root change, until ctx is cancelled. New
// directories are watched as they appear.
func Watch(ctx context.Context, root string, debounce time.Duration, onChange func(ctx context.Context, changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	if err := addTree(w, root); err != nil {
		return err
	}

	tr := trace.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(ev.Name, root) {
					if err := addTree(w, ev.Name); err != nil {
						trace.Error(tr, "watch", err)
					}
					continue
				}
			}
			if !relevant(ev) {
				continue
			}
			trace.Point(tr, trace.ScopeFile, "watch:"+ev.Op.String(), ev.Name)
			pending[ev.Name] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			trace.Error(tr, "watch", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(ctx, changed)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	return filepath.Ext(base) == project.SourceExt || base == project.ManifestName
}

func skipDir(path, root string) bool {
	if path == root {
		return false
	}
	name := filepath.Base(path)
	return len(name) > 1 && strings.HasPrefix(name, ".") || name == "target" || name == "build"
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(path, dir) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
