package fs

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a repo's local tree and invokes a callback after
// changes settle. It is the local analog of a webhook trigger: the
// callback typically starts a sync run and may see the run refused
// while an earlier one is still active.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func()
}

// NewWatcher creates a watcher over root. onChange fires once per burst
// of filesystem events, after debounce of quiet.
func NewWatcher(root string, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{root: root, debounce: debounce, onChange: onChange}
}

// Run watches until ctx is cancelled. Directories created while
// watching are added to the watch set as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addRecursive(fw, w.root); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if skipDirs[filepath.Base(ev.Name)] {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				// New subdirectories need their own watch.
				_ = addRecursive(fw, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			_ = err // transient watch errors are not fatal

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

// addRecursive watches path and all directories below it. Non-directory
// paths are ignored.
func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}
