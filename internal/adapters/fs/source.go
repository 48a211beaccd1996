// Package fs provides the local-checkout implementation of the file
// source port: it enumerates a repo's working tree the way the portal
// indexer walks a cloned repository.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/jai/internal/ports/secondary"
)

// Directories never indexed: VCS metadata and build output. Dotfiles
// like .github or .gitignore are indexed as normal.
var skipDirs = map[string]bool{
	".git":         true,
	".next":        true,
	"node_modules": true,
}

// LocalSource reads a repo snapshot from a local directory tree.
type LocalSource struct{}

// NewLocalSource creates a local-tree file source.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Enumerate walks root and returns every regular file as a
// slash-separated relative path.
func (s *LocalSource) Enumerate(ctx context.Context, root string) ([]secondary.FileStat, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}

	var files []secondary.FileStat
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, secondary.FileStat{
			Path:      filepath.ToSlash(rel),
			SizeBytes: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", root, err)
	}

	return files, nil
}

// Read returns the content of one enumerated file.
func (s *LocalSource) Read(ctx context.Context, root, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Reject escapes from the tree; enumerated paths are always relative.
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("invalid path %q", path)
	}
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
}

// Ensure LocalSource implements the interface
var _ secondary.FileSource = (*LocalSource)(nil)
