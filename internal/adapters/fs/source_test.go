package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/example/jai/internal/adapters/fs"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

func TestEnumerate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":                "# portal",
		"src/app/page.tsx":         "export default function Page() {}",
		"src/lib/db.ts":            "export const db = {}",
		".gitignore":               "node_modules\n",
		".git/HEAD":                "ref: refs/heads/main",
		"node_modules/react/x.js":  "module.exports = {}",
		".next/build-manifest.txt": "{}",
	})

	source := fs.NewLocalSource()
	stats, err := source.Enumerate(context.Background(), root)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	var paths []string
	for _, st := range stats {
		paths = append(paths, st.Path)
	}
	sort.Strings(paths)

	want := []string{".gitignore", "README.md", "src/app/page.tsx", "src/lib/db.ts"}
	if len(paths) != len(want) {
		t.Fatalf("Enumerate() paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	for _, st := range stats {
		if st.Path == "README.md" && st.SizeBytes != int64(len("# portal")) {
			t.Errorf("README.md size = %d", st.SizeBytes)
		}
	}
}

func TestEnumerateBadRoot(t *testing.T) {
	source := fs.NewLocalSource()

	if _, err := source.Enumerate(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing root")
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := source.Enumerate(context.Background(), file); err == nil {
		t.Error("expected an error for a non-directory root")
	}
}

func TestRead(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/lib/db.ts": "export const db = {}"})

	source := fs.NewLocalSource()

	content, err := source.Read(context.Background(), root, "src/lib/db.ts")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(content) != "export const db = {}" {
		t.Errorf("Read() = %q", content)
	}

	if _, err := source.Read(context.Background(), root, "../etc/passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}

	if _, err := source.Read(context.Background(), root, "src/missing.ts"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := fs.NewLocalSource()
	if _, err := source.Read(ctx, root, "a.txt"); err == nil {
		t.Error("expected a cancelled context to fail the read")
	}
	if _, err := source.Enumerate(ctx, root); err == nil {
		t.Error("expected a cancelled context to fail the walk")
	}
}
