package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/jai/internal/config"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestGetDBPath(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("JAI_DB", "/tmp/ci.db")
		chdir(t, t.TempDir())

		got, err := GetDBPath()
		if err != nil {
			t.Fatalf("GetDBPath failed: %v", err)
		}
		if got != "/tmp/ci.db" {
			t.Errorf("GetDBPath() = %q, want /tmp/ci.db", got)
		}
	})

	t.Run("workspace config db_path", func(t *testing.T) {
		t.Setenv("JAI_DB", "")
		dir := t.TempDir()
		chdir(t, dir)

		want := filepath.Join(dir, "state.db")
		if err := config.SaveConfig(dir, &config.Config{Version: "1", DBPath: want}); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		got, err := GetDBPath()
		if err != nil {
			t.Fatalf("GetDBPath failed: %v", err)
		}
		if got != want {
			t.Errorf("GetDBPath() = %q, want %q", got, want)
		}
	})

	t.Run("home default without env or config", func(t *testing.T) {
		t.Setenv("JAI_DB", "")
		chdir(t, t.TempDir())

		got, err := GetDBPath()
		if err != nil {
			t.Fatalf("GetDBPath failed: %v", err)
		}
		if filepath.Base(got) != "jai.db" {
			t.Errorf("GetDBPath() = %q, want a path ending in jai.db", got)
		}
	})
}
