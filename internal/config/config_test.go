package config_test

import (
	"testing"

	"github.com/example/jai/internal/config"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	want := &config.Config{
		Version:     "1",
		Actor:       "tester",
		DefaultRepo: "portal",
		DBPath:      "/tmp/jai-test.db",
	}
	if err := config.SaveConfig(dir, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := config.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *got != *want {
		t.Errorf("round-tripped config = %+v, want %+v", got, want)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := config.LoadConfig(t.TempDir()); err == nil {
		t.Error("expected an error for a missing config")
	}
}
