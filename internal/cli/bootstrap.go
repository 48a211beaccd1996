// Package cli provides CLI commands for the JAI application.
package cli

import (
	gocontext "context"
	"errors"
	"os"
	"os/user"

	"github.com/example/jai/internal/config"
	"github.com/example/jai/internal/ctxutil"
)

// globalActorID stores the detected actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor detects the current actor identity and stores it globally.
// Should be called once at CLI startup in PersistentPreRun.
// Resolution order: JAI_ACTOR env, .jai/config.json in cwd, OS username.
func DetectAndStoreActor() {
	if actor := os.Getenv("JAI_ACTOR"); actor != "" {
		globalActorID = actor
		return
	}

	if dir, err := os.Getwd(); err == nil {
		if cfg, err := config.LoadConfig(dir); err == nil && cfg.Actor != "" {
			globalActorID = cfg.Actor
			return
		}
	}

	if u, err := user.Current(); err == nil {
		globalActorID = u.Username
		return
	}
	globalActorID = "unknown"
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// repoRefOrDefault returns the explicit repo reference from args, or
// default_repo from the workspace .jai/config.json when it was omitted.
func repoRefOrDefault(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if dir, err := os.Getwd(); err == nil {
		if cfg, err := config.LoadConfig(dir); err == nil && cfg.DefaultRepo != "" {
			return cfg.DefaultRepo, nil
		}
	}

	return "", errors.New("no repo given and no default_repo configured in .jai/config.json")
}
