// Package pilot contains the pure business logic for the pilot session
// state machine and action audit rules.
package pilot

import (
	"fmt"
	"strings"
	"time"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// StartSessionContext provides context for session creation guards.
type StartSessionContext struct {
	Mode      string
	Surface   string
	CreatedBy string
}

// RecordActionContext provides context for action recording guards.
type RecordActionContext struct {
	SessionClosed bool
	Mode          string
	ActionType    string
	Reason        string
}

// CanStartSession evaluates whether a session can be opened.
// Rules:
// - mode, surface, and createdBy are all required
func CanStartSession(ctx StartSessionContext) GuardResult {
	for _, f := range []struct{ name, value string }{
		{"mode", ctx.Mode},
		{"surface", ctx.Surface},
		{"createdBy", ctx.CreatedBy},
	} {
		if strings.TrimSpace(f.value) == "" {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("%s cannot be empty", f.name),
			}
		}
	}

	return GuardResult{Allowed: true}
}

// CanRecordAction evaluates whether an action can be appended.
// Rules:
// - the session must still be open
// - mode and actionType are required
// - reason must be non-empty: every action carries a justification.
//   This is an audit compliance requirement, so a missing reason is
//   rejected, never silently defaulted.
func CanRecordAction(ctx RecordActionContext) GuardResult {
	if ctx.SessionClosed {
		return GuardResult{
			Allowed: false,
			Reason:  "session is already closed",
		}
	}

	if strings.TrimSpace(ctx.Mode) == "" {
		return GuardResult{Allowed: false, Reason: "mode cannot be empty"}
	}

	if strings.TrimSpace(ctx.ActionType) == "" {
		return GuardResult{Allowed: false, Reason: "actionType cannot be empty"}
	}

	if strings.TrimSpace(ctx.Reason) == "" {
		return GuardResult{Allowed: false, Reason: "reason cannot be empty"}
	}

	return GuardResult{Allowed: true}
}

// NextActionTS returns the timestamp to store for a new action so that
// ts stays strictly monotonic within a session even when the wall clock
// does not advance between two actions.
func NextActionTS(lastTS, now time.Time) time.Time {
	if now.After(lastTS) {
		return now
	}
	return lastTS.Add(time.Microsecond)
}

// GenerateSessionID generates a session ID from the current max number.
func GenerateSessionID(currentMax int) string {
	return fmt.Sprintf("PSES-%03d", currentMax+1)
}
