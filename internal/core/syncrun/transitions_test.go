package syncrun

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusRunning},
		{StatusPending, StatusFailed},
		{StatusRunning, StatusSucceeded},
		{StatusRunning, StatusPartial},
		{StatusRunning, StatusFailed},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusSucceeded},
		{StatusPending, StatusPartial},
		{StatusSucceeded, StatusRunning},
		{StatusPartial, StatusFailed},
		{StatusFailed, StatusPending},
		{StatusRunning, StatusPending},
	}
	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusSucceeded, StatusPartial, StatusFailed} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusRunning} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestResolveOutcome(t *testing.T) {
	if got := ResolveOutcome(0, false); got != StatusSucceeded {
		t.Errorf("clean pass = %s, want succeeded", got)
	}
	if got := ResolveOutcome(2, false); got != StatusPartial {
		t.Errorf("failed files = %s, want partial", got)
	}
	if got := ResolveOutcome(0, true); got != StatusPartial {
		t.Errorf("cancelled = %s, want partial", got)
	}
}

func TestReportSummary(t *testing.T) {
	r := Report{Added: 2, Modified: 1, Removed: 3}
	if got := r.Summary(); got != "sync: added=2 modified=1 removed=3" {
		t.Errorf("Summary() = %q", got)
	}

	r.Failed = 1
	r.Cancelled = true
	if got := r.Summary(); got != "sync: added=2 modified=1 removed=3 failed=1 (cancelled)" {
		t.Errorf("Summary() = %q", got)
	}
}
