package syncrun

import "fmt"

// FileFailure records one file that could not be indexed after retries.
type FileFailure struct {
	Path     string `json:"path"`
	Error    string `json:"error"`
	Attempts int    `json:"attempts"`
}

// Report is the outcome summary carried in the run payload and in the
// sync event payload. Failure detail is kept per-path so a caller can
// re-sync the failed files instead of the whole repo.
type Report struct {
	Added     int           `json:"added"`
	Modified  int           `json:"modified"`
	Unchanged int           `json:"unchanged"`
	Removed   int           `json:"removed"`
	Failed    int           `json:"failed"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Failures  []FileFailure `json:"failures,omitempty"`
	Error     string        `json:"error,omitempty"` // run-level fatal error
}

// Summary renders the one-line event summary for a finished pass.
func (r Report) Summary() string {
	s := fmt.Sprintf("sync: added=%d modified=%d removed=%d", r.Added, r.Modified, r.Removed)
	if r.Failed > 0 {
		s += fmt.Sprintf(" failed=%d", r.Failed)
	}
	if r.Cancelled {
		s += " (cancelled)"
	}
	return s
}
