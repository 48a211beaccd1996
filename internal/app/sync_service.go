package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/jai/internal/core/syncrun"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

const (
	defaultSyncWorkers = 4
	fileReadAttempts   = 3
)

// SyncServiceImpl implements the SyncService interface: the engine that
// runs one sync pass per repo, diffs the source snapshot against the
// file index, and appends the summarizing sync event.
type SyncServiceImpl struct {
	runs   secondary.SyncRunRepository
	files  secondary.FileIndexRepository
	repos  secondary.RepoRepository
	events secondary.SotEventRepository
	source secondary.FileSource

	// Per-repo mutual exclusion for a single-process deployment. The
	// partial unique index on sync_runs backs this up across processes.
	mu     sync.Mutex
	active map[string]*runState

	workers int
	now     func() time.Time
}

// runState tracks one in-flight run. cancelled is the cooperative
// cancellation flag checked between per-file operations.
type runState struct {
	runID     string
	cancelled atomic.Bool
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(
	runs secondary.SyncRunRepository,
	files secondary.FileIndexRepository,
	repos secondary.RepoRepository,
	events secondary.SotEventRepository,
	source secondary.FileSource,
) *SyncServiceImpl {
	return &SyncServiceImpl{
		runs:    runs,
		files:   files,
		repos:   repos,
		events:  events,
		source:  source,
		active:  make(map[string]*runState),
		workers: defaultSyncWorkers,
		now:     time.Now,
	}
}

// StartRun executes one sync pass against a repo.
func (s *SyncServiceImpl) StartRun(ctx context.Context, req primary.StartRunRequest) (*primary.SyncRun, error) {
	repo, err := s.repos.GetByID(ctx, req.RepoID)
	if err != nil {
		return nil, err
	}
	if repo.LocalPath == "" {
		return nil, fmt.Errorf("%w: repo %s has no local path to sync from", primary.ErrValidation, repo.ID)
	}

	runType := req.Type
	if runType == "" {
		runType = "file-index"
	}

	state, err := s.acquire(repo.ID)
	if err != nil {
		return nil, err
	}
	defer s.release(repo.ID)

	runID, err := s.runs.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}
	state.runID = runID

	startedAt := s.now()
	if err := s.runs.Create(ctx, &secondary.SyncRunRecord{
		ID:             runID,
		RepoID:         repo.ID,
		Type:           runType,
		Trigger:        req.Trigger,
		StartedAt:      startedAt,
		WorkflowRunURL: req.WorkflowRunURL,
	}); err != nil {
		return nil, err
	}

	if err := s.runs.MarkRunning(ctx, runID, s.now()); err != nil {
		// Another process holds the repo: finalize the pending row so it
		// does not linger, then surface the conflict.
		report := syncrun.Report{Error: err.Error()}
		_ = s.runs.Finalize(ctx, runID, string(syncrun.StatusFailed), s.now(), mustMarshal(report))
		return nil, err
	}

	report := s.execute(ctx, state, repo, runID)
	status := syncrun.ResolveOutcome(report.Failed, report.Cancelled)
	if report.Error != "" {
		status = syncrun.StatusFailed
	}

	s.appendSyncEvent(ctx, repo.ID, runID, report)

	if err := s.runs.Finalize(ctx, runID, string(status), s.now(), mustMarshal(report)); err != nil {
		return nil, err
	}

	stored, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	run := recordToRun(stored)

	switch status {
	case syncrun.StatusFailed:
		return run, fmt.Errorf("sync run %s failed: %s", runID, report.Error)
	case syncrun.StatusPartial:
		return run, fmt.Errorf("sync run %s: %w", runID, primary.ErrPartialFailure)
	}
	return run, nil
}

// Cancel requests cooperative cancellation of a running sync.
func (s *SyncServiceImpl) Cancel(ctx context.Context, runID string) error {
	s.mu.Lock()
	for _, state := range s.active {
		if state.runID == runID {
			state.cancelled.Store(true)
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()

	// Not in flight here: resolve against storage for a precise error.
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run %s is %s, not running in this process", primary.ErrValidation, runID, run.Status)
}

// GetRun retrieves a sync run by ID.
func (s *SyncServiceImpl) GetRun(ctx context.Context, runID string) (*primary.SyncRun, error) {
	record, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return recordToRun(record), nil
}

// ListRuns lists sync runs with optional filters.
func (s *SyncServiceImpl) ListRuns(ctx context.Context, filters primary.SyncRunFilters) ([]*primary.SyncRun, error) {
	records, err := s.runs.List(ctx, secondary.SyncRunFilters{
		RepoID: filters.RepoID,
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	runs := make([]*primary.SyncRun, len(records))
	for i, r := range records {
		runs[i] = recordToRun(r)
	}
	return runs, nil
}

// ListFiles lists the current file index for a repo.
func (s *SyncServiceImpl) ListFiles(ctx context.Context, repoID string, includeRemoved bool) ([]*primary.IndexedFile, error) {
	if _, err := s.repos.GetByID(ctx, repoID); err != nil {
		return nil, err
	}

	records, err := s.files.ListByRepo(ctx, repoID, includeRemoved)
	if err != nil {
		return nil, err
	}

	files := make([]*primary.IndexedFile, len(records))
	for i, rec := range records {
		f := &primary.IndexedFile{
			Path:          rec.Path,
			Dir:           rec.Dir,
			Filename:      rec.Filename,
			Extension:     rec.Extension,
			SizeBytes:     rec.SizeBytes,
			SHA256:        rec.SHA256,
			LastCommitSHA: rec.LastCommitSHA,
			IndexedAt:     rec.IndexedAt.Format(time.RFC3339),
			SyncRunID:     rec.SyncRunID,
		}
		if rec.RemovedAt != nil {
			f.RemovedAt = rec.RemovedAt.Format(time.RFC3339)
		}
		files[i] = f
	}
	return files, nil
}

// execute performs the snapshot/hash/diff/upsert pass. Run-level
// failures set report.Error and leave the index untouched; per-file
// failures accumulate without aborting the pass.
func (s *SyncServiceImpl) execute(ctx context.Context, state *runState, repo *secondary.RepoRecord, runID string) syncrun.Report {
	var report syncrun.Report

	stats, err := s.source.Enumerate(ctx, repo.LocalPath)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	prior, err := s.files.ListByRepo(ctx, repo.ID, true)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	priorFiles := make([]syncrun.PriorFile, len(prior))
	for i, p := range prior {
		priorFiles[i] = syncrun.PriorFile{Path: p.Path, SHA256: p.SHA256, Removed: p.RemovedAt != nil}
	}

	snapshot, failures, cancelled := s.hashAll(ctx, state, repo.LocalPath, stats)
	report.Failures = failures
	report.Failed = len(failures)
	report.Cancelled = cancelled

	diff := syncrun.Classify(priorFiles, snapshot)
	report.Unchanged = len(diff.Unchanged)

	indexedAt := s.now()
	for _, f := range append(diff.Added, diff.Modified...) {
		if _, err := s.files.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID:        repo.ID,
			Path:          f.Path,
			SizeBytes:     f.SizeBytes,
			SHA256:        f.SHA256,
			LastCommitSHA: f.LastCommitSHA,
			IndexedAt:     indexedAt,
			SyncRunID:     runID,
		}); err != nil {
			report.Failures = append(report.Failures, syncrun.FileFailure{Path: f.Path, Error: err.Error(), Attempts: 1})
			report.Failed++
			continue
		}
	}
	report.Added = len(diff.Added)
	report.Modified = len(diff.Modified)

	// A truncated pass cannot tell "removed" from "not reached yet", so
	// tombstoning only happens for complete snapshots. Paths that failed
	// to read are unknown, not removed.
	if !cancelled {
		failedPaths := make(map[string]bool, len(failures))
		for _, f := range failures {
			failedPaths[f.Path] = true
		}
		removedAt := s.now()
		for _, p := range diff.Removed {
			if failedPaths[p] {
				continue
			}
			if err := s.files.MarkRemoved(ctx, repo.ID, p, runID, removedAt); err != nil {
				report.Failures = append(report.Failures, syncrun.FileFailure{Path: p, Error: err.Error(), Attempts: 1})
				report.Failed++
				continue
			}
			report.Removed++
		}
	}

	return report
}

// hashAll reads and fingerprints the snapshot with a bounded worker
// pool. Hashing is the I/O-bound part of a pass, so it parallelizes;
// index writes stay on the caller's goroutine.
func (s *SyncServiceImpl) hashAll(ctx context.Context, state *runState, root string, stats []secondary.FileStat) ([]syncrun.SnapshotFile, []syncrun.FileFailure, bool) {
	type hashResult struct {
		file    syncrun.SnapshotFile
		failure *syncrun.FileFailure
	}

	jobs := make(chan secondary.FileStat)
	results := make(chan hashResult)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				content, attempts, err := s.readWithRetry(ctx, root, st.Path)
				if err != nil {
					results <- hashResult{failure: &syncrun.FileFailure{Path: st.Path, Error: err.Error(), Attempts: attempts}}
					continue
				}
				results <- hashResult{file: syncrun.SnapshotFile{
					Path:      st.Path,
					SizeBytes: int64(len(content)),
					SHA256:    syncrun.Fingerprint(content),
				}}
			}
		}()
	}

	cancelled := false
	go func() {
		defer close(jobs)
		for _, st := range stats {
			if state.cancelled.Load() || ctx.Err() != nil {
				cancelled = true
				return
			}
			select {
			case jobs <- st:
			case <-ctx.Done():
				cancelled = true
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var snapshot []syncrun.SnapshotFile
	var failures []syncrun.FileFailure
	for res := range results {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		snapshot = append(snapshot, res.file)
	}

	return snapshot, failures, cancelled || state.cancelled.Load()
}

// readWithRetry reads one file, retrying transient errors up to the
// fixed bound before reporting a per-file failure.
func (s *SyncServiceImpl) readWithRetry(ctx context.Context, root, path string) ([]byte, int, error) {
	var lastErr error
	for attempt := 1; attempt <= fileReadAttempts; attempt++ {
		content, err := s.source.Read(ctx, root, path)
		if err == nil {
			return content, attempt, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, attempt, lastErr
		}
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	return nil, fileReadAttempts, lastErr
}

// appendSyncEvent records the sync-kind event summarizing the pass.
// The run outcome stands even if the event write fails.
func (s *SyncServiceImpl) appendSyncEvent(ctx context.Context, repoID, runID string, report syncrun.Report) {
	payload := struct {
		RunID string `json:"runId"`
		syncrun.Report
	}{RunID: runID, Report: report}

	_, _ = s.events.Append(ctx, &secondary.SotEventRecord{
		TS:      s.now(),
		Source:  "jai-sync",
		Kind:    "sync",
		Summary: report.Summary(),
		Payload: mustMarshal(payload),
		RepoID:  repoID,
	})
}

// acquire takes the per-repo lock, failing fast when a run is active.
func (s *SyncServiceImpl) acquire(repoID string) (*runState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.active[repoID]; busy {
		return nil, fmt.Errorf("repo %s: %w", repoID, primary.ErrSyncInProgress)
	}

	state := &runState{}
	s.active[repoID] = state
	return state, nil
}

func (s *SyncServiceImpl) release(repoID string) {
	s.mu.Lock()
	delete(s.active, repoID)
	s.mu.Unlock()
}

func recordToRun(r *secondary.SyncRunRecord) *primary.SyncRun {
	run := &primary.SyncRun{
		ID:             r.ID,
		RepoID:         r.RepoID,
		Type:           r.Type,
		Status:         r.Status,
		Trigger:        r.Trigger,
		StartedAt:      r.StartedAt.Format(time.RFC3339),
		WorkflowRunURL: r.WorkflowRunURL,
		Payload:        r.Payload,
	}
	if r.FinishedAt != nil {
		run.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return run
}

func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}

// Ensure SyncServiceImpl implements the interface
var _ primary.SyncService = (*SyncServiceImpl)(nil)
