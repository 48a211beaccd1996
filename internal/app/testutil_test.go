package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/jai/internal/adapters/sqlite"
	"github.com/example/jai/internal/db"
	"github.com/example/jai/internal/ports/secondary"
)

// testDeps bundles real SQLite adapters over an in-memory database.
// Service tests run against the same persistence code as production;
// only the file source is faked.
type testDeps struct {
	db      *sql.DB
	repos   *sqlite.RepoRepository
	domains *sqlite.DomainRepository
	runs    *sqlite.SyncRunRepository
	files   *sqlite.FileIndexRepository
	events  *sqlite.SotEventRepository
	pilots  *sqlite.PilotRepository
	tools   *sqlite.ToolRepository
}

func setupDeps(t *testing.T) *testDeps {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	return &testDeps{
		db:      testDB,
		repos:   sqlite.NewRepoRepository(testDB),
		domains: sqlite.NewDomainRepository(testDB),
		runs:    sqlite.NewSyncRunRepository(testDB),
		files:   sqlite.NewFileIndexRepository(testDB),
		events:  sqlite.NewSotEventRepository(testDB),
		pilots:  sqlite.NewPilotRepository(testDB),
		tools:   sqlite.NewToolRepository(testDB),
	}
}

func seedTestRepo(t *testing.T, deps *testDeps, name, localPath string) string {
	t.Helper()
	if name == "" {
		name = "test-repo"
	}
	if localPath == "" {
		localPath = "/src/" + name
	}
	_, err := deps.db.Exec(
		"INSERT INTO repos (id, name, local_path, default_branch, status) VALUES (?, ?, ?, 'main', 'active')",
		"REPO-001", name, localPath,
	)
	if err != nil {
		t.Fatalf("failed to seed repo: %v", err)
	}
	return "REPO-001"
}

// fakeSource is an in-memory secondary.FileSource. Reads for paths in
// failPaths always error; enumerateGate, when set, blocks Enumerate
// until the channel closes so tests can hold a run mid-flight.
type fakeSource struct {
	mu            sync.Mutex
	contents      map[string][]byte
	failPaths     map[string]bool
	enumerateErr  error
	enumerateGate chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		contents:  make(map[string][]byte),
		failPaths: make(map[string]bool),
	}
}

func (f *fakeSource) put(path, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents[path] = []byte(content)
}

func (f *fakeSource) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.contents, path)
}

func (f *fakeSource) Enumerate(ctx context.Context, root string) ([]secondary.FileStat, error) {
	if f.enumerateGate != nil {
		select {
		case <-f.enumerateGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}

	var stats []secondary.FileStat
	for path, content := range f.contents {
		stats = append(stats, secondary.FileStat{Path: path, SizeBytes: int64(len(content))})
	}
	return stats, nil
}

func (f *fakeSource) Read(ctx context.Context, root, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failPaths[path] {
		return nil, fmt.Errorf("read %s: simulated I/O error", path)
	}
	content, ok := f.contents[path]
	if !ok {
		return nil, fmt.Errorf("read %s: no such file", path)
	}
	return content, nil
}

var _ secondary.FileSource = (*fakeSource)(nil)
