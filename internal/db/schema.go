package db

// SchemaSQL is the complete schema for fresh JAI installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// build their in-memory databases from GetSchemaSQL(), so repository code
// referencing a column that does not exist here fails immediately with
// "no such column" at development time, not in production.
//
// Do not hardcode CREATE TABLE statements in test files; use
// setupTestDB() and the seed* helpers instead.
const SchemaSQL = `
-- Repos (tracked source repositories; registry is append-mostly)
CREATE TABLE IF NOT EXISTS repos (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	github_url TEXT,
	local_path TEXT,
	default_branch TEXT DEFAULT 'main',
	nh_id TEXT,
	notes TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Domains (deployed environments, optionally bound to one repo)
CREATE TABLE IF NOT EXISTS domains (
	id TEXT PRIMARY KEY,
	domain TEXT NOT NULL UNIQUE,
	repo_id TEXT,
	domain_key TEXT,
	engine_type TEXT,
	env TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	expires_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (repo_id) REFERENCES repos(id)
);

-- Sync runs (one execution of the sync engine against a repo)
CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	repo_id TEXT,
	type TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'succeeded', 'partial', 'failed')) DEFAULT 'pending',
	"trigger" TEXT,
	started_at DATETIME NOT NULL,
	finished_at DATETIME,
	workflow_run_url TEXT,
	payload TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (repo_id) REFERENCES repos(id)
);

-- At most one running sync per repo at any time
CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_runs_one_running
	ON sync_runs(repo_id) WHERE status = 'running';

-- File index (current-state view; one row per known file per repo)
CREATE TABLE IF NOT EXISTS file_index (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repo_id TEXT NOT NULL,
	path TEXT NOT NULL,
	dir TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL,
	extension TEXT NOT NULL DEFAULT '',
	size_bytes INTEGER NOT NULL DEFAULT 0,
	sha256 TEXT NOT NULL,
	last_commit_sha TEXT,
	indexed_at DATETIME NOT NULL,
	removed_at DATETIME,
	sync_run_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (repo_id) REFERENCES repos(id),
	FOREIGN KEY (sync_run_id) REFERENCES sync_runs(id),
	UNIQUE(repo_id, path)
);

-- SoT events (append-only, ordered by ts not id)
CREATE TABLE IF NOT EXISTS sot_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts DATETIME NOT NULL,
	source TEXT NOT NULL,
	kind TEXT NOT NULL,
	nh_id TEXT NOT NULL DEFAULT '',
	event_id TEXT,
	summary TEXT NOT NULL DEFAULT '',
	payload TEXT,
	repo_id TEXT,
	domain_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (repo_id) REFERENCES repos(id),
	FOREIGN KEY (domain_id) REFERENCES domains(id)
);

-- Ingest dedupe: external event IDs are unique when supplied
CREATE UNIQUE INDEX IF NOT EXISTS idx_sot_events_event_id
	ON sot_events(event_id) WHERE event_id IS NOT NULL AND event_id != '';

CREATE INDEX IF NOT EXISTS idx_sot_events_ts ON sot_events(ts);

-- Pilot sessions (bounded windows of agent activity)
CREATE TABLE IF NOT EXISTS pilot_sessions (
	id TEXT PRIMARY KEY,
	project_key TEXT,
	wave_label TEXT,
	mode TEXT NOT NULL,
	surface TEXT NOT NULL,
	created_by TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	ended_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Pilot actions (immutable audit trail; reason is mandatory)
CREATE TABLE IF NOT EXISTS pilot_actions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	ts DATETIME NOT NULL,
	mode TEXT NOT NULL,
	target_node_id TEXT,
	action_type TEXT NOT NULL,
	payload TEXT,
	reason TEXT NOT NULL CHECK(reason != ''),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (session_id) REFERENCES pilot_sessions(id)
);

CREATE INDEX IF NOT EXISTS idx_pilot_actions_session ON pilot_actions(session_id, ts);

-- JAI tools (static capability registry; schemas are JSON Schema docs)
CREATE TABLE IF NOT EXISTS jai_tools (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	title TEXT,
	input_schema TEXT,
	output_schema TEXT,
	tags TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema SQL.
// Tests use this to build in-memory databases that match production.
func GetSchemaSQL() string {
	return SchemaSQL
}
