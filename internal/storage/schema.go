package storage

// schema is shared by both backends.
const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		rev_range TEXT,
		from_rev TEXT,
		to_rev TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		attempted INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		max_risk TEXT NOT NULL DEFAULT 'Low',
		commit_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS commits (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		hash TEXT NOT NULL,
		author TEXT,
		author_email TEXT,
		subject TEXT,
		change_id TEXT,
		committed_at TIMESTAMP,
		feature TEXT,
		upstream_status TEXT,
		risk TEXT,
		functions INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, hash)
	);

	CREATE TABLE IF NOT EXISTS function_reports (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		commit_hash TEXT NOT NULL,
		path TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		risk TEXT,
		classification TEXT,
		old_size INTEGER NOT NULL DEFAULT 0,
		new_size INTEGER NOT NULL DEFAULT 0,
		lines_unchanged INTEGER NOT NULL DEFAULT 0,
		signature_diff TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_commits_run ON commits(run_id);
	CREATE INDEX IF NOT EXISTS idx_function_reports_run ON function_reports(run_id);
`

const (
	selectRuns = `SELECT id, repository, rev_range, from_rev, to_rev, started_at, finished_at,
		attempted, succeeded, max_risk, commit_count FROM runs`
	selectCommits = `SELECT run_id, hash, author, author_email, subject, change_id,
		committed_at, feature, upstream_status, risk, functions FROM commits`
	selectFunctionReports = `SELECT id, run_id, commit_hash, path, name, status, reason,
		risk, classification, old_size, new_size, lines_unchanged, signature_diff
		FROM function_reports`
)
