package repository

// Schema creates the tables and secondary indexes used by the stores. Applied
// by cmd/seed and by the integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	email_id    TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	agent_id    TEXT,
	client_name TEXT,
	proposal_id TEXT,
	status      TEXT NOT NULL,
	parsed_data JSONB,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submission_user_id ON submissions (user_id);
CREATE INDEX IF NOT EXISTS idx_submission_agent_id ON submissions (agent_id);
CREATE INDEX IF NOT EXISTS idx_submission_status ON submissions (status);

CREATE TABLE IF NOT EXISTS notifications (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	submission_id TEXT,
	status        TEXT,
	message       TEXT,
	"timestamp"   TIMESTAMPTZ NOT NULL,
	read          BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_notification_user_id ON notifications (user_id);
CREATE INDEX IF NOT EXISTS idx_notification_submission_id ON notifications (submission_id);
CREATE INDEX IF NOT EXISTS idx_notification_read ON notifications (read);
`
