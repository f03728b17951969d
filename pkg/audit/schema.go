package audit

// schemaVersion is the current archive schema version, stamped into the
// database as PRAGMA user_version on open.
const schemaVersion = 1

// schema creates the trace archive tables.
const schema = `
CREATE TABLE IF NOT EXISTS traces (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL,

    -- Original inputs
    input_prompt TEXT NOT NULL,
    input_draft TEXT,

    -- Outcome
    final_output TEXT,
    rounds_used INTEGER NOT NULL,
    blocked_by TEXT,
    best_effort BOOLEAN NOT NULL DEFAULT 0,
    law_version TEXT,

    -- Audit detail
    critiques_json TEXT,
    delta TEXT,

    -- Timestamps
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_traces_status ON traces(status);
CREATE INDEX IF NOT EXISTS idx_traces_completed_at ON traces(completed_at);
`
