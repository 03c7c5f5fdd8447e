package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
    goal_id              TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    target_amount        REAL NOT NULL,
    monthly_contribution REAL NOT NULL DEFAULT 0,
    accumulated_amount   REAL NOT NULL DEFAULT 0,
    priority             TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    goal_id              TEXT NOT NULL REFERENCES goals(goal_id) ON DELETE CASCADE,
    amount               REAL NOT NULL,
    made_at              TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contributions_goal ON contributions(goal_id);
`
