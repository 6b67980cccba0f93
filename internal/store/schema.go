package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS incomes (
    id                   TEXT PRIMARY KEY,
    name                 TEXT,
    amount               TEXT NOT NULL,
    pay_cycle            TEXT NOT NULL,
    next_pay_date        TEXT,
    is_main              INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT,
    spend_from           TEXT NOT NULL,
    expense_type         TEXT NOT NULL,
    note                 TEXT,
    created_at           TEXT,
    pay_cycle            TEXT,
    next_payment_date    TEXT
);

CREATE TABLE IF NOT EXISTS budget_ratio (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    needs                INTEGER NOT NULL,
    wants                INTEGER NOT NULL,
    savings              INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    token                TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_spend_from ON expenses(spend_from);
CREATE INDEX IF NOT EXISTS idx_expenses_created ON expenses(created_at);
`
