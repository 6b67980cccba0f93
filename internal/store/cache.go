// Package store provides the SQLite-backed local cache: the last fetched
// snapshot of incomes, expenses, and the budget ratio, plus the opaque
// session token. The cache makes the dashboard render offline and start
// instantly while a background refresh runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"cadence/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache is the SQLite-backed local store.
type Cache struct {
	db *sql.DB
}

// Snapshot is one consistent fetch of the user's budgeting data.
type Snapshot struct {
	Incomes   []model.Income
	Expenses  []model.Expense
	Ratio     model.Ratio
	FetchedAt time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSnapshot replaces the cached snapshot wholesale. Incomes and expenses
// are a server-owned set, so stale local rows are dropped rather than merged.
func (c *Cache) SaveSnapshot(snap Snapshot) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM incomes"); err != nil {
		return err
	}
	for _, inc := range snap.Incomes {
		isMain := 0
		if inc.IsMain {
			isMain = 1
		}
		_, err = tx.Exec(`INSERT INTO incomes (id, name, amount, pay_cycle, next_pay_date, is_main)
			VALUES (?, ?, ?, ?, ?, ?)`,
			inc.ID, inc.Name, inc.Amount.String(), string(inc.PayCycle),
			formatTime(inc.NextPayDate), isMain,
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec("DELETE FROM expenses"); err != nil {
		return err
	}
	for _, e := range snap.Expenses {
		_, err = tx.Exec(`INSERT INTO expenses
			(id, name, amount, category, spend_from, expense_type, note, created_at, pay_cycle, next_payment_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.Amount.String(), string(e.Category), string(e.SpendFrom),
			string(e.Type), e.Note, formatTime(e.CreatedAt), string(e.PayCycle),
			formatTime(e.NextPaymentDate),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO budget_ratio (id, needs, wants, savings)
		VALUES (1, ?, ?, ?)`, snap.Ratio.Needs, snap.Ratio.Wants, snap.Ratio.Savings)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('fetched_at', ?)`,
		snap.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadSnapshot reads the cached snapshot. Returns nil when nothing has been
// cached yet.
func (c *Cache) LoadSnapshot() (*Snapshot, error) {
	var fetchedAt string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'fetched_at'").Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	snap.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)

	rows, err := c.db.Query("SELECT id, name, amount, pay_cycle, next_pay_date, is_main FROM incomes")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var inc model.Income
		var name sql.NullString
		var amount, payCycle string
		var nextPay sql.NullString
		var isMain int
		if err := rows.Scan(&inc.ID, &name, &amount, &payCycle, &nextPay, &isMain); err != nil {
			return nil, err
		}
		inc.Name = name.String
		inc.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("cached income %s: %w", inc.ID, err)
		}
		inc.PayCycle = model.PayCycle(payCycle)
		inc.NextPayDate = parseTime(nextPay)
		inc.IsMain = isMain != 0
		snap.Incomes = append(snap.Incomes, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	expRows, err := c.db.Query(`SELECT id, name, amount, category, spend_from, expense_type,
		note, created_at, pay_cycle, next_payment_date FROM expenses`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = expRows.Close() }()

	for expRows.Next() {
		var e model.Expense
		var amount, spendFrom, expenseType string
		var category, note, createdAt, payCycle, nextPayment sql.NullString
		err := expRows.Scan(&e.ID, &e.Name, &amount, &category, &spendFrom, &expenseType,
			&note, &createdAt, &payCycle, &nextPayment)
		if err != nil {
			return nil, err
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("cached expense %s: %w", e.ID, err)
		}
		e.Category = model.ExpenseCategory(category.String)
		e.SpendFrom = model.Category(spendFrom)
		e.Type = model.ExpenseType(expenseType)
		e.Note = note.String
		e.CreatedAt = parseTime(createdAt)
		e.PayCycle = model.PayCycle(payCycle.String)
		e.NextPaymentDate = parseTime(nextPayment)
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := expRows.Err(); err != nil {
		return nil, err
	}

	err = c.db.QueryRow("SELECT needs, wants, savings FROM budget_ratio WHERE id = 1").
		Scan(&snap.Ratio.Needs, &snap.Ratio.Wants, &snap.Ratio.Savings)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return snap, nil
}

// Token returns the stored session token, or "" when logged out.
func (c *Cache) Token() (string, error) {
	var token string
	err := c.db.QueryRow("SELECT token FROM session WHERE id = 1").Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// SaveToken stores the session token, replacing any previous one.
func (c *Cache) SaveToken(token string) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO session (id, token, saved_at) VALUES (1, ?, ?)`,
		token, time.Now().UTC().Format(time.RFC3339))
	return err
}

// ClearToken logs the session out locally.
func (c *Cache) ClearToken() error {
	_, err := c.db.Exec("DELETE FROM session WHERE id = 1")
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s.String)
	return t
}
