// Package store provides a SQLite-backed ledger for savings goals.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// GoalStore persists goals and their contribution history.
type GoalStore struct {
	db *sql.DB
}

var _ goals.Store = (*GoalStore)(nil)

// Open opens or creates the goals database at the given path.
func Open(dbPath string) (*GoalStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening goals db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &GoalStore{db: db}, nil
}

// Close closes the goals database.
func (s *GoalStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a goal.
func (s *GoalStore) Save(g model.SavingsGoal) error {
	_, err := s.db.Exec(`INSERT INTO goals
		(goal_id, name, target_amount, monthly_contribution, accumulated_amount, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(goal_id) DO UPDATE SET
			name = excluded.name,
			target_amount = excluded.target_amount,
			monthly_contribution = excluded.monthly_contribution,
			accumulated_amount = excluded.accumulated_amount,
			priority = excluded.priority`,
		g.ID, g.Name, g.TargetAmount, g.MonthlyContribution, g.AccumulatedAmount,
		string(g.Priority), g.CreatedDate.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving goal: %w", err)
	}
	return nil
}

// Get loads one goal.
func (s *GoalStore) Get(id string) (model.SavingsGoal, error) {
	row := s.db.QueryRow(`SELECT goal_id, name, target_amount, monthly_contribution,
		accumulated_amount, priority, created_at FROM goals WHERE goal_id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, model.ErrNotFound)
	}
	return g, err
}

// List returns every goal ordered by creation time.
func (s *GoalStore) List() ([]model.SavingsGoal, error) {
	rows, err := s.db.Query(`SELECT goal_id, name, target_amount, monthly_contribution,
		accumulated_amount, priority, created_at FROM goals ORDER BY created_at, goal_id`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Delete removes a goal and its contributions.
func (s *GoalStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE goal_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// Contribute adds amount to a goal and records it in one transaction.
func (s *GoalStore) Contribute(id string, amount float64, at time.Time) (model.SavingsGoal, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return model.SavingsGoal{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("UPDATE goals SET accumulated_amount = accumulated_amount + ? WHERE goal_id = ?", amount, id)
	if err != nil {
		return model.SavingsGoal{}, fmt.Errorf("updating goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, model.ErrNotFound)
	}

	_, err = tx.Exec("INSERT INTO contributions (goal_id, amount, made_at) VALUES (?, ?, ?)",
		id, amount, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return model.SavingsGoal{}, fmt.Errorf("recording contribution: %w", err)
	}

	row := tx.QueryRow(`SELECT goal_id, name, target_amount, monthly_contribution,
		accumulated_amount, priority, created_at FROM goals WHERE goal_id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		return model.SavingsGoal{}, err
	}
	return g, tx.Commit()
}

// Contributions returns the recorded contributions for a goal, oldest first.
func (s *GoalStore) Contributions(id string) ([]goals.Contribution, error) {
	rows, err := s.db.Query("SELECT amount, made_at FROM contributions WHERE goal_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []goals.Contribution
	for rows.Next() {
		var c goals.Contribution
		var at string
		if err := rows.Scan(&c.Amount, &at); err != nil {
			return nil, err
		}
		c.At, _ = time.Parse(time.RFC3339Nano, at)
		result = append(result, c)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(r scanner) (model.SavingsGoal, error) {
	var g model.SavingsGoal
	var priority, created string
	if err := r.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.MonthlyContribution,
		&g.AccumulatedAmount, &priority, &created); err != nil {
		return model.SavingsGoal{}, err
	}
	g.Priority = model.Priority(priority)
	g.CreatedDate, _ = time.Parse(time.RFC3339Nano, created)
	return g, nil
}
