package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage provides SQLite database access for transactions and feature runs.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the SQLite database at dbPath and applies
// pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	// Foreign keys are per connection in SQLite, so enable them in the DSN
	// rather than with a one-off PRAGMA.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) migrate(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveTransactions inserts txs in one database transaction.
func (s *Storage) SaveTransactions(ctx context.Context, txs []transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (id, user_id, name, amount, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) WHERE id <> ''
		DO UPDATE SET name = excluded.name, amount = excluded.amount, date = excluded.date
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx, tx.ID, tx.UserID, tx.Name, tx.Amount, tx.Date); err != nil {
			return fmt.Errorf("failed to save transaction %q: %w", tx.ID, err)
		}
	}

	return dbTx.Commit()
}

// ListTransactions returns stored transactions in insertion order.
func (s *Storage) ListTransactions(ctx context.Context, userID string) ([]transaction.Transaction, error) {
	query := `SELECT id, user_id, name, amount, date FROM transactions`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY row_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Name, &tx.Amount, &tx.Date); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// StartRun records the start of a feature run
func (s *Storage) StartRun(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feature_runs (id, source, started_at, status) VALUES (?, ?, ?, ?)`,
		id, source, time.Now().UTC(), RunStatusRunning,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// CompleteRun records the completion of a feature run
func (s *Storage) CompleteRun(ctx context.Context, runID string, count int) error {
	return s.finishRun(ctx, runID, RunStatusCompleted, count, "")
}

// FailRun records a failed feature run
func (s *Storage) FailRun(ctx context.Context, runID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.finishRun(ctx, runID, RunStatusFailed, 0, msg)
}

func (s *Storage) finishRun(ctx context.Context, runID, status string, count int, msg string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE feature_runs
		SET completed_at = ?, transaction_count = ?, status = ?, error_message = ?
		WHERE id = ?
	`, time.Now().UTC(), count, status, msg, runID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

const runColumns = `id, source, started_at, completed_at, transaction_count, status, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*FeatureRun, error) {
	var run FeatureRun
	var completed sql.NullTime
	if err := row.Scan(
		&run.ID,
		&run.Source,
		&run.StartedAt,
		&completed,
		&run.TransactionCount,
		&run.Status,
		&run.ErrorMessage,
	); err != nil {
		return nil, err
	}
	if completed.Valid {
		run.CompletedAt = &completed.Time
	}
	return &run, nil
}

// GetRun retrieves a feature run by ID
func (s *Storage) GetRun(ctx context.Context, runID string) (*FeatureRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM feature_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return run, err
}

// ListRuns returns recent feature runs, newest first
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]FeatureRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM feature_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []FeatureRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// SaveFeatureRows appends rows to a run, after any rows already stored.
func (s *Storage) SaveFeatureRows(ctx context.Context, runID string, rows []FeatureRow) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	var next int
	if err := dbTx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM feature_rows WHERE run_id = ?`, runID,
	).Scan(&next); err != nil {
		return err
	}

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO feature_rows (run_id, position, transaction_id, user_id, name, features_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		featuresJSON, err := json.Marshal(row.Features)
		if err != nil {
			return fmt.Errorf("failed to encode features for row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, next+i, row.TransactionID, row.UserID, row.Name, string(featuresJSON),
		); err != nil {
			return fmt.Errorf("failed to save feature row %d: %w", i, err)
		}
	}

	return dbTx.Commit()
}

// ListFeatureRows returns the rows of a run in input order. Numeric
// features come back as float64.
func (s *Storage) ListFeatureRows(ctx context.Context, runID string) ([]FeatureRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, name, features_json
		FROM feature_rows
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []FeatureRow
	for rows.Next() {
		var row FeatureRow
		var featuresJSON string
		if err := rows.Scan(&row.TransactionID, &row.UserID, &row.Name, &featuresJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(featuresJSON), &row.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features for %s/%s: %w", row.UserID, row.Name, err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
