// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/kotan/tally/internal/models"
	"github.com/kotan/tally/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets concurrent group handlers read while one writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts a new expense entry and returns it with the assigned ID.
func (s *SQLiteStore) Append(ctx context.Context, groupKey, actorID, actorLabel, category string, amount int64) (*models.Entry, error) {
	if amount <= 0 {
		return nil, storage.ErrInvalidAmount
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO records (group_key, actor_id, actor_label, category, amount) VALUES (?, ?, ?, ?, ?)",
		groupKey, actorID, actorLabel, category, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &models.Entry{
		ID:         id,
		GroupKey:   groupKey,
		ActorID:    actorID,
		ActorLabel: actorLabel,
		Category:   category,
		Amount:     amount,
	}, nil
}

// Delete removes the entry with the given ID. Missing rows are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n > 0, nil
}

// DeleteLast removes the highest-ID entry for the actor in the group.
// The subquery and delete run as one statement, so the "find newest, then
// delete it" pair cannot race with a concurrent append or delete.
func (s *SQLiteStore) DeleteLast(ctx context.Context, groupKey, actorID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE id = (
			SELECT MAX(id) FROM records WHERE group_key = ? AND actor_id = ?
		)`,
		groupKey, actorID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete last record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n > 0, nil
}

// Clear removes all entries for the group.
func (s *SQLiteStore) Clear(ctx context.Context, groupKey string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE group_key = ?", groupKey); err != nil {
		return fmt.Errorf("failed to clear group records: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for the actor, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, groupKey, actorID string, limit int) ([]*models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_key, actor_id, actor_label, category, amount
		 FROM records WHERE group_key = ? AND actor_id = ?
		 ORDER BY id DESC LIMIT ?`,
		groupKey, actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		entry := &models.Entry{}
		if err := rows.Scan(&entry.ID, &entry.GroupKey, &entry.ActorID, &entry.ActorLabel, &entry.Category, &entry.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return entries, nil
}

// AggregateByActor sums amounts per actor for the group. The label for
// each actor comes from that actor's highest-ID row, so a renamed
// participant shows up under the newest label.
func (s *SQLiteStore) AggregateByActor(ctx context.Context, groupKey string) (map[string]models.ActorTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.actor_id,
		        (SELECT r2.actor_label FROM records r2
		         WHERE r2.group_key = r.group_key AND r2.actor_id = r.actor_id
		         ORDER BY r2.id DESC LIMIT 1),
		        SUM(r.amount)
		 FROM records r
		 WHERE r.group_key = ?
		 GROUP BY r.actor_id
		 ORDER BY r.actor_id`,
		groupKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]models.ActorTotal)
	for rows.Next() {
		var actorID, actorLabel string
		var total int64
		if err := rows.Scan(&actorID, &actorLabel, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		totals[actorID] = models.ActorTotal{ActorLabel: actorLabel, Total: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate rows: %w", err)
	}

	return totals, nil
}
