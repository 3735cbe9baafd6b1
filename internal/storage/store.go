// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/kotan/tally/internal/models"
)

// ErrInvalidAmount is returned by Append when the amount is not a
// strictly positive integer.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the bot layer.
type Store interface {
	// Append records a new expense entry and returns it with the
	// store-assigned ID. Fails with ErrInvalidAmount if amount <= 0.
	Append(ctx context.Context, groupKey, actorID, actorLabel, category string, amount int64) (*models.Entry, error)

	// Delete removes the entry with the given ID. Returns false (and no
	// error) if the row did not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteLast removes the highest-ID entry for the actor in the
	// group. Returns false if the actor has no entries there.
	DeleteLast(ctx context.Context, groupKey, actorID string) (bool, error)

	// Clear removes every entry for the group. Calling it on an empty
	// group is a no-op, not an error.
	Clear(ctx context.Context, groupKey string) error

	// Recent returns up to limit entries for the actor in the group,
	// newest first. Each call re-queries current state.
	Recent(ctx context.Context, groupKey, actorID string, limit int) ([]*models.Entry, error)

	// AggregateByActor sums entry amounts per actor for the group. The
	// label attached to each total is the actor's most recently written
	// one (latest write wins).
	AggregateByActor(ctx context.Context, groupKey string) (map[string]models.ActorTotal, error)

	// Close releases any resources held by the store.
	Close() error
}
