package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// stateStore implements driven.StateStore.
type stateStore struct {
	store *Store
}

var _ driven.StateStore = (*stateStore)(nil)

// Put stores a new consent-flow state record.
func (s *stateStore) Put(ctx context.Context, state domain.AuthState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO auth_states (nonce, user_id, service, expires_at)
		VALUES (?, ?, ?, ?)
	`, state.Nonce, state.UserID, string(state.Service), state.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("saving auth state: %w", err)
	}
	return nil
}

// Consume retrieves and deletes the record for a nonce. Unknown,
// replayed and expired nonces all return (nil, nil).
func (s *stateStore) Consume(ctx context.Context, nonce string) (*domain.AuthState, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning consume: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT nonce, user_id, service, expires_at
		FROM auth_states WHERE nonce = ?
	`, nonce)

	var state domain.AuthState
	var service string
	if err := row.Scan(&state.Nonce, &state.UserID, &service, &state.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning auth state: %w", err)
	}
	state.Service = domain.Service(service)

	// Delete unconditionally; an expired record is spent either way.
	if _, err := tx.ExecContext(ctx, "DELETE FROM auth_states WHERE nonce = ?", nonce); err != nil {
		return nil, fmt.Errorf("deleting auth state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing consume: %w", err)
	}

	if state.Expired(time.Now()) {
		return nil, nil
	}
	return &state, nil
}

// SweepExpired removes expired state rows left behind by abandoned
// consent flows. Returns the number of rows deleted.
func (s *stateStore) SweepExpired(ctx context.Context) (int64, error) {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM auth_states WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweeping auth states: %w", err)
	}
	return result.RowsAffected()
}
