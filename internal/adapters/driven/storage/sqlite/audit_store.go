package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// auditStore implements driven.AuditSink.
type auditStore struct {
	store *Store
}

var _ driven.AuditSink = (*auditStore)(nil)

// Record appends one audit entry.
func (s *auditStore) Record(ctx context.Context, entry domain.AuditEntry) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, user_id, service, action, correlation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, string(entry.Service), entry.Action, entry.CorrelationID, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// RecentByUser returns a user's most recent audit entries, newest first.
func (s *auditStore) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, service, action, correlation_id, created_at
		FROM audit_log WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var service string
		if err := rows.Scan(&entry.ID, &entry.UserID, &service, &entry.Action, &entry.CorrelationID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.Service = domain.Service(service)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
