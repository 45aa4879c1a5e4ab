package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// AuditSink is an in-memory implementation of driven.AuditSink.
type AuditSink struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewAuditSink creates a new in-memory audit sink.
func NewAuditSink() *AuditSink {
	return &AuditSink{}
}

// Record appends one audit entry.
func (s *AuditSink) Record(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of all recorded entries in insertion order.
func (s *AuditSink) Entries() []domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// RecentByUser returns a user's most recent entries, newest first.
func (s *AuditSink) RecentByUser(_ context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AuditEntry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].UserID == userID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}
