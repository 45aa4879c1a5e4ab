package driven

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// AuditSink records integration actions. Writes are best-effort: callers
// log a failed Record and carry on, they never fail the operation.
type AuditSink interface {
	// Record appends one audit entry.
	Record(ctx context.Context, entry domain.AuditEntry) error
}
