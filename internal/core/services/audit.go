package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// recordAudit appends an audit entry, best-effort. A failed write is
// logged and never fails the calling operation. The correlation id is
// an opaque provider identifier; bodies and token material never reach
// the sink.
func recordAudit(ctx context.Context, sink driven.AuditSink, log *zap.Logger, userID string, svc domain.Service, action, correlationID string) {
	if sink == nil {
		return
	}
	entry := domain.AuditEntry{
		ID:            uuid.NewString(),
		UserID:        userID,
		Service:       svc,
		Action:        action,
		CorrelationID: correlationID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := sink.Record(ctx, entry); err != nil {
		log.Warn("audit write failed",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}
