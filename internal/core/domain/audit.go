package domain

import "time"

// Audit actions recorded by the integration layer. Entries carry opaque
// correlation identifiers only, never message bodies or token material.
const (
	AuditActionMessageSent  = "message_sent"
	AuditActionDraftSaved   = "draft_saved"
	AuditActionEventCreated = "event_created"
	AuditActionConnected    = "connected"
	AuditActionDisconnected = "disconnected"
)

// AuditEntry is one append-only record of an integration action.
type AuditEntry struct {
	// ID is the entry identifier (UUID).
	ID string `json:"id"`
	// UserID is the acting principal.
	UserID string `json:"user_id"`
	// Service is the integration the action ran against.
	Service Service `json:"service"`
	// Action is one of the AuditAction constants.
	Action string `json:"action"`
	// CorrelationID is an opaque provider-side identifier
	// (message id, event id) tying the entry to the provider record.
	CorrelationID string `json:"correlation_id,omitempty"`
	// CreatedAt is when the action completed.
	CreatedAt time.Time `json:"created_at"`
}
