package domain

import "time"

// AuthState is a single-use consent-flow correlation record. The opaque
// nonce travels to the provider as the OAuth state parameter; the row
// maps it back to the user and service that initiated the flow, so the
// callback never trusts a raw identity value.
type AuthState struct {
	// Nonce is the opaque state string (UUID).
	Nonce string `json:"nonce"`
	// UserID is the principal that initiated the flow.
	UserID string `json:"user_id"`
	// Service is the integration being connected.
	Service Service `json:"service"`
	// ExpiresAt bounds how long the consent flow may take.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired returns true once the consent window has passed.
func (s *AuthState) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
