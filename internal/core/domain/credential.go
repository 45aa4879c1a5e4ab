package domain

import "time"

// TokenPair holds one OAuth access/refresh token pair.
type TokenPair struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	// Empty when the provider withheld one.
	RefreshToken string `json:"refresh_token,omitempty"`
	// Expiry is when the access token expires. Zero means unknown.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the access token has expired.
func (t *TokenPair) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}

// ServiceTokens is the per-service column family of a Credential.
type ServiceTokens struct {
	// AccessToken is the service-specific bearer token.
	AccessToken string `json:"access_token,omitempty"`
	// RefreshToken is the service-specific refresh token.
	RefreshToken string `json:"refresh_token,omitempty"`
	// Enabled marks the service as connected. False after an explicit
	// disconnect; a token may be stored before Enabled flips true.
	Enabled bool `json:"enabled"`
}

// Credential is the single per-user row of OAuth material covering the
// unified pair plus up to four service-specific overrides.
type Credential struct {
	// UserID is the owning principal. Primary key; one row per user.
	UserID string `json:"user_id"`

	// Unified is the shared token pair granted with combined scope.
	// Nil when the user never connected the unified integration.
	Unified *TokenPair `json:"unified,omitempty"`

	// Services holds service-specific overrides keyed by service.
	// A missing key means the service was never connected independently.
	Services map[Service]*ServiceTokens `json:"services,omitempty"`

	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialSource tags which column family an active token came from.
// Refreshed tokens must be written back to the same family.
type CredentialSource string

const (
	// SourceUnified means the token came from the unified pair.
	SourceUnified CredentialSource = "unified"
	// SourceService means the token came from the service-specific columns.
	SourceService CredentialSource = "service"
)

// ActiveCredential is the resolved authoritative token for one
// (user, service) pair, tagged with its origin.
type ActiveCredential struct {
	Source       CredentialSource
	AccessToken  string
	RefreshToken string
}

// SelectActive resolves the authoritative token for a service.
// Resolution order: the unified pair when present, unless the service
// was explicitly disconnected (Enabled=false on a stored entry);
// otherwise the service-specific pair.
func (c *Credential) SelectActive(svc Service) (*ActiveCredential, error) {
	if c != nil && c.Unified != nil && c.Unified.AccessToken != "" && !c.serviceDisabled(svc) {
		return &ActiveCredential{
			Source:       SourceUnified,
			AccessToken:  c.Unified.AccessToken,
			RefreshToken: c.Unified.RefreshToken,
		}, nil
	}
	if c != nil {
		if st, ok := c.Services[svc]; ok && st.AccessToken != "" && st.Enabled {
			return &ActiveCredential{
				Source:       SourceService,
				AccessToken:  st.AccessToken,
				RefreshToken: st.RefreshToken,
			}, nil
		}
	}
	return nil, Faultf(FaultNotConnected, "no credential for service %s", svc)
}

// serviceDisabled reports an explicit disconnect of svc. Only a stored
// entry with Enabled=false counts; an absent entry does not suppress
// the unified pair.
func (c *Credential) serviceDisabled(svc Service) bool {
	st, ok := c.Services[svc]
	return ok && !st.Enabled && st.AccessToken == ""
}

// Connected reports whether any usable token exists for svc.
func (c *Credential) Connected(svc Service) bool {
	_, err := c.SelectActive(svc)
	return err == nil
}
