// Package session verifies the hosting platform's HS256-signed session
// tokens. Issuance belongs to the platform; this adapter only checks
// the signature, expiry and issuer, and extracts the subject.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// Ensure Verifier implements the port.
var _ driven.SessionVerifier = (*Verifier)(nil)

// Config holds the shared-secret settings for session verification.
type Config struct {
	// Secret is the HMAC signing key shared with the session issuer.
	Secret string
	// Issuer is the expected iss claim. Empty disables the check.
	Issuer string
}

// Verifier validates HS256 session tokens.
type Verifier struct {
	cfg Config
}

// NewVerifier creates a verifier for the given shared secret.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// claims is the session token payload.
type claims struct {
	Subject   string `json:"sub"`
	Issuer    string `json:"iss,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

// Verify returns the user id carried by a bearer token.
func (v *Verifier) Verify(_ context.Context, bearer string) (string, error) {
	if v.cfg.Secret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	parts := strings.Split(bearer, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	signingInput := parts[0] + "." + parts[1]
	expectedSig := signHS256(signingInput, v.cfg.Secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return "", fmt.Errorf("invalid token signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid token encoding")
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", fmt.Errorf("invalid token claims")
	}

	if time.Now().Unix() > c.ExpiresAt {
		return "", fmt.Errorf("token expired")
	}
	if v.cfg.Issuer != "" && c.Issuer != v.cfg.Issuer {
		return "", fmt.Errorf("invalid token issuer")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("token missing subject")
	}

	return c.Subject, nil
}

// Sign creates a signed session token for a user. Used by tests and
// the dev-token command; production tokens come from the platform.
func Sign(cfg Config, userID string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	c := claims{
		Subject:   userID,
		Issuer:    cfg.Issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	claimsJSON, _ := json.Marshal(c)

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	return signingInput + "." + signHS256(signingInput, cfg.Secret), nil
}

func signHS256(input, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
