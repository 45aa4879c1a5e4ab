package driven

import "context"

// SessionVerifier resolves an application session bearer token to the
// calling user's identity. The hosting platform owns session issuance;
// this core only consumes it.
type SessionVerifier interface {
	// Verify returns the user id for a bearer token, or an error when
	// the token is missing, malformed, or expired.
	Verify(ctx context.Context, bearer string) (userID string, err error)
}
