package google

import "golang.org/x/oauth2"

// tokenSource adapts a resolved access token to oauth2.TokenSource so
// Google API clients can be built with option.WithTokenSource. The
// token is fixed for the lifetime of one gateway call; refresh happens
// in the core, never inside the API client.
func tokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}
