// Package httpapi exposes the integration layer over HTTP. It is a
// driving adapter: a thin Fiber server that authenticates the caller
// through the platform session verifier, dispatches service actions to
// the core services, and renders the OAuth callback page.
package httpapi
