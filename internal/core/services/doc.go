// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The token lifecycle (resolve, probe, refresh-once, retry-once) lives
// in TokenService; the four proxy services wrap their provider calls in
// TokenService.WithRefresh so the control flow exists in one place.
package services
