// Package domain defines the core business entities for Officelink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: Per-user OAuth material for the integrated services
//   - ActiveCredential: The resolved token for one (user, service) pair
//   - OutboundEmail: A logical email before transport encoding
//   - AuditEntry: An append-only record of an integration action
//   - Fault: A structured, kind-tagged failure
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
