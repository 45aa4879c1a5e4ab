// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - CredentialStore: per-user OAuth material persistence
//   - StateStore: single-use consent-flow state records
//   - AuditSink: append-only integration action log
//   - OAuthGateway: consent URL, code exchange, refresh, token probe
//   - MailGateway, CalendarGateway, DriveGateway, ContactsGateway:
//     the real provider operations behind each service proxy
//   - SessionVerifier: maps an application bearer token to a user id
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
