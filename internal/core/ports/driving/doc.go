// Package driving defines the interfaces through which callers drive
// the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The HTTP adapter (and tests) call these; core services implement them:
//
//   - AuthorizationService: consent URLs, code exchange, connection state
//   - MailService: send and draft messages
//   - CalendarService: list and create events
//   - DriveService: list and search files
//   - ContactsService: list and search contacts
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
