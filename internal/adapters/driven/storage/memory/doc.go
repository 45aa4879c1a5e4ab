// Package memory provides in-memory implementations of the persistence
// ports. These are used in tests and in development setups where no
// database file is wanted; nothing survives a process restart.
package memory
