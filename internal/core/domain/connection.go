package domain

// ConnectionStatus reports whether a service integration is usable for a
// user, and which column family currently backs it.
type ConnectionStatus struct {
	Service   Service `json:"service"`
	Connected bool    `json:"connected"`
	// Source is set only when Connected is true.
	Source CredentialSource `json:"source,omitempty"`
}
