package domain

// Contact is a contacts listing entry.
type Contact struct {
	// ResourceID is the provider-assigned contact identifier.
	ResourceID string `json:"resource_id"`
	// Name is the contact's display name.
	Name string `json:"name,omitempty"`
	// Emails lists the contact's email addresses.
	Emails []string `json:"emails,omitempty"`
	// Phones lists the contact's phone numbers.
	Phones []string `json:"phones,omitempty"`
}
