package domain

import "time"

// DriveFile is a file listing entry from the storage integration.
type DriveFile struct {
	// ID is the provider-assigned file identifier.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// MIMEType is the provider-reported content type.
	MIMEType string `json:"mime_type,omitempty"`
	// ModifiedAt is the last modification time.
	ModifiedAt time.Time `json:"modified_at,omitempty"`
	// WebViewLink opens the file in the provider's UI.
	WebViewLink string `json:"web_view_link,omitempty"`
}
