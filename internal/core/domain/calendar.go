package domain

import "time"

// CalendarEvent is a calendar entry as seen by the proxy.
type CalendarEvent struct {
	// ID is the provider-assigned event identifier. Empty on creation.
	ID string `json:"id,omitempty"`
	// Summary is the event title.
	Summary string `json:"summary"`
	// Description is the free-text body.
	Description string `json:"description,omitempty"`
	// Location is the free-text location.
	Location string `json:"location,omitempty"`
	// Start and End bound the event.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Attendees are invitee email addresses.
	Attendees []string `json:"attendees,omitempty"`
	// HTMLLink is the provider's web view of the event.
	HTMLLink string `json:"html_link,omitempty"`
}

// EventWindow bounds a calendar listing.
type EventWindow struct {
	// TimeMin and TimeMax bound the listing. Zero values mean unbounded.
	TimeMin time.Time
	TimeMax time.Time
	// MaxResults caps the page size. Zero means the provider default.
	MaxResults int64
}
