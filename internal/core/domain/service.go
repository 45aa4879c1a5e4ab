package domain

import "fmt"

// Service identifies one of the proxied provider integrations.
type Service string

const (
	// ServiceMail is the mail integration (send, draft).
	ServiceMail Service = "mail"
	// ServiceCalendar is the calendar integration (list, create events).
	ServiceCalendar Service = "calendar"
	// ServiceDrive is the file storage integration (list, search).
	ServiceDrive Service = "drive"
	// ServiceContacts is the contacts integration (list, search).
	ServiceContacts Service = "contacts"

	// ServiceUnified is a pseudo-service used only during authorization.
	// Connecting it requests the combined scope of all four integrations
	// and stores the result as the unified token pair.
	ServiceUnified Service = "unified"
)

// Services lists the four proxied integrations, excluding the
// unified pseudo-service.
var Services = []Service{ServiceMail, ServiceCalendar, ServiceDrive, ServiceContacts}

// ParseService validates a service identifier from an external caller.
func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServiceMail, ServiceCalendar, ServiceDrive, ServiceContacts, ServiceUnified:
		return Service(s), nil
	}
	return "", fmt.Errorf("unknown service %q: %w", s, ErrInvalidInput)
}

// IsProxied returns true for the four real integrations.
func (s Service) IsProxied() bool {
	return s == ServiceMail || s == ServiceCalendar || s == ServiceDrive || s == ServiceContacts
}
