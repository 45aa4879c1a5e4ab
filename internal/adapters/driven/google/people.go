package google

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

var _ driven.ContactsGateway = (*PeopleGateway)(nil)

// personFields limits responses to the fields the proxy surfaces.
const personFields = "names,emailAddresses,phoneNumbers"

// PeopleGateway lists and searches the user's saved contacts through
// the People API.
type PeopleGateway struct {
	limiter *RateLimiter
}

// NewPeopleGateway creates the gateway with contacts rate limits.
func NewPeopleGateway() *PeopleGateway {
	return &PeopleGateway{limiter: NewRateLimiter(domain.ServiceContacts)}
}

func (g *PeopleGateway) service(ctx context.Context, accessToken string) (*people.Service, error) {
	svc, err := people.NewService(ctx, option.WithTokenSource(tokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("create people client: %w", err)
	}
	return svc, nil
}

// ListContacts returns the user's saved contacts ordered by name.
func (g *PeopleGateway) ListContacts(ctx context.Context, accessToken string, maxResults int64) ([]domain.Contact, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.People.Connections.List("people/me").
		PersonFields(personFields).
		SortOrder("FIRST_NAME_ASCENDING").
		Context(ctx)
	if maxResults > 0 {
		call = call.PageSize(maxResults)
	}

	resp, err := call.Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	contacts := make([]domain.Contact, 0, len(resp.Connections))
	for _, person := range resp.Connections {
		contacts = append(contacts, contactFromAPI(person))
	}
	return contacts, nil
}

// SearchContacts matches the query against contact names, emails and
// phone numbers.
func (g *PeopleGateway) SearchContacts(ctx context.Context, accessToken, query string) ([]domain.Contact, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.People.SearchContacts().
		Query(query).
		ReadMask(personFields).
		Context(ctx).
		Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	contacts := make([]domain.Contact, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.Person == nil {
			continue
		}
		contacts = append(contacts, contactFromAPI(result.Person))
	}
	return contacts, nil
}

func contactFromAPI(person *people.Person) domain.Contact {
	contact := domain.Contact{ResourceID: person.ResourceName}
	if len(person.Names) > 0 {
		contact.Name = person.Names[0].DisplayName
	}
	for _, email := range person.EmailAddresses {
		contact.Emails = append(contact.Emails, email.Value)
	}
	for _, phone := range person.PhoneNumbers {
		contact.Phones = append(contact.Phones, phone.Value)
	}
	return contact
}
