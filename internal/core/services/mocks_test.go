package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// fakeCredentialStore is an in-memory CredentialStore with call
// counters for asserting write behaviour.
type fakeCredentialStore struct {
	mu      sync.Mutex
	creds   map[string]*domain.Credential
	updates int
	upserts int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{creds: map[string]*domain.Credential{}}
}

func (s *fakeCredentialStore) put(cred *domain.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.UserID] = cred
}

func (s *fakeCredentialStore) Get(_ context.Context, userID string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[userID]
	if !ok {
		return nil, nil
	}
	clone := *cred
	return &clone, nil
}

func (s *fakeCredentialStore) UpsertTokens(_ context.Context, userID string, svc domain.Service, tokens domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	cred, ok := s.creds[userID]
	if !ok {
		cred = &domain.Credential{UserID: userID, Services: map[domain.Service]*domain.ServiceTokens{}}
		s.creds[userID] = cred
	}
	if cred.Services == nil {
		cred.Services = map[domain.Service]*domain.ServiceTokens{}
	}
	if svc == domain.ServiceUnified {
		pair := tokens
		cred.Unified = &pair
		return nil
	}
	cred.Services[svc] = &domain.ServiceTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Enabled:      true,
	}
	return nil
}

func (s *fakeCredentialStore) UpdateTokens(_ context.Context, userID string, svc domain.Service, source domain.CredentialSource, previousAccess string, tokens domain.TokenPair) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	cred, ok := s.creds[userID]
	if !ok {
		return false, nil
	}
	if source == domain.SourceUnified {
		if cred.Unified == nil || cred.Unified.AccessToken != previousAccess {
			return false, nil
		}
		pair := tokens
		cred.Unified = &pair
		return true, nil
	}
	st, ok := cred.Services[svc]
	if !ok || st.AccessToken != previousAccess {
		return false, nil
	}
	st.AccessToken = tokens.AccessToken
	st.RefreshToken = tokens.RefreshToken
	return true, nil
}

func (s *fakeCredentialStore) Disconnect(_ context.Context, userID string, svc domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[userID]
	if !ok {
		return nil
	}
	if cred.Services == nil {
		cred.Services = map[domain.Service]*domain.ServiceTokens{}
	}
	cred.Services[svc] = &domain.ServiceTokens{Enabled: false}
	enabledLeft := false
	for other, st := range cred.Services {
		if other != svc && st.Enabled {
			enabledLeft = true
		}
	}
	if !enabledLeft {
		cred.Unified = nil
	}
	return nil
}

// fakeOAuthGateway scripts the provider's authorization endpoints.
type fakeOAuthGateway struct {
	mu sync.Mutex

	consentURL string
	consentErr error

	exchangePair *domain.TokenPair
	exchangeErr  error

	probeErrs []error // consumed in order; nil-padded after exhaustion
	probes    int

	refreshPair *domain.TokenPair
	refreshErr  error
	refreshes   int
}

func (g *fakeOAuthGateway) ConsentURL(domain.Service, string) (string, error) {
	if g.consentErr != nil {
		return "", g.consentErr
	}
	return g.consentURL, nil
}

func (g *fakeOAuthGateway) Exchange(context.Context, string) (*domain.TokenPair, error) {
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	pair := *g.exchangePair
	return &pair, nil
}

func (g *fakeOAuthGateway) Refresh(context.Context, string) (*domain.TokenPair, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refreshes++
	if g.refreshErr != nil {
		return nil, g.refreshErr
	}
	pair := *g.refreshPair
	return &pair, nil
}

func (g *fakeOAuthGateway) Probe(context.Context, string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var err error
	if g.probes < len(g.probeErrs) {
		err = g.probeErrs[g.probes]
	}
	g.probes++
	return err
}

// fakeStateStore holds consent-flow states in memory.
type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]domain.AuthState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: map[string]domain.AuthState{}}
}

func (s *fakeStateStore) Put(_ context.Context, state domain.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Nonce] = state
	return nil
}

func (s *fakeStateStore) Consume(_ context.Context, nonce string) (*domain.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[nonce]
	if !ok {
		return nil, nil
	}
	delete(s.states, nonce)
	return &state, nil
}

// fakeAuditSink collects entries for inspection.
type fakeAuditSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *fakeAuditSink) Record(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeAuditSink) all() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.entries...)
}

// fakeMailGateway scripts message dispatch.
type fakeMailGateway struct {
	mu       sync.Mutex
	sendErrs []error // consumed in order
	sends    int
	lastRaw  string
	sent     *domain.SentMessage
}

func (g *fakeMailGateway) SendRaw(_ context.Context, _, raw, _ string) (*domain.SentMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var err error
	if g.sends < len(g.sendErrs) {
		err = g.sendErrs[g.sends]
	}
	g.sends++
	if err != nil {
		return nil, err
	}
	g.lastRaw = raw
	if g.sent != nil {
		return g.sent, nil
	}
	return &domain.SentMessage{ID: "msg-1", ThreadID: "thread-1"}, nil
}

func (g *fakeMailGateway) CreateDraft(_ context.Context, _, raw, _ string) (*domain.SentMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastRaw = raw
	return &domain.SentMessage{ID: "draft-1"}, nil
}

// fakeCalendarGateway scripts event reads and writes.
type fakeCalendarGateway struct {
	mu       sync.Mutex
	listErrs []error // consumed in order
	lists    int
	events   []domain.CalendarEvent
	created  *domain.CalendarEvent
	crErr    error
}

func (g *fakeCalendarGateway) ListEvents(_ context.Context, _ string, _ domain.EventWindow) ([]domain.CalendarEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var err error
	if g.lists < len(g.listErrs) {
		err = g.listErrs[g.lists]
	}
	g.lists++
	if err != nil {
		return nil, err
	}
	return g.events, nil
}

func (g *fakeCalendarGateway) CreateEvent(_ context.Context, _ string, event domain.CalendarEvent) (*domain.CalendarEvent, error) {
	if g.crErr != nil {
		return nil, g.crErr
	}
	if g.created != nil {
		return g.created, nil
	}
	created := event
	created.ID = "event-1"
	return &created, nil
}

// fakeDriveGateway returns canned file listings.
type fakeDriveGateway struct {
	files     []domain.DriveFile
	err       error
	lastQuery string
}

func (g *fakeDriveGateway) ListFiles(_ context.Context, _ string, _ int64) ([]domain.DriveFile, error) {
	return g.files, g.err
}

func (g *fakeDriveGateway) SearchFiles(_ context.Context, _, query string, _ int64) ([]domain.DriveFile, error) {
	g.lastQuery = query
	return g.files, g.err
}

// fakeContactsGateway returns canned contact listings.
type fakeContactsGateway struct {
	contacts []domain.Contact
	err      error
}

func (g *fakeContactsGateway) ListContacts(_ context.Context, _ string, _ int64) ([]domain.Contact, error) {
	return g.contacts, g.err
}

func (g *fakeContactsGateway) SearchContacts(_ context.Context, _, _ string) ([]domain.Contact, error) {
	return g.contacts, g.err
}
