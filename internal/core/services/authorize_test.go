package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

func newFlow(store *fakeCredentialStore, states *fakeStateStore, gateway *fakeOAuthGateway, audit *fakeAuditSink) *AuthorizationFlow {
	return NewAuthorizationFlow(store, states, gateway, audit, zap.NewNop())
}

func TestBuildConsentURL_RegistersState(t *testing.T) {
	states := newFakeStateStore()
	gateway := &fakeOAuthGateway{consentURL: "https://provider.example/consent"}
	flow := newFlow(newFakeCredentialStore(), states, gateway, &fakeAuditSink{})

	url, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceMail)
	require.NoError(t, err)
	assert.Equal(t, "https://provider.example/consent", url)

	require.Len(t, states.states, 1)
	for _, st := range states.states {
		assert.Equal(t, "user-1", st.UserID)
		assert.Equal(t, domain.ServiceMail, st.Service)
		assert.NotEqual(t, "user-1", st.Nonce, "state must be a nonce, not the raw identity")
	}
}

func TestBuildConsentURL_ConfigurationFault(t *testing.T) {
	gateway := &fakeOAuthGateway{
		consentErr: domain.Faultf(domain.FaultConfiguration, "client id not configured"),
	}
	flow := newFlow(newFakeCredentialStore(), newFakeStateStore(), gateway, &fakeAuditSink{})

	_, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceDrive)
	assert.True(t, domain.IsKind(err, domain.FaultConfiguration))
}

func TestCompleteExchange_StoresServiceTokens(t *testing.T) {
	store := newFakeCredentialStore()
	states := newFakeStateStore()
	audit := &fakeAuditSink{}
	gateway := &fakeOAuthGateway{
		consentURL:   "https://provider.example/consent",
		exchangePair: &domain.TokenPair{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"},
	}
	flow := newFlow(store, states, gateway, audit)

	_, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceCalendar)
	require.NoError(t, err)

	var nonce string
	for n := range states.states {
		nonce = n
	}

	result, err := flow.CompleteExchange(context.Background(), "one-time-code", nonce)
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, domain.ServiceCalendar, result.Service)

	cred, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	st := cred.Services[domain.ServiceCalendar]
	require.NotNil(t, st)
	assert.Equal(t, "fresh-access", st.AccessToken)
	assert.Equal(t, "fresh-refresh", st.RefreshToken)
	assert.True(t, st.Enabled)

	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionConnected, entries[0].Action)
}

func TestCompleteExchange_UnifiedPseudoService(t *testing.T) {
	store := newFakeCredentialStore()
	states := newFakeStateStore()
	gateway := &fakeOAuthGateway{
		consentURL:   "https://provider.example/consent",
		exchangePair: &domain.TokenPair{AccessToken: "unified-access", RefreshToken: "unified-refresh"},
	}
	flow := newFlow(store, states, gateway, &fakeAuditSink{})

	_, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceUnified)
	require.NoError(t, err)
	var nonce string
	for n := range states.states {
		nonce = n
	}

	_, err = flow.CompleteExchange(context.Background(), "code", nonce)
	require.NoError(t, err)

	cred, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred.Unified)
	assert.Equal(t, "unified-access", cred.Unified.AccessToken)
}

func TestCompleteExchange_ProviderDeniedLeavesStoreUntouched(t *testing.T) {
	store := newFakeCredentialStore()
	states := newFakeStateStore()
	gateway := &fakeOAuthGateway{
		consentURL: "https://provider.example/consent",
		exchangeErr: domain.Faultf(domain.FaultAuthorizationDenied, "invalid_grant"),
	}
	flow := newFlow(store, states, gateway, &fakeAuditSink{})

	_, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceMail)
	require.NoError(t, err)
	var nonce string
	for n := range states.states {
		nonce = n
	}

	_, err = flow.CompleteExchange(context.Background(), "bad-code", nonce)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.FaultAuthorizationDenied))
	assert.Contains(t, err.Error(), "invalid_grant")

	cred, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.Zero(t, store.upserts)
}

func TestCompleteExchange_UnknownStateFailsClosed(t *testing.T) {
	flow := newFlow(newFakeCredentialStore(), newFakeStateStore(), &fakeOAuthGateway{}, &fakeAuditSink{})

	_, err := flow.CompleteExchange(context.Background(), "code", "forged-state")
	assert.True(t, domain.IsKind(err, domain.FaultAuthorizationDenied))
}

func TestCompleteExchange_StateIsSingleUse(t *testing.T) {
	store := newFakeCredentialStore()
	states := newFakeStateStore()
	gateway := &fakeOAuthGateway{
		consentURL:   "https://provider.example/consent",
		exchangePair: &domain.TokenPair{AccessToken: "a", RefreshToken: "r"},
	}
	flow := newFlow(store, states, gateway, &fakeAuditSink{})

	_, err := flow.BuildConsentURL(context.Background(), "user-1", domain.ServiceMail)
	require.NoError(t, err)
	var nonce string
	for n := range states.states {
		nonce = n
	}

	_, err = flow.CompleteExchange(context.Background(), "code", nonce)
	require.NoError(t, err)

	// Replaying the callback with the same state fails closed.
	_, err = flow.CompleteExchange(context.Background(), "code", nonce)
	assert.True(t, domain.IsKind(err, domain.FaultAuthorizationDenied))
}

func TestCheckConnection(t *testing.T) {
	store := newFakeCredentialStore()
	store.put(&domain.Credential{
		UserID:  "user-1",
		Unified: &domain.TokenPair{AccessToken: "unified-access"},
	})
	flow := newFlow(store, newFakeStateStore(), &fakeOAuthGateway{}, &fakeAuditSink{})

	status, err := flow.CheckConnection(context.Background(), "user-1", domain.ServiceMail)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, domain.SourceUnified, status.Source)

	status, err = flow.CheckConnection(context.Background(), "stranger", domain.ServiceMail)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestDisconnect_RecordsAudit(t *testing.T) {
	store := newFakeCredentialStore()
	store.put(unifiedCredential("user-1"))
	audit := &fakeAuditSink{}
	flow := newFlow(store, newFakeStateStore(), &fakeOAuthGateway{}, audit)

	err := flow.Disconnect(context.Background(), "user-1", domain.ServiceMail)
	require.NoError(t, err)

	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionDisconnected, entries[0].Action)
	assert.Equal(t, "user-1", entries[0].UserID)
}
