package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "officelink-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotEmpty(t, store.Path())
	assert.FileExists(t, store.Path())
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "officelink-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-opening the same directory must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

// ==================== Credential Store Tests ====================

func TestCredentialStore_GetMissingRow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	cred, err := store.CredentialStore().Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialStore_UpsertUnified(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	err := creds.UpsertTokens(ctx, "user-1", domain.ServiceUnified, domain.TokenPair{
		AccessToken:  "unified-access",
		RefreshToken: "unified-refresh",
		Expiry:       expiry,
	})
	require.NoError(t, err)

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.NotNil(t, cred.Unified)
	assert.Equal(t, "unified-access", cred.Unified.AccessToken)
	assert.Equal(t, "unified-refresh", cred.Unified.RefreshToken)
	assert.WithinDuration(t, expiry, cred.Unified.Expiry, time.Second)
	assert.Empty(t, cred.Services)
}

func TestCredentialStore_UpsertService(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	err := creds.UpsertTokens(ctx, "user-1", domain.ServiceMail, domain.TokenPair{
		AccessToken:  "mail-access",
		RefreshToken: "mail-refresh",
	})
	require.NoError(t, err)

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Nil(t, cred.Unified)

	mail, ok := cred.Services[domain.ServiceMail]
	require.True(t, ok)
	assert.Equal(t, "mail-access", mail.AccessToken)
	assert.Equal(t, "mail-refresh", mail.RefreshToken)
	assert.True(t, mail.Enabled)

	_, ok = cred.Services[domain.ServiceCalendar]
	assert.False(t, ok, "untouched services get no map entry")
}

func TestCredentialStore_UpsertOverwrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceDrive, domain.TokenPair{
		AccessToken: "old", RefreshToken: "old-refresh",
	}))
	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceDrive, domain.TokenPair{
		AccessToken: "new", RefreshToken: "new-refresh",
	}))

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "new", cred.Services[domain.ServiceDrive].AccessToken)
	assert.Equal(t, "new-refresh", cred.Services[domain.ServiceDrive].RefreshToken)
}

func TestCredentialStore_UpdateTokensConditional(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceMail, domain.TokenPair{
		AccessToken: "access-1", RefreshToken: "refresh-1",
	}))

	// First writer wins.
	swapped, err := creds.UpdateTokens(ctx, "user-1", domain.ServiceMail, domain.SourceService,
		"access-1", domain.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-1"})
	require.NoError(t, err)
	assert.True(t, swapped)

	// Second writer carries a stale previous token and matches nothing.
	swapped, err = creds.UpdateTokens(ctx, "user-1", domain.ServiceMail, domain.SourceService,
		"access-1", domain.TokenPair{AccessToken: "access-3", RefreshToken: "refresh-1"})
	require.NoError(t, err)
	assert.False(t, swapped)

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", cred.Services[domain.ServiceMail].AccessToken)
}

func TestCredentialStore_UpdateTokensUnifiedFamily(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceUnified, domain.TokenPair{
		AccessToken: "unified-1", RefreshToken: "refresh-u",
	}))
	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceMail, domain.TokenPair{
		AccessToken: "mail-1", RefreshToken: "refresh-m",
	}))

	// A refresh that resolved through the unified pair must not touch
	// the mail columns.
	swapped, err := creds.UpdateTokens(ctx, "user-1", domain.ServiceMail, domain.SourceUnified,
		"unified-1", domain.TokenPair{AccessToken: "unified-2", RefreshToken: "refresh-u"})
	require.NoError(t, err)
	assert.True(t, swapped)

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "unified-2", cred.Unified.AccessToken)
	assert.Equal(t, "mail-1", cred.Services[domain.ServiceMail].AccessToken)
}

func TestCredentialStore_Disconnect(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceMail, domain.TokenPair{
		AccessToken: "mail-access", RefreshToken: "mail-refresh",
	}))
	require.NoError(t, creds.Disconnect(ctx, "user-1", domain.ServiceMail))

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred, "the row survives a disconnect")

	mail, ok := cred.Services[domain.ServiceMail]
	require.True(t, ok, "a disconnected service keeps its map entry")
	assert.Empty(t, mail.AccessToken)
	assert.Empty(t, mail.RefreshToken)
	assert.False(t, mail.Enabled)
}

func TestCredentialStore_DisconnectKeepsUnifiedForOthers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceUnified, domain.TokenPair{
		AccessToken: "unified-access", RefreshToken: "unified-refresh",
	}))
	require.NoError(t, creds.Disconnect(ctx, "user-1", domain.ServiceMail))

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred.Unified, "other services still resolve through unified")
	assert.False(t, cred.Connected(domain.ServiceMail))
	assert.True(t, cred.Connected(domain.ServiceCalendar))
}

func TestCredentialStore_DisconnectAllClearsUnified(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.UpsertTokens(ctx, "user-1", domain.ServiceUnified, domain.TokenPair{
		AccessToken: "unified-access", RefreshToken: "unified-refresh",
	}))
	for _, svc := range domain.Services {
		require.NoError(t, creds.Disconnect(ctx, "user-1", svc))
	}

	cred, err := creds.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cred, "the row is never deleted")
	assert.Nil(t, cred.Unified, "no token material remains after a full disconnect")
}

// ==================== State Store Tests ====================

func TestStateStore_PutAndConsume(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	states := store.StateStore()

	err := states.Put(ctx, domain.AuthState{
		Nonce:     "nonce-1",
		UserID:    "user-1",
		Service:   domain.ServiceCalendar,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	state, err := states.Consume(ctx, "nonce-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, domain.ServiceCalendar, state.Service)
}

func TestStateStore_ConsumeIsSingleUse(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	states := store.StateStore()

	require.NoError(t, states.Put(ctx, domain.AuthState{
		Nonce:     "nonce-1",
		UserID:    "user-1",
		Service:   domain.ServiceMail,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	first, err := states.Consume(ctx, "nonce-1")
	require.NoError(t, err)
	require.NotNil(t, first)

	replayed, err := states.Consume(ctx, "nonce-1")
	require.NoError(t, err)
	assert.Nil(t, replayed)
}

func TestStateStore_ConsumeUnknown(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	state, err := store.StateStore().Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateStore_ConsumeExpired(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	states := store.StateStore()

	require.NoError(t, states.Put(ctx, domain.AuthState{
		Nonce:     "nonce-old",
		UserID:    "user-1",
		Service:   domain.ServiceMail,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	state, err := states.Consume(ctx, "nonce-old")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateStore_SweepExpired(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	states := store.StateStore().(*stateStore)

	require.NoError(t, states.Put(ctx, domain.AuthState{
		Nonce: "live", UserID: "user-1", Service: domain.ServiceMail,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))
	require.NoError(t, states.Put(ctx, domain.AuthState{
		Nonce: "dead", UserID: "user-1", Service: domain.ServiceMail,
		ExpiresAt: time.Now().Add(-10 * time.Minute),
	}))

	swept, err := states.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	live, err := states.Consume(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, live)
}

// ==================== Audit Store Tests ====================

func TestAuditStore_RecordAndList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	audit := store.AuditSink().(*auditStore)

	base := time.Now().UTC().Truncate(time.Second)
	for i, action := range []string{domain.AuditActionConnected, domain.AuditActionMessageSent} {
		require.NoError(t, audit.Record(ctx, domain.AuditEntry{
			ID:            "entry-" + action,
			UserID:        "user-1",
			Service:       domain.ServiceMail,
			Action:        action,
			CorrelationID: "corr-1",
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, audit.Record(ctx, domain.AuditEntry{
		ID: "entry-other", UserID: "user-2", Service: domain.ServiceMail,
		Action: domain.AuditActionConnected, CreatedAt: base,
	}))

	entries, err := audit.RecentByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditActionMessageSent, entries[0].Action, "newest first")
	assert.Equal(t, "corr-1", entries[0].CorrelationID)
}
