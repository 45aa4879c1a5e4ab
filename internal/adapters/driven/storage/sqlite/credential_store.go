package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// columnPrefixes whitelists the per-service column families. Column
// names are interpolated into SQL and must never come from input.
var columnPrefixes = map[domain.Service]string{
	domain.ServiceMail:     "mail",
	domain.ServiceCalendar: "calendar",
	domain.ServiceDrive:    "drive",
	domain.ServiceContacts: "contacts",
}

func columnPrefix(svc domain.Service) (string, error) {
	prefix, ok := columnPrefixes[svc]
	if !ok {
		return "", fmt.Errorf("no column family for service %q: %w", svc, domain.ErrInvalidInput)
	}
	return prefix, nil
}

// Get retrieves the credential row for a user. Returns (nil, nil) when
// no row exists yet.
func (s *credentialStore) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT user_id,
			unified_access_token, unified_refresh_token, unified_expiry,
			mail_access_token, mail_refresh_token, mail_enabled,
			calendar_access_token, calendar_refresh_token, calendar_enabled,
			drive_access_token, drive_refresh_token, drive_enabled,
			contacts_access_token, contacts_refresh_token, contacts_enabled,
			updated_at
		FROM credentials WHERE user_id = ?
	`, userID)

	var cred domain.Credential
	var unifiedAccess, unifiedRefresh string
	var unifiedExpiry sql.NullTime
	type familyRow struct {
		access, refresh string
		enabled         sql.NullBool
	}
	families := map[domain.Service]*familyRow{
		domain.ServiceMail:     {},
		domain.ServiceCalendar: {},
		domain.ServiceDrive:    {},
		domain.ServiceContacts: {},
	}
	mail := families[domain.ServiceMail]
	cal := families[domain.ServiceCalendar]
	drv := families[domain.ServiceDrive]
	con := families[domain.ServiceContacts]

	err := row.Scan(&cred.UserID,
		&unifiedAccess, &unifiedRefresh, &unifiedExpiry,
		&mail.access, &mail.refresh, &mail.enabled,
		&cal.access, &cal.refresh, &cal.enabled,
		&drv.access, &drv.refresh, &drv.enabled,
		&con.access, &con.refresh, &con.enabled,
		&cred.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning credential: %w", err)
	}

	if unifiedAccess != "" || unifiedRefresh != "" {
		cred.Unified = &domain.TokenPair{
			AccessToken:  unifiedAccess,
			RefreshToken: unifiedRefresh,
		}
		if unifiedExpiry.Valid {
			cred.Unified.Expiry = unifiedExpiry.Time
		}
	}

	// A NULL enabled flag means the service was never touched; only
	// touched services get a map entry, so an explicit disconnect stays
	// distinguishable from never-connected.
	cred.Services = make(map[domain.Service]*domain.ServiceTokens)
	for svc, fam := range families {
		if !fam.enabled.Valid {
			continue
		}
		cred.Services[svc] = &domain.ServiceTokens{
			AccessToken:  fam.access,
			RefreshToken: fam.refresh,
			Enabled:      fam.enabled.Bool,
		}
	}

	return &cred, nil
}

// UpsertTokens writes the outcome of a completed authorization exchange.
func (s *credentialStore) UpsertTokens(ctx context.Context, userID string, svc domain.Service, tokens domain.TokenPair) error {
	now := time.Now().UTC()

	if svc == domain.ServiceUnified {
		_, err := s.store.db.ExecContext(ctx, `
			INSERT INTO credentials (user_id, unified_access_token, unified_refresh_token, unified_expiry, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				unified_access_token = excluded.unified_access_token,
				unified_refresh_token = excluded.unified_refresh_token,
				unified_expiry = excluded.unified_expiry,
				updated_at = excluded.updated_at
		`, userID, tokens.AccessToken, tokens.RefreshToken, nullTime(tokens.Expiry), now)
		if err != nil {
			return fmt.Errorf("saving unified tokens: %w", err)
		}
		return nil
	}

	prefix, err := columnPrefix(svc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO credentials (user_id, %[1]s_access_token, %[1]s_refresh_token, %[1]s_enabled, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			%[1]s_access_token = excluded.%[1]s_access_token,
			%[1]s_refresh_token = excluded.%[1]s_refresh_token,
			%[1]s_enabled = 1,
			updated_at = excluded.updated_at
	`, prefix)

	if _, err := s.store.db.ExecContext(ctx, query, userID, tokens.AccessToken, tokens.RefreshToken, now); err != nil {
		return fmt.Errorf("saving %s tokens: %w", svc, err)
	}
	return nil
}

// UpdateTokens persists a refreshed token into the column family it was
// read from. The write is conditional on previousAccess still being the
// stored access token; a racing refresher that lost matches zero rows.
func (s *credentialStore) UpdateTokens(ctx context.Context, userID string, svc domain.Service, source domain.CredentialSource, previousAccess string, tokens domain.TokenPair) (bool, error) {
	now := time.Now().UTC()

	var result sql.Result
	var err error
	if source == domain.SourceUnified {
		result, err = s.store.db.ExecContext(ctx, `
			UPDATE credentials SET
				unified_access_token = ?,
				unified_refresh_token = ?,
				unified_expiry = ?,
				updated_at = ?
			WHERE user_id = ? AND unified_access_token = ?
		`, tokens.AccessToken, tokens.RefreshToken, nullTime(tokens.Expiry), now, userID, previousAccess)
	} else {
		var prefix string
		prefix, err = columnPrefix(svc)
		if err != nil {
			return false, err
		}
		query := fmt.Sprintf(`
			UPDATE credentials SET
				%[1]s_access_token = ?,
				%[1]s_refresh_token = ?,
				updated_at = ?
			WHERE user_id = ? AND %[1]s_access_token = ?
		`, prefix)
		result, err = s.store.db.ExecContext(ctx, query, tokens.AccessToken, tokens.RefreshToken, now, userID, previousAccess)
	}
	if err != nil {
		return false, fmt.Errorf("updating %s tokens: %w", svc, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking update result: %w", err)
	}
	return affected > 0, nil
}

// Disconnect clears a service's token columns and flips its enabled
// flag to false. The unified pair is cleared too once no other service
// remains connected. The row itself is kept.
func (s *credentialStore) Disconnect(ctx context.Context, userID string, svc domain.Service) error {
	now := time.Now().UTC()

	if svc == domain.ServiceUnified {
		_, err := s.store.db.ExecContext(ctx, `
			UPDATE credentials SET
				unified_access_token = '',
				unified_refresh_token = '',
				unified_expiry = NULL,
				updated_at = ?
			WHERE user_id = ?
		`, now, userID)
		if err != nil {
			return fmt.Errorf("disconnecting unified: %w", err)
		}
		return nil
	}

	prefix, err := columnPrefix(svc)
	if err != nil {
		return err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning disconnect: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		UPDATE credentials SET
			%[1]s_access_token = '',
			%[1]s_refresh_token = '',
			%[1]s_enabled = 0,
			updated_at = ?
		WHERE user_id = ?
	`, prefix)
	if _, err := tx.ExecContext(ctx, query, now, userID); err != nil {
		return fmt.Errorf("disconnecting %s: %w", svc, err)
	}

	// Drop the unified pair once every service is explicitly
	// disconnected, so a fully disconnected user holds no token material
	// at all. A NULL flag counts as still reachable through unified.
	var enabled int
	row := tx.QueryRowContext(ctx, `
		SELECT COALESCE(mail_enabled, 1) + COALESCE(calendar_enabled, 1)
			+ COALESCE(drive_enabled, 1) + COALESCE(contacts_enabled, 1)
		FROM credentials WHERE user_id = ?
	`, userID)
	if err := row.Scan(&enabled); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("checking remaining services: %w", err)
	}
	if enabled == 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE credentials SET
				unified_access_token = '',
				unified_refresh_token = '',
				unified_expiry = NULL,
				updated_at = ?
			WHERE user_id = ?
		`, now, userID); err != nil {
			return fmt.Errorf("clearing unified tokens: %w", err)
		}
	}

	return tx.Commit()
}

// nullTime maps a zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
