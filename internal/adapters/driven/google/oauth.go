package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// Default Google endpoints. Overridable for tests.
const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// userinfoScope is included with every grant so the probe endpoint
// accepts the token.
const userinfoScope = "https://www.googleapis.com/auth/userinfo.email"

// serviceScopes maps each integration to its minimal OAuth scope set.
var serviceScopes = map[domain.Service][]string{
	domain.ServiceMail: {
		"https://www.googleapis.com/auth/gmail.compose",
		userinfoScope,
	},
	domain.ServiceCalendar: {
		"https://www.googleapis.com/auth/calendar.events",
		userinfoScope,
	},
	domain.ServiceDrive: {
		"https://www.googleapis.com/auth/drive.metadata.readonly",
		userinfoScope,
	},
	domain.ServiceContacts: {
		"https://www.googleapis.com/auth/contacts.readonly",
		userinfoScope,
	},
}

// OAuthConfig carries the deployment's Google OAuth application
// settings. Endpoint fields default to Google's public endpoints and
// exist so tests can point the gateway at a fake provider.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is the fixed callback address for this deployment.
	RedirectURL string

	AuthURL     string
	TokenURL    string
	UserinfoURL string
}

// Ensure OAuthGateway implements the port.
var _ driven.OAuthGateway = (*OAuthGateway)(nil)

// OAuthGateway performs Google's authorization primitives: consent URL
// construction, authorization-code exchange, refresh and token probe.
type OAuthGateway struct {
	cfg    OAuthConfig
	client *http.Client
}

// NewOAuthGateway creates the gateway, filling endpoint defaults.
func NewOAuthGateway(cfg OAuthConfig) *OAuthGateway {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.UserinfoURL == "" {
		cfg.UserinfoURL = defaultUserinfoURL
	}
	return &OAuthGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Scopes returns the minimal scope set for a service. The unified
// pseudo-service gets the union of all four.
func Scopes(svc domain.Service) []string {
	if svc == domain.ServiceUnified {
		seen := map[string]bool{}
		var all []string
		for _, s := range domain.Services {
			for _, scope := range serviceScopes[s] {
				if !seen[scope] {
					seen[scope] = true
					all = append(all, scope)
				}
			}
		}
		return all
	}
	return serviceScopes[svc]
}

// ConsentURL builds the provider consent redirect URL.
// access_type=offline and prompt=consent are mandatory: without them
// Google will not reliably return a refresh token, which would silently
// break refresh-on-expiry later.
func (g *OAuthGateway) ConsentURL(svc domain.Service, state string) (string, error) {
	if g.cfg.ClientID == "" {
		return "", domain.Faultf(domain.FaultConfiguration, "google client id not configured")
	}

	params := url.Values{
		"client_id":     {g.cfg.ClientID},
		"redirect_uri":  {g.cfg.RedirectURL},
		"response_type": {"code"},
		"scope":         {strings.Join(Scopes(svc), " ")},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
		"state":         {state},
	}

	return g.cfg.AuthURL + "?" + params.Encode(), nil
}

// Exchange trades a one-time authorization code for tokens.
func (g *OAuthGateway) Exchange(ctx context.Context, code string) (*domain.TokenPair, error) {
	if g.cfg.ClientID == "" || g.cfg.ClientSecret == "" {
		return nil, domain.Faultf(domain.FaultConfiguration, "google client credentials not configured")
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", g.cfg.ClientID)
	data.Set("client_secret", g.cfg.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", g.cfg.RedirectURL)

	pair, terr := g.postToken(ctx, data)
	if terr != nil {
		if terr.transient {
			return nil, domain.NewFault(domain.FaultTransient, "token endpoint unreachable", terr.err)
		}
		// The description distinguishes user cancellation from
		// misconfiguration; never collapse it into a generic message.
		return nil, domain.NewFault(domain.FaultAuthorizationDenied, terr.description(), terr.err)
	}
	return pair, nil
}

// Refresh mints a new access token from a refresh token.
func (g *OAuthGateway) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if g.cfg.ClientID == "" || g.cfg.ClientSecret == "" {
		return nil, domain.Faultf(domain.FaultConfiguration, "google client credentials not configured")
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", g.cfg.ClientID)
	data.Set("client_secret", g.cfg.ClientSecret)
	data.Set("refresh_token", refreshToken)

	pair, terr := g.postToken(ctx, data)
	if terr != nil {
		if terr.transient {
			return nil, domain.NewFault(domain.FaultTransient, "token endpoint unreachable", terr.err)
		}
		// A rejected grant means the refresh token is revoked or spent.
		return nil, fmt.Errorf("refresh rejected (%s): %w", terr.description(), domain.ErrUnauthorized)
	}
	return pair, nil
}

// Probe performs a cheap authenticated read against the userinfo
// endpoint to test whether the access token is still accepted.
func (g *OAuthGateway) Probe(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.UserinfoURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.NewFault(domain.FaultTransient, "userinfo endpoint unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("probe returned %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.Faultf(domain.FaultTransient, "userinfo endpoint responded %d", resp.StatusCode)
	default:
		return domain.Faultf(domain.FaultProviderRejected, "userinfo endpoint responded %d", resp.StatusCode)
	}
}

// tokenError reports a failed token-endpoint call.
type tokenError struct {
	transient bool
	code      string
	desc      string
	err       error
}

func (e *tokenError) description() string {
	if e.desc != "" {
		return e.desc
	}
	if e.code != "" {
		return e.code
	}
	return "token request failed"
}

// postToken performs one form-encoded POST against the token endpoint
// and decodes either the token payload or the provider's error body.
func (g *OAuthGateway) postToken(ctx context.Context, data url.Values) (*domain.TokenPair, *tokenError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &tokenError{transient: true, err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &tokenError{transient: true, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return nil, &tokenError{
				code: errResp.Error,
				desc: errResp.Error + errDescSuffix(errResp.Description),
			}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &tokenError{transient: true, err: fmt.Errorf("token endpoint responded %d", resp.StatusCode)}
		}
		return nil, &tokenError{code: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, &tokenError{transient: true, err: fmt.Errorf("decode token response: %w", err)}
	}

	pair := &domain.TokenPair{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
	}
	if tokenResp.ExpiresIn > 0 {
		pair.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return pair, nil
}

func errDescSuffix(desc string) string {
	if desc == "" {
		return ""
	}
	return ": " + desc
}
