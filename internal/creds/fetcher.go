// Package creds layers the credential caches over the provider: every read
// goes cache-first, every provider response is persisted before it is
// returned.
package creds

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudlane/ssoctl/internal/auth"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/models"
)

// NotAuthenticatedError means no valid token exists for the session and the
// operation refuses to proceed without one.
type NotAuthenticatedError struct {
	Session  string
	StartURL string
}

func (e *NotAuthenticatedError) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("not authenticated for session '%s'; run 'ssoctl login --session %s'", e.Session, e.Session)
	}
	return fmt.Sprintf("not authenticated for %s; run 'ssoctl login'", e.StartURL)
}

// Authenticator runs a device-authorization login. *auth.Flow satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, sess models.SSOSession) (*models.CachedToken, error)
}

// Fetcher resolves tokens and role credentials for one invocation.
type Fetcher struct {
	provider auth.ProviderClient
	flow     Authenticator
	tokens   *cache.TokenCache
	roles    *cache.RoleCache
	now      func() time.Time
}

// NewFetcher wires a fetcher. flow may be nil for commands that must never
// trigger an interactive login.
func NewFetcher(provider auth.ProviderClient, flow Authenticator, tokens *cache.TokenCache, roles *cache.RoleCache) *Fetcher {
	return &Fetcher{
		provider: provider,
		flow:     flow,
		tokens:   tokens,
		roles:    roles,
		now:      time.Now,
	}
}

// SetClock overrides the fetcher's time source, for tests.
func (f *Fetcher) SetClock(now func() time.Time) { f.now = now }

// EnsureAuthenticated returns a valid token for the session, reusing the
// cached one unless force is set or none is usable. A login is only started
// when a flow was wired.
func (f *Fetcher) EnsureAuthenticated(ctx context.Context, sess models.SSOSession, force bool) (*models.CachedToken, error) {
	if !force {
		token, err := f.tokens.Get(sess.StartURL, f.now())
		if err != nil {
			return nil, err
		}
		if token != nil {
			log.Debug("reusing cached token", "session", sess.Name, "expiresAt", token.ExpiresAt)
			return token, nil
		}
	}
	if f.flow == nil {
		return nil, &NotAuthenticatedError{Session: sess.Name, StartURL: sess.StartURL}
	}
	return f.flow.Authenticate(ctx, sess)
}

// validToken is the non-interactive token lookup shared by every read path.
func (f *Fetcher) validToken(sess models.SSOSession) (*models.CachedToken, error) {
	token, err := f.tokens.Get(sess.StartURL, f.now())
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, &NotAuthenticatedError{Session: sess.Name, StartURL: sess.StartURL}
	}
	return token, nil
}

// RoleCredentials returns credentials for one account+role, cache-first. A
// provider fetch requires a valid token and persists its result immediately.
func (f *Fetcher) RoleCredentials(ctx context.Context, sess models.SSOSession, accountID, roleName string) (*models.RoleCredentials, error) {
	cached, err := f.roles.Get(sess.StartURL, accountID, roleName, f.now())
	if err != nil {
		return nil, err
	}
	if cached != nil {
		log.Debug("reusing cached role credentials", "account", accountID, "role", roleName)
		return cached, nil
	}

	token, err := f.validToken(sess)
	if err != nil {
		return nil, err
	}
	creds, err := f.provider.GetRoleCredentials(ctx, token.AccessToken, accountID, roleName)
	if err != nil {
		return nil, err
	}
	if err := f.roles.Put(sess.StartURL, accountID, roleName, creds); err != nil {
		return nil, fmt.Errorf("fetched credentials but failed to cache them: %w", err)
	}
	return creds, nil
}

// Accounts lists the accounts reachable through the session.
func (f *Fetcher) Accounts(ctx context.Context, sess models.SSOSession) ([]models.Account, error) {
	token, err := f.validToken(sess)
	if err != nil {
		return nil, err
	}
	return f.provider.ListAccounts(ctx, token.AccessToken)
}

// Roles lists the roles available in one account.
func (f *Fetcher) Roles(ctx context.Context, sess models.SSOSession, accountID string) ([]models.AccountRole, error) {
	token, err := f.validToken(sess)
	if err != nil {
		return nil, err
	}
	return f.provider.ListAccountRoles(ctx, token.AccessToken, accountID)
}
