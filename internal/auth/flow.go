package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudlane/ssoctl/models"
)

// slowDownIncrement is added to the polling interval each time the provider
// answers slow_down. The increase is permanent for the rest of the flow.
const slowDownIncrement = 5 * time.Second

// TokenSink persists a freshly minted token. *cache.TokenCache satisfies it.
type TokenSink interface {
	Put(startURL string, token *models.CachedToken) error
}

// Notifier is called once device authorization starts, with everything the
// user needs to approve the request in a browser.
type Notifier func(auth *DeviceAuthorization)

// Flow drives one device-authorization login from client registration through
// token persistence.
type Flow struct {
	provider ProviderClient
	tokens   TokenSink
	notify   Notifier

	// sleep is injectable so tests can observe polling cadence without
	// real delays. It must honor context cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFlow wires a flow. notify may be nil.
func NewFlow(provider ProviderClient, tokens TokenSink, notify Notifier) *Flow {
	return &Flow{
		provider: provider,
		tokens:   tokens,
		notify:   notify,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Authenticate runs the full flow: register a client, start device
// authorization, surface the verification URI, poll until the provider hands
// out a token, then persist it. The token reaches the cache before the caller
// sees it, so an interrupt after success never loses it. Cancellation is
// cooperative: it takes effect between polls, never mid-request teardown.
func (f *Flow) Authenticate(ctx context.Context, sess models.SSOSession) (*models.CachedToken, error) {
	reg, err := f.provider.RegisterClient(ctx, sess.Scopes)
	if err != nil {
		return nil, err
	}
	log.Debug("registered OIDC client", "session", sess.Name)

	auth, err := f.provider.StartDeviceAuthorization(ctx, reg, sess.StartURL)
	if err != nil {
		return nil, err
	}
	log.Debug("device authorization started",
		"userCode", auth.UserCode, "interval", auth.Interval, "expiresIn", auth.ExpiresIn)
	if f.notify != nil {
		f.notify(auth)
	}

	interval := auth.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	var deadline time.Time
	if auth.ExpiresIn > 0 {
		deadline = time.Now().Add(auth.ExpiresIn)
	}

	for {
		if err := f.sleep(ctx, interval); err != nil {
			return nil, fmt.Errorf("login cancelled: %w", err)
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil, ErrAuthorizationExpired
		}

		token, err := f.provider.CreateToken(ctx, reg, auth.DeviceCode)
		switch {
		case err == nil:
			token.StartURL = sess.StartURL
			if err := f.tokens.Put(sess.StartURL, token); err != nil {
				return nil, fmt.Errorf("authenticated but failed to persist token: %w", err)
			}
			log.Info("authenticated", "session", sess.Name, "expiresAt", token.ExpiresAt)
			return token, nil
		case errors.Is(err, ErrAuthorizationPending):
			continue
		case errors.Is(err, ErrSlowDown):
			interval += slowDownIncrement
			log.Debug("provider requested slower polling", "interval", interval)
			continue
		default:
			return nil, err
		}
	}
}
