package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudlane/ssoctl/internal/auth"
	"github.com/cloudlane/ssoctl/models"
)

// scriptedProvider plays back a fixed sequence of CreateToken outcomes.
type scriptedProvider struct {
	interval time.Duration
	script   []error
	token    *models.CachedToken
	calls    int
}

func (p *scriptedProvider) RegisterClient(ctx context.Context, scopes string) (*auth.ClientRegistration, error) {
	return &auth.ClientRegistration{ClientID: "client-id", ClientSecret: "client-secret"}, nil
}

func (p *scriptedProvider) StartDeviceAuthorization(ctx context.Context, reg *auth.ClientRegistration, startURL string) (*auth.DeviceAuthorization, error) {
	return &auth.DeviceAuthorization{
		DeviceCode:      "device-code",
		UserCode:        "ABCD-EFGH",
		VerificationURI: "https://device.sso.us-east-1.amazonaws.com/",
		Interval:        p.interval,
		ExpiresIn:       10 * time.Minute,
	}, nil
}

func (p *scriptedProvider) CreateToken(ctx context.Context, reg *auth.ClientRegistration, deviceCode string) (*models.CachedToken, error) {
	err := p.script[p.calls]
	p.calls++
	if err != nil {
		return nil, err
	}
	return p.token, nil
}

func (p *scriptedProvider) ListAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	return nil, nil
}

func (p *scriptedProvider) ListAccountRoles(ctx context.Context, accessToken, accountID string) ([]models.AccountRole, error) {
	return nil, nil
}

func (p *scriptedProvider) GetRoleCredentials(ctx context.Context, accessToken, accountID, roleName string) (*models.RoleCredentials, error) {
	return nil, nil
}

type recordingSink struct {
	startURL string
	token    *models.CachedToken
	err      error
}

func (s *recordingSink) Put(startURL string, token *models.CachedToken) error {
	if s.err != nil {
		return s.err
	}
	s.startURL = startURL
	s.token = token
	return nil
}

func testSession() models.SSOSession {
	return models.SSOSession{
		Name:     "dev",
		StartURL: "https://dev.awsapps.com/start",
		Region:   "us-west-2",
		Scopes:   models.DefaultScopes,
	}
}

func newTestFlow(provider auth.ProviderClient, sink auth.TokenSink, sleeps *[]time.Duration) *auth.Flow {
	f := auth.NewFlow(provider, sink, nil)
	f.SetSleep(func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return ctx.Err()
	})
	return f
}

func TestAuthenticatePollsUntilApproved(t *testing.T) {
	provider := &scriptedProvider{
		interval: 3 * time.Second,
		script:   []error{auth.ErrAuthorizationPending, auth.ErrAuthorizationPending, nil},
		token: &models.CachedToken{
			AccessToken: "tok",
			ExpiresAt:   time.Now().Add(8 * time.Hour),
		},
	}
	sink := &recordingSink{}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	token, err := flow.Authenticate(context.Background(), testSession())
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "tok", token.AccessToken)
	assert.Equal(t, "https://dev.awsapps.com/start", token.StartURL,
		"start URL is stamped onto the token before persistence")

	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, sleeps,
		"pending answers re-arm the same interval")
	assert.Equal(t, 3, provider.calls)

	require.NotNil(t, sink.token)
	assert.Equal(t, "https://dev.awsapps.com/start", sink.startURL)
	assert.Same(t, token, sink.token, "the returned token is the persisted one")
}

func TestSlowDownPermanentlyWidensTheInterval(t *testing.T) {
	provider := &scriptedProvider{
		interval: 2 * time.Second,
		script:   []error{auth.ErrAuthorizationPending, auth.ErrSlowDown, auth.ErrAuthorizationPending, nil},
		token: &models.CachedToken{
			AccessToken: "tok",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	sink := &recordingSink{}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	_, err := flow.Authenticate(context.Background(), testSession())
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{
		2 * time.Second,
		2 * time.Second,
		7 * time.Second,
		7 * time.Second,
	}, sleeps, "slow_down adds five seconds for the rest of the flow")
}

func TestDenialEndsTheFlow(t *testing.T) {
	provider := &scriptedProvider{
		interval: time.Second,
		script:   []error{auth.ErrAuthorizationPending, auth.ErrAuthorizationDenied},
	}
	sink := &recordingSink{}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	_, err := flow.Authenticate(context.Background(), testSession())
	assert.ErrorIs(t, err, auth.ErrAuthorizationDenied)
	assert.Nil(t, sink.token)
}

func TestExpiryEndsTheFlow(t *testing.T) {
	provider := &scriptedProvider{
		interval: time.Second,
		script:   []error{auth.ErrAuthorizationExpired},
	}
	sink := &recordingSink{}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	_, err := flow.Authenticate(context.Background(), testSession())
	assert.ErrorIs(t, err, auth.ErrAuthorizationExpired)
}

type expiringProvider struct {
	scriptedProvider
	expiresIn time.Duration
}

func (p *expiringProvider) StartDeviceAuthorization(ctx context.Context, reg *auth.ClientRegistration, startURL string) (*auth.DeviceAuthorization, error) {
	da, err := p.scriptedProvider.StartDeviceAuthorization(ctx, reg, startURL)
	if err != nil {
		return nil, err
	}
	da.ExpiresIn = p.expiresIn
	return da, nil
}

func TestDeviceCodeDeadlineEndsTheFlow(t *testing.T) {
	provider := &expiringProvider{
		scriptedProvider: scriptedProvider{
			interval: time.Second,
			script:   []error{auth.ErrAuthorizationPending, auth.ErrAuthorizationPending},
		},
		expiresIn: time.Nanosecond,
	}
	sink := &recordingSink{}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	_, err := flow.Authenticate(context.Background(), testSession())
	assert.ErrorIs(t, err, auth.ErrAuthorizationExpired)
	assert.Zero(t, provider.calls, "the expired code is never presented to the provider")
	assert.Nil(t, sink.token)
}

func TestCancellationIsCooperative(t *testing.T) {
	provider := &scriptedProvider{
		interval: time.Second,
		script:   []error{auth.ErrAuthorizationPending, auth.ErrAuthorizationPending},
	}
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())

	flow := auth.NewFlow(provider, sink, nil)
	polls := 0
	flow.SetSleep(func(ctx context.Context, d time.Duration) error {
		polls++
		if polls == 2 {
			cancel()
		}
		return ctx.Err()
	})

	_, err := flow.Authenticate(ctx, testSession())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "login cancelled")
	assert.Equal(t, 1, provider.calls, "cancellation lands between polls")
	assert.Nil(t, sink.token)
}

func TestPersistFailureSurfacesAfterSuccess(t *testing.T) {
	provider := &scriptedProvider{
		interval: time.Second,
		script:   []error{nil},
		token: &models.CachedToken{
			AccessToken: "tok",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	sink := &recordingSink{err: errors.New("disk full")}
	var sleeps []time.Duration
	flow := newTestFlow(provider, sink, &sleeps)

	_, err := flow.Authenticate(context.Background(), testSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist token")
}

func TestNotifierSeesTheVerificationDetails(t *testing.T) {
	provider := &scriptedProvider{
		interval: time.Second,
		script:   []error{nil},
		token: &models.CachedToken{
			AccessToken: "tok",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	sink := &recordingSink{}
	var seen *auth.DeviceAuthorization
	flow := auth.NewFlow(provider, sink, func(da *auth.DeviceAuthorization) { seen = da })
	flow.SetSleep(func(ctx context.Context, d time.Duration) error { return nil })

	_, err := flow.Authenticate(context.Background(), testSession())
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "ABCD-EFGH", seen.UserCode)
	assert.Equal(t, "https://device.sso.us-east-1.amazonaws.com/", seen.VerificationURI)
}
