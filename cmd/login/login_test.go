package login_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudlane/ssoctl/cmd/login"
	"github.com/cloudlane/ssoctl/internal/auth"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
	mock_ssoctl "github.com/cloudlane/ssoctl/tests/mock"
)

func TestSessionInputsFlagsWin(t *testing.T) {
	settings := &config.Settings{}
	settings.SSO.Session = "from-settings"

	in := login.SessionInputs(settings, "", "", "from-flag")
	assert.Equal(t, resolver.Inputs{SessionName: "from-flag"}, in)
}

func TestSessionInputsSettingsFillEmptyFlags(t *testing.T) {
	settings := &config.Settings{}
	settings.SSO.Session = "corp"

	in := login.SessionInputs(settings, "", "", "")
	assert.Equal(t, resolver.Inputs{SessionName: "corp"}, in)
}

func TestSessionInputsSettingsPairUsedWithoutSessionName(t *testing.T) {
	settings := &config.Settings{}
	settings.SSO.StartURL = "https://corp.awsapps.com/start"
	settings.SSO.Region = "us-east-1"

	in := login.SessionInputs(settings, "", "", "")
	assert.Equal(t, resolver.Inputs{
		StartURL: "https://corp.awsapps.com/start",
		Region:   "us-east-1",
	}, in)
}

func TestSessionInputsPartialFlagsAreNotMixedWithSettings(t *testing.T) {
	settings := &config.Settings{}
	settings.SSO.Region = "us-east-1"

	// A lone --start-url must stay a half-specified pair so the resolver
	// rejects it, rather than being silently completed from settings.
	in := login.SessionInputs(settings, "https://x.awsapps.com/start", "", "")
	assert.Equal(t, resolver.Inputs{StartURL: "https://x.awsapps.com/start"}, in)
}

func TestLoginReusesCachedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")
	require.NoError(t, store.AddSession(models.SSOSession{
		Name: "dev", StartURL: "https://dev.awsapps.com/start", Region: "us-west-2",
	}))
	tokens, err := cache.NewTokenCache(fs, "/aws/sso/cache")
	require.NoError(t, err)
	roles, err := cache.NewRoleCache(fs, "/aws/cli/cache")
	require.NoError(t, err)
	require.NoError(t, tokens.Put("https://dev.awsapps.com/start", &models.CachedToken{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(4 * time.Hour),
	}))

	// No expectations: a valid cached token must not reach the provider.
	provider := mock_ssoctl.NewMockProviderClient(ctrl)
	cmd := login.NewLoginCmd(login.Dependencies{
		Store:    store,
		Tokens:   tokens,
		Roles:    roles,
		Settings: &config.Settings{},
		NewProvider: func(ctx context.Context, region string) (auth.ProviderClient, error) {
			return provider, nil
		},
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--session", "dev"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Logged in to dev")
}

func TestLoginUnknownSessionFailsWithAlternatives(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")
	require.NoError(t, store.AddSession(models.SSOSession{
		Name: "dev", StartURL: "https://dev.awsapps.com/start", Region: "us-west-2",
	}))
	tokens, err := cache.NewTokenCache(fs, "/aws/sso/cache")
	require.NoError(t, err)
	roles, err := cache.NewRoleCache(fs, "/aws/cli/cache")
	require.NoError(t, err)

	cmd := login.NewLoginCmd(login.Dependencies{
		Store:    store,
		Tokens:   tokens,
		Roles:    roles,
		Settings: &config.Settings{},
		NewProvider: func(ctx context.Context, region string) (auth.ProviderClient, error) {
			return mock_ssoctl.NewMockProviderClient(ctrl), nil
		},
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--session", "staging"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured sessions: dev")
}
