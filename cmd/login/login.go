// Package login implements `ssoctl login`, the device-authorization entry
// point.
package login

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/internal/auth"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/creds"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
)

// ProviderFactory builds a provider client pinned to one region.
type ProviderFactory func(ctx context.Context, region string) (auth.ProviderClient, error)

type Dependencies struct {
	Store       *sessionstore.Store
	Tokens      *cache.TokenCache
	Roles       *cache.RoleCache
	Settings    *config.Settings
	NewProvider ProviderFactory
}

// SessionInputs merges command-line hints with settings-file defaults into
// resolver inputs. Flags always win; settings only fill a fully empty set.
func SessionInputs(settings *config.Settings, startURL, region, sessionName string) resolver.Inputs {
	in := resolver.Inputs{StartURL: startURL, Region: region, SessionName: sessionName}
	if in.StartURL != "" || in.Region != "" || in.SessionName != "" || settings == nil {
		return in
	}
	if settings.SSO.Session != "" {
		in.SessionName = settings.SSO.Session
		return in
	}
	in.StartURL = settings.SSO.StartURL
	in.Region = settings.SSO.Region
	return in
}

// NewLoginCmd builds the `ssoctl login` command.
func NewLoginCmd(deps Dependencies) *cobra.Command {
	var (
		sessionName   string
		startURL      string
		region        string
		force         bool
		noBrowserHint bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against an SSO session",
		Long:  "Resolves which session to use, then runs the device-authorization flow unless a valid token is already cached.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()

			r := resolver.New(deps.Store, deps.Tokens)
			sess, err := r.Resolve(SessionInputs(deps.Settings, startURL, region, sessionName), time.Now())
			if err != nil {
				return err
			}

			provider, err := deps.NewProvider(ctx, sess.Region)
			if err != nil {
				return err
			}
			flow := auth.NewFlow(provider, deps.Tokens, func(da *auth.DeviceAuthorization) {
				cmd.Printf("Open %s and enter code %s\n", da.VerificationURI, da.UserCode)
				if !noBrowserHint && da.VerificationURIComplete != "" {
					cmd.Printf("Or open directly: %s\n", da.VerificationURIComplete)
				}
				cmd.Printf("Waiting for approval (request expires in %s)...\n", da.ExpiresIn)
			})

			fetcher := creds.NewFetcher(provider, flow, deps.Tokens, deps.Roles)
			token, err := fetcher.EnsureAuthenticated(ctx, sess, force)
			if err != nil {
				return err
			}

			label := sess.Name
			if label == "" {
				label = sess.StartURL
			}
			cmd.Printf("Logged in to %s; token valid for %s\n",
				label, models.FormatRemaining(token.ExpiresAt, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session name to authenticate against")
	cmd.Flags().StringVar(&startURL, "start-url", "", "explicit SSO start URL (requires --region)")
	cmd.Flags().StringVar(&region, "region", "", "explicit SSO region (requires --start-url)")
	cmd.Flags().BoolVar(&force, "force", false, "re-authenticate even when a valid token is cached")
	cmd.Flags().BoolVar(&noBrowserHint, "no-browser-hint", false, "print only the bare verification URI and code")
	return cmd
}
