// Package exec implements `ssoctl exec`: run a command with short-lived role
// credentials injected into its environment.
package exec

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/cmd/login"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/creds"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/utils/command"
)

type Dependencies struct {
	Store       *sessionstore.Store
	Tokens      *cache.TokenCache
	Roles       *cache.RoleCache
	Settings    *config.Settings
	NewProvider login.ProviderFactory
	Executor    command.Executor
}

// NewExecCmd builds the `ssoctl exec` command. Credentials are fetched
// cache-first and never written to the shared files; they live only in the
// child's environment.
func NewExecCmd(deps Dependencies) *cobra.Command {
	var (
		sessionName string
		accountID   string
		roleName    string
	)
	cmd := &cobra.Command{
		Use:   "exec --account <id> --role <name> -- <command> [args...]",
		Short: "Run a command with role credentials in its environment",
		Long: "Fetches short-lived credentials for one account and role, then executes the given\n" +
			"command with AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN, and\n" +
			"AWS_REGION set. Requires a valid cached token; run 'ssoctl login' first.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()

			r := resolver.New(deps.Store, deps.Tokens)
			sess, err := r.Resolve(login.SessionInputs(deps.Settings, "", "", sessionName), time.Now())
			if err != nil {
				return err
			}

			provider, err := deps.NewProvider(ctx, sess.Region)
			if err != nil {
				return err
			}
			fetcher := creds.NewFetcher(provider, nil, deps.Tokens, deps.Roles)
			roleCreds, err := fetcher.RoleCredentials(ctx, sess, accountID, roleName)
			if err != nil {
				return err
			}

			env := []string{
				"AWS_ACCESS_KEY_ID=" + roleCreds.AccessKeyID,
				"AWS_SECRET_ACCESS_KEY=" + roleCreds.SecretAccessKey,
				"AWS_SESSION_TOKEN=" + roleCreds.SessionToken,
				"AWS_REGION=" + sess.Region,
				"AWS_DEFAULT_REGION=" + sess.Region,
			}
			return deps.Executor.RunInteractive(ctx, env, args[0], args[1:]...)
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session to fetch credentials through")
	cmd.Flags().StringVar(&accountID, "account", "", "account ID")
	cmd.Flags().StringVar(&roleName, "role", "", "role name")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
