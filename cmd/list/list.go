// Package list implements `ssoctl list accounts` and `ssoctl list roles`.
package list

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/cmd/login"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/creds"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
)

type Dependencies struct {
	Store       *sessionstore.Store
	Tokens      *cache.TokenCache
	Roles       *cache.RoleCache
	Settings    *config.Settings
	NewProvider login.ProviderFactory
}

// NewListCommands builds the `ssoctl list` command tree.
func NewListCommands(deps Dependencies) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts and roles reachable through a session",
	}
	listCmd.AddCommand(accountsCmd(deps))
	listCmd.AddCommand(rolesCmd(deps))
	return listCmd
}

func newFetcher(cmd *cobra.Command, deps Dependencies, sessionName string) (*creds.Fetcher, models.SSOSession, error) {
	r := resolver.New(deps.Store, deps.Tokens)
	sess, err := r.Resolve(login.SessionInputs(deps.Settings, "", "", sessionName), time.Now())
	if err != nil {
		return nil, models.SSOSession{}, err
	}
	provider, err := deps.NewProvider(cmd.Context(), sess.Region)
	if err != nil {
		return nil, models.SSOSession{}, err
	}
	return creds.NewFetcher(provider, nil, deps.Tokens, deps.Roles), sess, nil
}

func accountsCmd(deps Dependencies) *cobra.Command {
	var sessionName string
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts available to the authenticated session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fetcher, sess, err := newFetcher(cmd, deps, sessionName)
			if err != nil {
				return err
			}
			accounts, err := fetcher.Accounts(cmd.Context(), sess)
			if err != nil {
				return err
			}
			for _, a := range accounts {
				cmd.Printf("%-14s %s\n", a.AccountID, a.AccountName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session to list through")
	return cmd
}

func rolesCmd(deps Dependencies) *cobra.Command {
	var sessionName, accountID string
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List roles available in one account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fetcher, sess, err := newFetcher(cmd, deps, sessionName)
			if err != nil {
				return err
			}
			roles, err := fetcher.Roles(cmd.Context(), sess, accountID)
			if err != nil {
				return err
			}
			for _, r := range roles {
				cmd.Println(r.RoleName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session to list through")
	cmd.Flags().StringVar(&accountID, "account", "", "account ID to list roles in")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
