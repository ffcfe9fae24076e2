// Package export implements `ssoctl export`: materialize role credentials
// into the shared config and credentials files as a named profile.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/cmd/login"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/creds"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
	promptutils "github.com/cloudlane/ssoctl/utils/prompt"
)

type Dependencies struct {
	Store       *sessionstore.Store
	Tokens      *cache.TokenCache
	Roles       *cache.RoleCache
	Settings    *config.Settings
	Prompter    promptutils.Prompter
	NewProvider login.ProviderFactory
}

// NewExportCmd builds the `ssoctl export` command.
func NewExportCmd(deps Dependencies) *cobra.Command {
	var (
		sessionName string
		accountID   string
		roleName    string
		profileName string
		region      string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write role credentials to a named profile",
		Long: "Fetches short-lived credentials for one account and role (cache-first) and writes them\n" +
			"as a profile into ~/.aws/config and ~/.aws/credentials.",
		Args: cobra.NoArgs,
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

			role := models.AccountRole{AccountID: accountID, RoleName: roleName}
			if role.AccountID == "" {
				if role, err = pickAccount(cmd, deps, fetcher, sess); err != nil {
					return err
				}
			}
			if role.RoleName == "" {
				if role.RoleName, err = pickRole(cmd, deps, fetcher, sess, role.AccountID); err != nil {
					return err
				}
			}

			roleCreds, err := fetcher.RoleCredentials(ctx, sess, role.AccountID, role.RoleName)
			if err != nil {
				return err
			}

			if profileName == "" {
				profileName = defaultProfileName(role)
			}
			profileRegion := region
			if profileRegion == "" && deps.Settings != nil {
				profileRegion = deps.Settings.ProfileDefaults.Region
			}
			profileOutput := output
			if profileOutput == "" && deps.Settings != nil {
				profileOutput = deps.Settings.ProfileDefaults.Output
			}

			if err := deps.Store.WriteRoleProfile(profileName, sess.Name, role, profileRegion, profileOutput); err != nil {
				return err
			}
			if err := deps.Store.WriteRoleCredentials(profileName, role, roleCreds); err != nil {
				return err
			}

			cmd.Printf("Wrote profile '%s' for %s/%s; credentials valid for %s\n",
				profileName, role.AccountID, role.RoleName,
				models.FormatRemaining(roleCreds.Expiration, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session to fetch credentials through")
	cmd.Flags().StringVar(&accountID, "account", "", "account ID")
	cmd.Flags().StringVar(&roleName, "role", "", "role name")
	cmd.Flags().StringVar(&profileName, "profile", "", "profile name to write (default <account>-<role>)")
	cmd.Flags().StringVar(&region, "region", "", "region to set on the profile")
	cmd.Flags().StringVar(&output, "output", "", "output format to set on the profile")
	return cmd
}

func defaultProfileName(role models.AccountRole) string {
	name := role.AccountID + "-" + role.RoleName
	if role.AccountName != "" {
		name = role.AccountName + "-" + role.RoleName
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

func pickAccount(cmd *cobra.Command, deps Dependencies, fetcher *creds.Fetcher, sess models.SSOSession) (models.AccountRole, error) {
	accounts, err := fetcher.Accounts(cmd.Context(), sess)
	if err != nil {
		return models.AccountRole{}, err
	}
	if len(accounts) == 0 {
		return models.AccountRole{}, fmt.Errorf("no accounts available through session '%s'", sess.Name)
	}
	items := make([]string, len(accounts))
	for i, a := range accounts {
		items[i] = fmt.Sprintf("%s (%s)", a.AccountName, a.AccountID)
	}
	selected, err := deps.Prompter.PromptForSelection("Account", items)
	if err != nil {
		return models.AccountRole{}, err
	}
	for i, item := range items {
		if item == selected {
			return models.AccountRole{
				AccountID:   accounts[i].AccountID,
				AccountName: accounts[i].AccountName,
			}, nil
		}
	}
	return models.AccountRole{}, fmt.Errorf("account selection failed")
}

func pickRole(cmd *cobra.Command, deps Dependencies, fetcher *creds.Fetcher, sess models.SSOSession, accountID string) (string, error) {
	roles, err := fetcher.Roles(cmd.Context(), sess, accountID)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", fmt.Errorf("no roles available in account %s", accountID)
	}
	if len(roles) == 1 {
		return roles[0].RoleName, nil
	}
	items := make([]string, len(roles))
	for i, r := range roles {
		items[i] = r.RoleName
	}
	return deps.Prompter.PromptForSelection("Role", items)
}
