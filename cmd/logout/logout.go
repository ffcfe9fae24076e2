// Package logout implements `ssoctl logout`: drop cached tokens and role
// credentials and invalidate the managed credential profiles.
package logout

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/cmd/login"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/resolver"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
)

type Dependencies struct {
	Store    *sessionstore.Store
	Tokens   *cache.TokenCache
	Roles    *cache.RoleCache
	Settings *config.Settings
}

// NewLogoutCmd builds the `ssoctl logout` command.
func NewLogoutCmd(deps Dependencies) *cobra.Command {
	var (
		sessionName string
		all         bool
	)
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard cached tokens and invalidate managed credentials",
		Long: "Removes the session's cached token, clears derived role credentials, and overwrites\n" +
			"managed credential profiles with placeholders so stale keys fail loudly.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if all {
				if err := deps.Tokens.Clear(); err != nil {
					return err
				}
			} else {
				r := resolver.New(deps.Store, deps.Tokens)
				sess, err := r.Resolve(login.SessionInputs(deps.Settings, "", "", sessionName), time.Now())
				if err != nil {
					return err
				}
				if err := deps.Tokens.Remove(sess.StartURL); err != nil {
					return err
				}
			}

			if err := deps.Roles.Clear(); err != nil {
				return err
			}
			if err := deps.Store.InvalidateAllProfiles(); err != nil {
				return err
			}
			cmd.Println("Logged out; cached credentials invalidated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionName, "session", "", "session to log out of")
	cmd.Flags().BoolVar(&all, "all", false, "drop tokens for every session")
	return cmd
}
