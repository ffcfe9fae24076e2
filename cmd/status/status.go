// Package status implements `ssoctl status`: a local, offline view of
// sessions, tokens, and managed credential profiles.
package status

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
)

type Dependencies struct {
	Store  *sessionstore.Store
	Tokens *cache.TokenCache
}

// NewStatusCmd builds the `ssoctl status` command. It reads only local state:
// no provider calls, so it works offline and never triggers a login.
func NewStatusCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and credential state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			now := time.Now()

			sessions, err := deps.Store.ListSessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				cmd.Println("No SSO sessions configured.")
			} else {
				cmd.Println("Sessions:")
				for _, sess := range sessions {
					token, err := deps.Tokens.Get(sess.StartURL, now)
					if err != nil {
						return err
					}
					state := models.StatusInactive
					remaining := "-"
					if token != nil {
						state = models.ClassifyExpiry(token.ExpiresAt, now)
						remaining = models.FormatRemaining(token.ExpiresAt, now)
					}
					cmd.Printf("  %-20s %-9s %-10s %s\n", sess.Name, state, remaining, sess.StartURL)
				}
			}

			profiles, err := deps.Store.ListProfileStatuses()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				return nil
			}
			cmd.Println("Profiles:")
			for _, p := range profiles {
				remaining := "-"
				if p.Expiration != nil {
					remaining = models.FormatRemaining(*p.Expiration, now)
				}
				cmd.Printf("  %-20s %-9s %-10s %s/%s\n",
					p.ProfileName, p.Status(now), remaining, p.AccountID, p.RoleName)
			}
			return nil
		},
	}
}
