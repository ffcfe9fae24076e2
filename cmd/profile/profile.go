// Package profile implements the subcommands that manage materialized role
// profiles in the shared config and credentials files.
package profile

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
	promptutils "github.com/cloudlane/ssoctl/utils/prompt"
)

// Dependencies is everything the profile commands need injected.
type Dependencies struct {
	Store    *sessionstore.Store
	Prompter promptutils.Prompter
}

// NewProfileCommands builds the `ssoctl profile` command tree.
func NewProfileCommands(deps Dependencies) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage materialized role profiles",
		Long:  "List, rename, and delete the role profiles ssoctl wrote with 'ssoctl export'.",
	}

	profileCmd.AddCommand(listCmd(deps))
	profileCmd.AddCommand(renameCmd(deps))
	profileCmd.AddCommand(deleteCmd(deps))
	return profileCmd
}

func listCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List managed role profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			profiles, err := deps.Store.ListProfileStatuses()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				cmd.Println("No managed profiles. Run 'ssoctl export' to create one.")
				return nil
			}
			now := time.Now()
			for _, p := range profiles {
				remaining := "-"
				if p.Expiration != nil {
					remaining = models.FormatRemaining(*p.Expiration, now)
				}
				cmd.Printf("%-20s %-9s %-10s %s/%s\n",
					p.ProfileName, p.Status(now), remaining, p.AccountID, p.RoleName)
			}
			return nil
		},
	}
}

func renameCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a managed profile in both files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := deps.Store.RenameProfile(args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Renamed profile '%s' to '%s'\n", args[0], args[1])
			return nil
		},
	}
}

func deleteCmd(deps Dependencies) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a managed profile from both files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]
			if !yes && !deps.Prompter.PromptForConfirmation(fmt.Sprintf("Delete profile '%s'", name)) {
				cmd.Println("Aborted.")
				return nil
			}
			if err := deps.Store.DeleteProfile(name); err != nil {
				return err
			}
			cmd.Printf("Deleted profile '%s'\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
