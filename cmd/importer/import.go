// Package importer implements `ssoctl import`, which moves a user-managed
// config section under ssoctl management.
package importer

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/internal/configfile"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	promptutils "github.com/cloudlane/ssoctl/utils/prompt"
)

type Dependencies struct {
	Store    *sessionstore.Store
	Prompter promptutils.Prompter
}

// NewImportCmd builds the `ssoctl import` command.
func NewImportCmd(deps Dependencies) *cobra.Command {
	var kind string
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Move a section from the user-managed region under ssoctl management",
		Long: "Moves an [sso-session] or [profile] section you maintain by hand into the managed region,\n" +
			"after which ssoctl keeps it sorted and may rewrite it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]

			var sectionKind configfile.SectionKind
			switch kind {
			case "sso-session":
				sectionKind = configfile.KindSSOSession
			case "profile":
				sectionKind = configfile.KindProfile
			default:
				return fmt.Errorf("unknown section type '%s'; use 'sso-session' or 'profile'", kind)
			}

			if !yes && !deps.Prompter.PromptForConfirmation(
				fmt.Sprintf("Move %s '%s' under ssoctl management", kind, name)) {
				cmd.Println("Aborted.")
				return nil
			}
			if err := deps.Store.ImportSection(sectionKind, name); err != nil {
				return err
			}
			cmd.Printf("Imported %s '%s'; it is now managed by ssoctl\n", kind, name)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "sso-session", "section type to import (sso-session or profile)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
