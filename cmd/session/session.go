// Package session implements the subcommands that manage SSO session
// definitions in the shared config file.
package session

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/models"
	promptutils "github.com/cloudlane/ssoctl/utils/prompt"
)

// Dependencies is everything the session commands need injected.
type Dependencies struct {
	Store    *sessionstore.Store
	Prompter promptutils.Prompter
}

// NewSessionCommands builds the `ssoctl session` command tree.
func NewSessionCommands(deps Dependencies) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage SSO session definitions",
		Long:  "Add, list, edit, rename, and delete the SSO sessions ssoctl manages in ~/.aws/config.",
	}

	sessionCmd.AddCommand(addCmd(deps))
	sessionCmd.AddCommand(listCmd(deps))
	sessionCmd.AddCommand(editCmd(deps))
	sessionCmd.AddCommand(renameCmd(deps))
	sessionCmd.AddCommand(deleteCmd(deps))
	return sessionCmd
}

// promptSession fills in any attribute the flags left empty.
func promptSession(deps Dependencies, sess *models.SSOSession) error {
	var err error
	if sess.StartURL == "" {
		if sess.StartURL, err = deps.Prompter.PromptRequired("SSO start URL"); err != nil {
			return err
		}
	}
	if sess.Region == "" {
		if sess.Region, err = deps.Prompter.PromptRequired("SSO region"); err != nil {
			return err
		}
	}
	if sess.Scopes == "" {
		if sess.Scopes, err = deps.Prompter.PromptWithDefault("Registration scopes", models.DefaultScopes); err != nil {
			return err
		}
	}
	return nil
}

func addCmd(deps Dependencies) *cobra.Command {
	var sess models.SSOSession
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new SSO session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			sess.Name = args[0]
			if err := promptSession(deps, &sess); err != nil {
				return err
			}
			if err := deps.Store.AddSession(sess); err != nil {
				return err
			}
			cmd.Printf("Added session '%s' (%s)\n", sess.Name, sess.StartURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&sess.StartURL, "start-url", "", "SSO start URL")
	cmd.Flags().StringVar(&sess.Region, "region", "", "SSO region")
	cmd.Flags().StringVar(&sess.Scopes, "scopes", "", "registration scopes")
	return cmd
}

func listCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured SSO sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			sessions, err := deps.Store.ListSessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				cmd.Println("No SSO sessions configured. Run 'ssoctl session add <name>' to create one.")
				return nil
			}
			for _, s := range sessions {
				managed, err := deps.Store.SessionManaged(s.Name)
				if err != nil {
					return err
				}
				origin := "user"
				if managed {
					origin = "managed"
				}
				cmd.Printf("%-20s %-10s %s (%s)\n", s.Name, s.Region, s.StartURL, origin)
			}
			return nil
		},
	}
}

func editCmd(deps Dependencies) *cobra.Command {
	var startURL, region, scopes string
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change an existing session's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]
			sess, ok, err := deps.Store.GetSession(name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("session '%s' not found", name)
			}
			if startURL != "" {
				sess.StartURL = startURL
			}
			if region != "" {
				sess.Region = region
			}
			if scopes != "" {
				sess.Scopes = scopes
			}
			if !cmd.Flags().Changed("start-url") && !cmd.Flags().Changed("region") && !cmd.Flags().Changed("scopes") {
				if sess.StartURL, err = deps.Prompter.PromptWithDefault("SSO start URL", sess.StartURL); err != nil {
					return err
				}
				if sess.Region, err = deps.Prompter.PromptWithDefault("SSO region", sess.Region); err != nil {
					return err
				}
			}
			if err := deps.Store.EditSession(sess); err != nil {
				return err
			}
			cmd.Printf("Updated session '%s'\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&startURL, "start-url", "", "new SSO start URL")
	cmd.Flags().StringVar(&region, "region", "", "new SSO region")
	cmd.Flags().StringVar(&scopes, "scopes", "", "new registration scopes")
	return cmd
}

func renameCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a managed session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := deps.Store.RenameSession(args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Renamed session '%s' to '%s'\n", args[0], args[1])
			return nil
		},
	}
}

func deleteCmd(deps Dependencies) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a managed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]
			if !yes && !deps.Prompter.PromptForConfirmation(fmt.Sprintf("Delete session '%s'", name)) {
				cmd.Println("Aborted.")
				return nil
			}
			if err := deps.Store.DeleteSession(name); err != nil {
				return err
			}
			cmd.Printf("Deleted session '%s'\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
