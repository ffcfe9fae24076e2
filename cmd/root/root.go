// Package root assembles the ssoctl command tree and wires the real
// dependencies behind it.
package root

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	cmdExec "github.com/cloudlane/ssoctl/cmd/exec"
	cmdExport "github.com/cloudlane/ssoctl/cmd/export"
	cmdImporter "github.com/cloudlane/ssoctl/cmd/importer"
	cmdList "github.com/cloudlane/ssoctl/cmd/list"
	cmdLogin "github.com/cloudlane/ssoctl/cmd/login"
	cmdLogout "github.com/cloudlane/ssoctl/cmd/logout"
	cmdProfile "github.com/cloudlane/ssoctl/cmd/profile"
	cmdSession "github.com/cloudlane/ssoctl/cmd/session"
	cmdStatus "github.com/cloudlane/ssoctl/cmd/status"
	"github.com/cloudlane/ssoctl/internal/auth"
	"github.com/cloudlane/ssoctl/internal/cache"
	"github.com/cloudlane/ssoctl/internal/config"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	"github.com/cloudlane/ssoctl/utils/command"
	promptutils "github.com/cloudlane/ssoctl/utils/prompt"
)

// Dependencies is the full set of collaborators the command tree needs.
type Dependencies struct {
	Store       *sessionstore.Store
	Tokens      *cache.TokenCache
	Roles       *cache.RoleCache
	Settings    *config.Settings
	Prompter    promptutils.Prompter
	NewProvider cmdLogin.ProviderFactory
	Executor    command.Executor
}

// DefaultDependencies wires real file-system and provider implementations.
func DefaultDependencies() (*Dependencies, error) {
	fs := afero.NewOsFs()

	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}
	settingsPath, err := config.SettingsPath()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(fs, settingsPath)
	if err != nil {
		return nil, err
	}

	tokens, err := cache.NewTokenCache(fs, paths.TokenCacheDir)
	if err != nil {
		return nil, err
	}
	roles, err := cache.NewRoleCache(fs, paths.RoleCacheDir)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Store:    sessionstore.NewStore(fs, paths.ConfigFile, paths.CredentialsFile),
		Tokens:   tokens,
		Roles:    roles,
		Settings: settings,
		Prompter: promptutils.NewPrompt(),
		NewProvider: func(ctx context.Context, region string) (auth.ProviderClient, error) {
			return auth.NewRealProviderClient(ctx, region)
		},
		Executor: command.NewRealExecutor(),
	}, nil
}

// NewRootCmd builds the `ssoctl` command with every subcommand attached.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "ssoctl",
		Short: "Manage AWS SSO sessions, tokens, and credential profiles",
		Long: "ssoctl keeps AWS SSO session definitions, cached tokens, and short-lived role\n" +
			"credentials organized in the shared AWS config files, interoperating with the AWS CLI.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(cmdSession.NewSessionCommands(cmdSession.Dependencies{
		Store:    deps.Store,
		Prompter: deps.Prompter,
	}))
	rootCmd.AddCommand(cmdImporter.NewImportCmd(cmdImporter.Dependencies{
		Store:    deps.Store,
		Prompter: deps.Prompter,
	}))
	rootCmd.AddCommand(cmdLogin.NewLoginCmd(cmdLogin.Dependencies{
		Store:       deps.Store,
		Tokens:      deps.Tokens,
		Roles:       deps.Roles,
		Settings:    deps.Settings,
		NewProvider: deps.NewProvider,
	}))
	rootCmd.AddCommand(cmdLogout.NewLogoutCmd(cmdLogout.Dependencies{
		Store:    deps.Store,
		Tokens:   deps.Tokens,
		Roles:    deps.Roles,
		Settings: deps.Settings,
	}))
	rootCmd.AddCommand(cmdStatus.NewStatusCmd(cmdStatus.Dependencies{
		Store:  deps.Store,
		Tokens: deps.Tokens,
	}))
	rootCmd.AddCommand(cmdExport.NewExportCmd(cmdExport.Dependencies{
		Store:       deps.Store,
		Tokens:      deps.Tokens,
		Roles:       deps.Roles,
		Settings:    deps.Settings,
		Prompter:    deps.Prompter,
		NewProvider: deps.NewProvider,
	}))
	rootCmd.AddCommand(cmdProfile.NewProfileCommands(cmdProfile.Dependencies{
		Store:    deps.Store,
		Prompter: deps.Prompter,
	}))
	rootCmd.AddCommand(cmdExec.NewExecCmd(cmdExec.Dependencies{
		Store:       deps.Store,
		Tokens:      deps.Tokens,
		Roles:       deps.Roles,
		Settings:    deps.Settings,
		NewProvider: deps.NewProvider,
		Executor:    deps.Executor,
	}))
	rootCmd.AddCommand(cmdList.NewListCommands(cmdList.Dependencies{
		Store:       deps.Store,
		Tokens:      deps.Tokens,
		Roles:       deps.Roles,
		Settings:    deps.Settings,
		NewProvider: deps.NewProvider,
	}))
	return rootCmd
}
