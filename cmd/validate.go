package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inercia/shellfront/pkg/command"
	"github.com/inercia/shellfront/pkg/common"
)

// validateCommand checks the configuration file
var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file without starting the shell.
This command checks the configuration for errors including:
- File format
- Prompt template syntax
- Color mode and runner type (exec, firejail, sandbox-exec)
- Guard expression syntax
- Runner requirements (firejail or sandbox-exec installed)`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.GetLogger()
		defer common.RecoverPanic()

		cfg := getConfig()
		if appConfigPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No configuration file found, validating built-in defaults")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Validating configuration file: %s\n", appConfigPath)
		}

		if err := cfg.Validate(); err != nil {
			logger.Error("Configuration validation failed: %v", err)
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		runner, err := command.NewRunner(command.RunnerType(cfg.Run.Runner), command.RunnerOptions(cfg.Run.Options), logger)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := runner.CheckImplicitRequirements(); err != nil {
			return fmt.Errorf("runner '%s' cannot be used: %w", cfg.Run.Runner, err)
		}

		if len(cfg.Guards) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Validated %d guard(s)\n", len(cfg.Guards))
		}

		logger.Info("Configuration validation successful")
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration validation successful")
		return nil
	},
}

// init adds the validate command to the root command
func init() {
	rootCmd.AddCommand(validateCommand)
}
