package cli

import (
	"fmt"
	"os"

	"github.com/quizzler/deployctl/internal/config"
	"github.com/quizzler/deployctl/internal/output"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter deploy configuration",
	Long: `Write a deploy configuration with default values to the --config path.

Edit the generated file to match your deployment before running provision.

Examples:
  deployctl init
  deployctl init --config /opt/quizzler/deploy.yaml`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
	}

	cfg := config.New()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	output.Success("Wrote %s", configPath)
	output.Info("Edit it to match your deployment, then run: deployctl provision")
	return nil
}
