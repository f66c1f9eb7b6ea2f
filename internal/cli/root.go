package cli

import (
	"os"

	"github.com/quizzler/deployctl/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deployctl",
	Short: "HTTPS provisioning for the Quizzler backend",
	Long: `deployctl automates the HTTPS cutover for a single-domain deployment.

It obtains a Let's Encrypt certificate (staging dry run first, then a forced
production issuance), rewrites the nginx site configuration for TLS, restarts
the docker compose service set, and verifies the health endpoint over HTTPS.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "deploy.yaml", "Path to the deploy configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
