package cli

import (
	"context"
	"time"

	"github.com/quizzler/deployctl/internal/nginx"
	"github.com/quizzler/deployctl/internal/output"
	"github.com/quizzler/deployctl/internal/probe"
	"github.com/quizzler/deployctl/internal/provision"
	"github.com/spf13/cobra"
)

var (
	provisionYes         bool
	provisionSkipStaging bool
	provisionNoForce     bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Run the full HTTPS cutover pipeline",
	Long: `Provision TLS for the configured domain and cut the deployment over
to HTTPS.

The pipeline stops the service set, starts the validation subset, obtains a
staging certificate as a dry run, obtains the production certificate, rewrites
the nginx site configuration for TLS, restarts everything, and verifies the
health endpoint over HTTPS. If anything fails after the site configuration was
rewritten, the previous configuration is restored.

This stops and restarts the deployment's services. Run it during a
maintenance window.

Examples:
  deployctl provision
  deployctl provision --yes --skip-staging
  deployctl provision --json`,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.Flags().BoolVarP(&provisionYes, "yes", "y", false, "Skip the confirmation prompt")
	provisionCmd.Flags().BoolVar(&provisionSkipStaging, "skip-staging", false, "Skip the staging (dry run) issuance")
	provisionCmd.Flags().BoolVar(&provisionNoForce, "no-force", false, "Do not force renewal if a certificate already exists")
}

func runProvision(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}
	if provisionSkipStaging {
		cfg.SkipStaging = true
	}
	if provisionNoForce {
		cfg.ForceRenewal = false
	}

	if !provisionYes && !jsonOutput {
		output.Info("Domain:   %s", cfg.Domain)
		output.Info("Site:     %s", cfg.SitePath)
		output.Info("Services: %v", cfg.Services.All)
		if !confirmProceed("This will stop and restart all services. Continue?") {
			output.Print("Aborted.")
			return nil
		}
	}

	services, err := newServiceManager(cfg)
	if err != nil {
		return err
	}

	orch := provision.New(
		cfg,
		provision.NewCertbotClient(),
		services,
		nginx.NewSiteFile(cfg.SitePath),
		probe.New(10*time.Second),
	)

	if !jsonOutput {
		stepNum := 0
		orch.OnStep = func(state provision.State, msg string) {
			stepNum++
			output.Step("[%d] %s", stepNum, msg)
		}
	}

	result, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(result)
	}

	output.Success("Deployment is live at %s", result.BaseURL)
	output.Print("")
	output.Print("  Health:    %s", result.HealthURL)
	output.Print("  WebSocket: %s", result.WebSocketURL)
	output.Print("  Cert:      %s", result.CertPath)
	output.Print("  Key:       %s", result.KeyPath)
	return nil
}
