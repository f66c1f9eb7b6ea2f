package cli

import (
	"context"
	"time"

	"github.com/quizzler/deployctl/internal/output"
	"github.com/quizzler/deployctl/internal/probe"
	"github.com/spf13/cobra"
)

var verifyWait bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the HTTPS health endpoint",
	Long: `Probe the deployment's health endpoint over HTTPS.

A single probe is made by default. With --wait the probe is retried with
backoff until the endpoint answers with a 2xx status or the configured
ready timeout elapses.

Examples:
  deployctl verify
  deployctl verify --wait
  deployctl verify --json`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyWait, "wait", false, "Retry until healthy or the ready timeout elapses")
}

type verifyReport struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	p := probe.New(10 * time.Second)
	url := cfg.HealthURL()

	var probeErr error
	if verifyWait {
		probeErr = p.WaitReady(ctx, url, cfg.PollInterval(), cfg.ReadyTimeout())
	} else {
		probeErr = p.Probe(ctx, url)
	}

	if jsonOutput {
		report := verifyReport{URL: url, Healthy: probeErr == nil}
		if probeErr != nil {
			report.Error = probeErr.Error()
		}
		if err := output.JSON(report); err != nil {
			return err
		}
		return probeErr
	}

	if probeErr != nil {
		output.Error("Health check failed for %s: %v", url, probeErr)
		return probeErr
	}
	output.Success("Healthy: %s", url)
	return nil
}
