package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quizzler/deployctl/internal/certbot"
	"github.com/quizzler/deployctl/internal/compose"
	"github.com/quizzler/deployctl/internal/config"
	"github.com/quizzler/deployctl/internal/output"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and deploy configuration.

Checks:
  - Docker and docker compose availability
  - Certbot installation
  - Deploy configuration validity
  - Certificate files for the configured domain
  - Service status

Examples:
  deployctl doctor
  deployctl doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Services           []CheckResult `json:"services"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements()

	cfg, cfgChecks := checkConfiguration()
	report.Configuration = cfgChecks

	if cfg != nil {
		report.Services = checkServices(cfg)
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkSystemRequirements() []CheckResult {
	results := []CheckResult{}

	if _, err := compose.New(""); err == nil {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "Docker compose available",
		})
	} else {
		results = append(results, CheckResult{
			Status:  "error",
			Message: "Docker compose not available",
		})
	}

	if certbot.IsInstalled() {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "Certbot installed",
		})
	} else {
		results = append(results, CheckResult{
			Status:  "error",
			Message: "Certbot not installed",
		})
	}

	return results
}

func checkConfiguration() (*config.Config, []CheckResult) {
	results := []CheckResult{}

	cfg, err := config.Load(configPath)
	if err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Config unreadable: %v", err),
		})
		return nil, results
	}

	if err := cfg.Validate(); err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Config invalid: %v", err),
		})
		return nil, results
	}
	results = append(results, CheckResult{
		Status:  "success",
		Message: fmt.Sprintf("Config valid (domain %s)", cfg.Domain),
	})

	if _, err := os.Stat(cfg.ComposeFile); err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Compose file missing: %s", cfg.ComposeFile),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Compose file present: %s", cfg.ComposeFile),
		})
	}

	if _, err := os.Stat(cfg.SitePath); err != nil {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("Site configuration not yet written: %s", cfg.SitePath),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Site configuration present: %s", cfg.SitePath),
		})
	}

	paths := certbot.Paths(cfg.Domain)
	if fileExists(paths.CertPath) && fileExists(paths.KeyPath) {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Certificate files present for %s", cfg.Domain),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("Certificate files missing for %s (run provision)", cfg.Domain),
		})
	}

	return cfg, results
}

func checkServices(cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	mgr, err := compose.New(cfg.ComposeFile)
	if err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Cannot query services: %v", err),
		})
		return results
	}

	running, err := mgr.Running(context.Background())
	if err != nil {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("Cannot list running services: %v", err),
		})
		return results
	}

	up := make(map[string]bool, len(running))
	for _, name := range running {
		up[name] = true
	}
	for _, service := range cfg.Services.All {
		if up[service] {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("Service %s running", service),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("Service %s not running", service),
			})
		}
	}

	return results
}

func displayDoctorResults(report *DoctorReport) {
	sections := []struct {
		title  string
		checks []CheckResult
	}{
		{"System Requirements", report.SystemRequirements},
		{"Configuration", report.Configuration},
		{"Services", report.Services},
	}

	for _, section := range sections {
		if len(section.checks) == 0 {
			continue
		}
		output.Print("%s", section.title)
		output.Print("%s", strings.Repeat("-", len(section.title)))
		for _, check := range section.checks {
			switch check.Status {
			case "success":
				output.Success("%s", check.Message)
			case "warning":
				output.Warn("%s", check.Message)
			default:
				output.Error("%s", check.Message)
			}
		}
		output.Print("")
	}
}
