package cli

import (
	"context"
	"os"

	"github.com/quizzler/deployctl/internal/certbot"
	"github.com/quizzler/deployctl/internal/output"
	"github.com/spf13/cobra"
)

var (
	certsStaging bool
	certsForce   bool
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Manage Let's Encrypt certificates",
	Long:  `Issue and inspect Let's Encrypt certificates for the configured domain.`,
}

var certsIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a certificate for the configured domain",
	Long: `Issue a certificate via webroot validation, without running the rest
of the provisioning pipeline.

The webroot must already be served on port 80 for the domain so that the
HTTP-01 challenge can be answered. Use --staging to run against the
Let's Encrypt staging environment.

Examples:
  deployctl certs issue --staging
  deployctl certs issue --force`,
	RunE: runCertsIssue,
}

var certsRenewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew the configured domain's certificate",
	Long: `Renew the certificate for the configured domain if it is close to
expiry. A no-op when the certificate is still fresh.

Examples:
  deployctl certs renew`,
	RunE: runCertsRenew,
}

var certsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show managed certificates",
	Long: `List the certificates certbot manages on this host and whether the
configured domain's certificate files are present.

Examples:
  deployctl certs status
  deployctl certs status --json`,
	RunE: runCertsStatus,
}

func init() {
	rootCmd.AddCommand(certsCmd)
	certsCmd.AddCommand(certsIssueCmd)
	certsCmd.AddCommand(certsRenewCmd)
	certsCmd.AddCommand(certsStatusCmd)

	certsIssueCmd.Flags().BoolVar(&certsStaging, "staging", false, "Issue against the Let's Encrypt staging environment")
	certsIssueCmd.Flags().BoolVar(&certsForce, "force", false, "Force renewal even if a certificate already exists")
}

func runCertsIssue(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var cert *certbot.Cert
	if certsStaging {
		cert, err = certbot.IssueStaging(ctx, cfg.Domain, cfg.Email, cfg.Webroot)
	} else {
		cert, err = certbot.IssueProduction(ctx, cfg.Domain, cfg.Email, cfg.Webroot, certsForce)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(cert)
	}
	output.Success("Issued certificate for %s", cert.Domain)
	output.Print("  Cert: %s", cert.CertPath)
	output.Print("  Key:  %s", cert.KeyPath)
	return nil
}

func runCertsRenew(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}

	if err := certbot.Renew(context.Background(), cfg.Domain); err != nil {
		return err
	}
	output.Success("Renewal completed for %s", cfg.Domain)
	return nil
}

type certStatusReport struct {
	Domain     string   `json:"domain"`
	CertPath   string   `json:"cert_path"`
	KeyPath    string   `json:"key_path"`
	FilesExist bool     `json:"files_exist"`
	Managed    []string `json:"managed"`
}

func runCertsStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}

	names, err := certbot.List(context.Background())
	if err != nil {
		return err
	}

	paths := certbot.Paths(cfg.Domain)
	report := certStatusReport{
		Domain:     cfg.Domain,
		CertPath:   paths.CertPath,
		KeyPath:    paths.KeyPath,
		FilesExist: fileExists(paths.CertPath) && fileExists(paths.KeyPath),
		Managed:    names,
	}

	if jsonOutput {
		return output.JSON(report)
	}

	if report.FilesExist {
		output.Success("Certificate files present for %s", report.Domain)
	} else {
		output.Warn("Certificate files missing for %s", report.Domain)
	}
	output.Print("  Cert: %s", report.CertPath)
	output.Print("  Key:  %s", report.KeyPath)

	if len(names) == 0 {
		output.Info("No certificates managed by certbot")
		return nil
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	output.Print("")
	output.Table([]string{"Certificate"}, rows)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
