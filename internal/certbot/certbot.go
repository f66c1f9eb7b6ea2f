package certbot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quizzler/deployctl/internal/errors"
	"github.com/quizzler/deployctl/internal/executor"
)

// Cert identifies an issued certificate by its on-disk artifacts.
type Cert struct {
	Domain   string `json:"domain"`
	CertPath string `json:"cert_path"`
	KeyPath  string `json:"key_path"`
}

// letsencryptDir is the base directory for Let's Encrypt certificates
const letsencryptDir = "/etc/letsencrypt/live"

// cmdExecutor is the command executor (can be replaced for testing)
var cmdExecutor executor.CommandExecutor = executor.NewSystemExecutor()

// SetExecutor allows tests to inject a mock executor
func SetExecutor(exec executor.CommandExecutor) {
	cmdExecutor = exec
}

// ResetExecutor resets the executor to the default system executor
func ResetExecutor() {
	cmdExecutor = executor.NewSystemExecutor()
}

// IsInstalled checks if certbot is installed
func IsInstalled() bool {
	_, err := cmdExecutor.LookPath("certbot")
	return err == nil
}

// runCertbot executes certbot with the given arguments
func runCertbot(ctx context.Context, args []string) error {
	if !IsInstalled() {
		return errors.ErrCertbotNotInstalled
	}

	output, err := cmdExecutor.ExecuteContext(ctx, "certbot", args...)
	if err != nil {
		return fmt.Errorf("certbot failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Paths returns the conventional certificate paths for a domain. The nginx
// site template must reference exactly these paths; a mismatch is a silent
// failure discoverable only at proxy start.
func Paths(domain string) *Cert {
	return &Cert{
		Domain:   domain,
		CertPath: filepath.Join(letsencryptDir, domain, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptDir, domain, "privkey.pem"),
	}
}

// webrootArgs builds the shared HTTP-01 webroot argument list.
func webrootArgs(domain, email, webroot string) []string {
	return []string{
		"certonly",
		"--webroot",
		"-w", webroot,
		"-d", domain,
		"--email", email,
		"--agree-tos",
		"--non-interactive",
	}
}

// IssueStaging requests a certificate from the staging CA. The result is
// not trusted by clients; the run exists to validate the challenge path
// without consuming production rate limits.
func IssueStaging(ctx context.Context, domain, email, webroot string) (*Cert, error) {
	args := append(webrootArgs(domain, email, webroot), "--staging")

	if err := runCertbot(ctx, args); err != nil {
		return nil, err
	}

	return Paths(domain), nil
}

// IssueProduction requests a production-trust certificate for the domain.
// With force set, certbot reissues even when a non-expired certificate
// already exists, so a rerun of the whole procedure always completes.
func IssueProduction(ctx context.Context, domain, email, webroot string, force bool) (*Cert, error) {
	args := webrootArgs(domain, email, webroot)
	if force {
		args = append(args, "--force-renewal")
	}

	if err := runCertbot(ctx, args); err != nil {
		return nil, err
	}

	return Paths(domain), nil
}

// Renew renews a specific certificate out of band.
func Renew(ctx context.Context, domain string) error {
	args := []string{
		"renew",
		"--cert-name", domain,
		"--non-interactive",
	}
	return runCertbot(ctx, args)
}

// List returns all certbot-managed certificate names.
func List(ctx context.Context) ([]string, error) {
	if !IsInstalled() {
		return nil, errors.ErrCertbotNotInstalled
	}

	output, err := cmdExecutor.ExecuteContext(ctx, "certbot", "certificates")
	if err != nil {
		return nil, fmt.Errorf("certbot certificates failed: %s", string(output))
	}

	// Parse output to extract domain names
	var domains []string
	lines := strings.Split(string(output), "\n")
	for _, line := range lines {
		if strings.Contains(line, "Certificate Name:") {
			parts := strings.Split(line, ":")
			if len(parts) >= 2 {
				domains = append(domains, strings.TrimSpace(parts[1]))
			}
		}
	}

	return domains, nil
}
