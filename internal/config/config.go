package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quizzler/deployctl/internal/errors"
)

// Config holds everything a provisioning run needs. It is loaded once,
// validated, and passed by value into the orchestrator; nothing mutates it
// after that.
type Config struct {
	// Domain is the fully-qualified hostname the certificate and the nginx
	// site document target.
	Domain string `yaml:"domain"`

	// Email is registered with Let's Encrypt for expiry notices.
	Email string `yaml:"email"`

	// FrontendOrigin is the single trusted origin for CORS.
	FrontendOrigin string `yaml:"frontend_origin"`

	// BackendUpstream is the host:port nginx proxies to.
	BackendUpstream string `yaml:"backend_upstream"`

	// WebSocketPath is the path prefix that gets upgrade-aware,
	// long-timeout handling.
	WebSocketPath string `yaml:"websocket_path"`

	// HealthPath is probed over HTTPS after the final restart.
	HealthPath string `yaml:"health_path"`

	// Webroot is the shared directory certbot serves HTTP-01 challenges from.
	Webroot string `yaml:"webroot"`

	// SitePath is where the rendered nginx site document is written.
	SitePath string `yaml:"site_path"`

	// ComposeFile locates the docker compose project.
	ComposeFile string `yaml:"compose_file"`

	// Services lists the managed process groups.
	Services Services `yaml:"services"`

	// ProxyService is the compose service running nginx, used for the
	// post-write syntax check.
	ProxyService string `yaml:"proxy_service"`

	// ForceRenewal makes the production run reissue even when a valid
	// certificate exists. Guarantees idempotent completion at the cost of
	// CA issuance quota.
	ForceRenewal bool `yaml:"force_renewal"`

	// SkipStaging skips the staging dry run. Off by default; the staging
	// run is what protects production rate limits on a broken setup.
	SkipStaging bool `yaml:"skip_staging"`

	// ReadyTimeoutSec bounds the readiness polling after each service start.
	ReadyTimeoutSec int `yaml:"ready_timeout_seconds"`

	// PollIntervalSec is the initial interval of the readiness backoff.
	PollIntervalSec int `yaml:"poll_interval_seconds"`
}

// Services names the compose services the orchestrator manages as a set.
type Services struct {
	// All is the full service set.
	All []string `yaml:"all"`

	// Validation is the subset that must run to answer the HTTP-01
	// challenge: the proxy and the backend it forwards health checks to.
	Validation []string `yaml:"validation"`
}

// New returns a Config with defaults mirroring the production Quizzler
// deployment.
func New() *Config {
	return &Config{
		Domain:          "quizzler-backend.adityatorgal.me",
		Email:           "admin@adityatorgal.me",
		FrontendOrigin:  "https://quizzler.adityatorgal.me",
		BackendUpstream: "backend:8000",
		WebSocketPath:   "/realtime/ws",
		HealthPath:      "/realtime/health",
		Webroot:         "/var/www/certbot",
		SitePath:        "/etc/nginx/conf.d/default.conf",
		ComposeFile:     "docker-compose.yml",
		Services: Services{
			All:        []string{"backend", "nginx"},
			Validation: []string{"backend", "nginx"},
		},
		ProxyService:    "nginx",
		ForceRenewal:    true,
		ReadyTimeoutSec: 60,
		PollIntervalSec: 2,
	}
}

// Load reads the config file at path. A missing file yields the defaults,
// so the zero-argument invocation works on a stock deployment.
func Load(path string) (*Config, error) {
	cfg := New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Step(errors.StepConfig, "failed to read config", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Step(errors.StepConfig, "failed to parse config", err)
	}

	return cfg, nil
}

// Save writes the config to disk. Used by `deployctl init`.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Step(errors.StepConfig, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Step(errors.StepConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Step(errors.StepConfig, "failed to write config", err)
	}

	return nil
}

// Validate checks the config for values that would make the pipeline fail
// halfway rather than up front.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return errors.Validation("domain cannot be empty")
	}
	if strings.Contains(c.Domain, " ") || strings.Contains(c.Domain, "/") {
		return errors.Validation(fmt.Sprintf("invalid domain: %s", c.Domain))
	}
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return errors.Validation(fmt.Sprintf("invalid contact email: %s", c.Email))
	}
	if _, err := url.Parse(c.FrontendOrigin); c.FrontendOrigin == "" || err != nil {
		return errors.Validation(fmt.Sprintf("invalid frontend origin: %s", c.FrontendOrigin))
	}
	if c.BackendUpstream == "" {
		return errors.Validation("backend upstream cannot be empty")
	}
	for name, p := range map[string]string{
		"webroot":   c.Webroot,
		"site_path": c.SitePath,
	} {
		if !filepath.IsAbs(p) {
			return errors.Validation(fmt.Sprintf("%s must be an absolute path: %s", name, p))
		}
	}
	for name, p := range map[string]string{
		"websocket_path": c.WebSocketPath,
		"health_path":    c.HealthPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return errors.Validation(fmt.Sprintf("%s must start with /: %s", name, p))
		}
	}
	if len(c.Services.All) == 0 || len(c.Services.Validation) == 0 {
		return errors.Validation("service sets cannot be empty")
	}
	if c.ReadyTimeoutSec <= 0 || c.PollIntervalSec <= 0 {
		return errors.Validation("readiness timeouts must be positive")
	}
	return nil
}

// BaseURL returns the externally reachable HTTPS base URL.
func (c *Config) BaseURL() string {
	return "https://" + c.Domain
}

// HealthURL returns the HTTPS health endpoint probed after restart.
func (c *Config) HealthURL() string {
	return c.BaseURL() + c.HealthPath
}

// WebSocketURL returns the externally reachable websocket endpoint.
func (c *Config) WebSocketURL() string {
	return "wss://" + c.Domain + c.WebSocketPath
}

// ChallengeURL returns the plain-HTTP base the validation subset must
// answer on before the staging run.
func (c *Config) ChallengeURL() string {
	return "http://" + c.Domain + "/.well-known/acme-challenge/"
}

// ReadyTimeout returns the readiness polling bound as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutSec) * time.Second
}

// PollInterval returns the initial readiness backoff interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}
