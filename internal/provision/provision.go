package provision

import (
	"context"
	"time"

	"github.com/quizzler/deployctl/internal/certbot"
	"github.com/quizzler/deployctl/internal/config"
	"github.com/quizzler/deployctl/internal/errors"
	"github.com/quizzler/deployctl/internal/logger"
	"github.com/quizzler/deployctl/internal/nginx"
	"github.com/quizzler/deployctl/internal/template"
)

// State is a position in the provisioning pipeline.
type State string

// Pipeline states in execution order, plus the absorbing failure state.
const (
	StateInit            State = "init"
	StateCertsStaging    State = "certs-staging"
	StateCertsProduction State = "certs-production"
	StateConfigWritten   State = "config-written"
	StateRestarted       State = "restarted"
	StateVerified        State = "verified"
	StateAborted         State = "aborted"
)

// CertClient obtains certificates for a domain. Implementations are opaque
// blocking commands; success is their exit status.
type CertClient interface {
	IssueStaging(ctx context.Context, domain, email, webroot string) (*certbot.Cert, error)
	IssueProduction(ctx context.Context, domain, email, webroot string, force bool) (*certbot.Cert, error)
}

// ServiceManager controls the deployment's process group as a coarse set.
type ServiceManager interface {
	StopAll(ctx context.Context) error
	Start(ctx context.Context, services ...string) error
	Exec(ctx context.Context, service string, cmd ...string) ([]byte, error)
}

// HealthProber checks listener readiness and endpoint health.
type HealthProber interface {
	WaitReachable(ctx context.Context, url string, interval, timeout time.Duration) error
	WaitReady(ctx context.Context, url string, interval, timeout time.Duration) error
}

// Result reports the externally reachable endpoints after a verified run.
type Result struct {
	Domain       string `json:"domain"`
	BaseURL      string `json:"base_url"`
	WebSocketURL string `json:"websocket_url"`
	HealthURL    string `json:"health_url"`
	CertPath     string `json:"cert_path"`
	KeyPath      string `json:"key_path"`
	State        State  `json:"state"`
}

// Orchestrator executes the provisioning pipeline: staged certificate
// acquisition, site document cutover, full restart, health verification.
// Strictly sequential and terminal on first failure.
type Orchestrator struct {
	cfg      *config.Config
	certs    CertClient
	services ServiceManager
	site     *nginx.SiteFile
	prober   HealthProber
	state    State

	// OnStep, when set, is called before each pipeline step with a
	// human-readable description. Used by the CLI for progress output.
	OnStep func(state State, msg string)
}

// New creates an Orchestrator. cfg must already be validated.
func New(cfg *config.Config, certs CertClient, services ServiceManager, site *nginx.SiteFile, prober HealthProber) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		certs:    certs,
		services: services,
		site:     site,
		prober:   prober,
		state:    StateInit,
	}
}

// State returns the pipeline's current position.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) step(next State, msg string) {
	o.state = next
	logger.InfoFields("pipeline step", map[string]interface{}{
		"step":   string(next),
		"domain": o.cfg.Domain,
	})
	if o.OnStep != nil {
		o.OnStep(next, msg)
	}
}

func (o *Orchestrator) abort(err error) error {
	o.state = StateAborted
	logger.LogError(err, "pipeline aborted")
	return err
}

// Run executes the whole pipeline. On failure after the site document was
// overwritten, the prior document is restored and the service set is
// restarted on it, so the deployment is left on its last-known-good
// configuration rather than a half-updated one.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	cfg := o.cfg

	// Certificate acquisition runs against the validation subset: just
	// enough services to answer the HTTP-01 challenge.
	o.step(StateCertsStaging, "stopping services and starting validation subset")
	if err := o.services.StopAll(ctx); err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepCertStaging, cfg.Domain, "failed to stop service set", err))
	}
	if err := o.services.Start(ctx, cfg.Services.Validation...); err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepCertStaging, cfg.Domain, "failed to start validation subset", err))
	}
	if err := o.prober.WaitReachable(ctx, cfg.ChallengeURL(), cfg.PollInterval(), cfg.ReadyTimeout()); err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepCertStaging, cfg.Domain, "validation subset never became reachable", err))
	}

	if cfg.SkipStaging {
		logger.Warn("skipping staging run for %s", cfg.Domain)
	} else {
		if _, err := o.certs.IssueStaging(ctx, cfg.Domain, cfg.Email, cfg.Webroot); err != nil {
			return nil, o.abort(errors.StepDomain(errors.StepCertStaging, cfg.Domain, "staging issuance failed", err))
		}
	}

	o.step(StateCertsProduction, "requesting production certificate")
	cert, err := o.certs.IssueProduction(ctx, cfg.Domain, cfg.Email, cfg.Webroot, cfg.ForceRenewal)
	if err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepCertProduction, cfg.Domain, "production issuance failed", err))
	}

	o.step(StateConfigWritten, "writing TLS site configuration")
	doc, err := template.Render(template.SiteFromConfig(cfg))
	if err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepConfigWrite, cfg.Domain, "failed to render site document", err))
	}
	snapshot, err := o.site.Snapshot()
	if err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepConfigWrite, cfg.Domain, "failed to snapshot prior site document", err))
	}
	if err := o.site.Write(doc); err != nil {
		return nil, o.abort(errors.StepDomain(errors.StepConfigWrite, cfg.Domain, "failed to write site document", err))
	}
	if err := o.checkSyntax(ctx); err != nil {
		o.rollback(ctx, snapshot)
		return nil, o.abort(errors.StepDomain(errors.StepConfigWrite, cfg.Domain, "site document failed syntax check", err))
	}

	o.step(StateRestarted, "restarting full service set")
	if err := o.restartAll(ctx); err != nil {
		o.rollback(ctx, snapshot)
		return nil, o.abort(errors.StepDomain(errors.StepRestart, cfg.Domain, "failed to restart service set", err))
	}

	o.step(StateVerified, "verifying HTTPS health endpoint")
	if err := o.prober.WaitReady(ctx, cfg.HealthURL(), cfg.PollInterval(), cfg.ReadyTimeout()); err != nil {
		o.rollback(ctx, snapshot)
		return nil, o.abort(errors.StepDomain(errors.StepVerify, cfg.Domain, "health endpoint never became healthy", err))
	}

	return &Result{
		Domain:       cfg.Domain,
		BaseURL:      cfg.BaseURL(),
		WebSocketURL: cfg.WebSocketURL(),
		HealthURL:    cfg.HealthURL(),
		CertPath:     cert.CertPath,
		KeyPath:      cert.KeyPath,
		State:        o.state,
	}, nil
}

// checkSyntax validates the freshly written document with nginx itself,
// inside the proxy container. Skipped when no proxy service is configured.
func (o *Orchestrator) checkSyntax(ctx context.Context) error {
	if o.cfg.ProxyService == "" {
		return nil
	}
	output, err := o.services.Exec(ctx, o.cfg.ProxyService, "nginx", "-t")
	if err != nil {
		logger.Error("nginx -t: %s", string(output))
		return err
	}
	return nil
}

func (o *Orchestrator) restartAll(ctx context.Context) error {
	if err := o.services.StopAll(ctx); err != nil {
		return err
	}
	return o.services.Start(ctx, o.cfg.Services.All...)
}

// rollback restores the snapshotted site document and restarts the
// service set on it. Best effort: failures are logged, not returned, since
// the pipeline is already aborting with the original error.
func (o *Orchestrator) rollback(ctx context.Context, snapshot *nginx.Snapshot) {
	logger.Warn("rolling back site document for %s", o.cfg.Domain)
	if err := snapshot.Restore(); err != nil {
		logger.LogError(err, "rollback: restore failed")
		return
	}
	if err := o.restartAll(ctx); err != nil {
		logger.LogError(err, "rollback: restart on prior config failed")
	}
}

// certbotClient adapts the certbot package to the CertClient interface.
type certbotClient struct{}

// NewCertbotClient returns the production CertClient backed by the
// certbot CLI.
func NewCertbotClient() CertClient {
	return certbotClient{}
}

func (certbotClient) IssueStaging(ctx context.Context, domain, email, webroot string) (*certbot.Cert, error) {
	return certbot.IssueStaging(ctx, domain, email, webroot)
}

func (certbotClient) IssueProduction(ctx context.Context, domain, email, webroot string, force bool) (*certbot.Cert, error) {
	return certbot.IssueProduction(ctx, domain, email, webroot, force)
}
