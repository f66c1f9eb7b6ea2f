// Package probe checks service reachability during and after the
// provisioning pipeline.
//
// The post-restart probe deliberately skips certificate chain verification:
// it answers "is the HTTPS listener up and serving the health path", not
// "is the chain trusted". Trust is the browser's problem; reachability is
// the pipeline's.
package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quizzler/deployctl/internal/logger"
)

// Prober performs HTTP(S) health checks.
type Prober struct {
	client *http.Client
}

// New creates a Prober with the given per-request timeout.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// Reachability check only; self-signed and staging
				// chains must not fail the probe.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
			// The HTTP listener redirects everything but the challenge
			// path; a redirect answer is itself the signal.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// NewWithClient creates a Prober around an existing client (for testing).
func NewWithClient(client *http.Client) *Prober {
	return &Prober{client: client}
}

// Probe performs a single GET against url. Any 2xx status is success.
func (p *Prober) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid probe url %s: %w", url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// Reachable performs a single GET against url and succeeds on any HTTP
// response at all. Used for listener readiness before the challenge run,
// where the handler may legitimately answer 404 or redirect.
func (p *Prober) Reachable(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid probe url %s: %w", url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	resp.Body.Close()
	return nil
}

// WaitReachable polls url until the listener answers anything, with the
// same backoff bounds as WaitReady.
func (p *Prober) WaitReachable(ctx context.Context, url string, interval, timeout time.Duration) error {
	return p.wait(ctx, url, interval, timeout, p.Reachable)
}

// WaitReady polls url until it answers successfully, backing off
// exponentially from interval and giving up after timeout. Replaces the
// fixed settle sleeps the procedure used to rely on.
func (p *Prober) WaitReady(ctx context.Context, url string, interval, timeout time.Duration) error {
	return p.wait(ctx, url, interval, timeout, p.Probe)
}

func (p *Prober) wait(ctx context.Context, url string, interval, timeout time.Duration, check func(context.Context, string) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = interval
	policy.MaxInterval = timeout / 4
	policy.MaxElapsedTime = timeout

	attempt := 0
	op := func() error {
		attempt++
		err := check(ctx, url)
		if err != nil {
			logger.Debug("readiness attempt %d: %v", attempt, err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("not ready after %s: %w", timeout, err)
	}
	return nil
}
