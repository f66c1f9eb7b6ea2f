package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/quizzler/deployctl/internal/certbot"
	"github.com/quizzler/deployctl/internal/config"
)

// Site contains the parameters substituted into the nginx site document.
type Site struct {
	Domain          string
	Webroot         string
	CertPath        string
	KeyPath         string
	BackendUpstream string
	FrontendOrigin  string
	WebSocketPath   string
}

// SiteFromConfig builds the template parameters for a deploy config. The
// certificate paths are derived from the domain the same way the issuance
// step derives them, which is the invariant that keeps the rendered config
// and the issued artifacts in agreement.
func SiteFromConfig(cfg *config.Config) Site {
	cert := certbot.Paths(cfg.Domain)
	return Site{
		Domain:          cfg.Domain,
		Webroot:         cfg.Webroot,
		CertPath:        cert.CertPath,
		KeyPath:         cert.KeyPath,
		BackendUpstream: cfg.BackendUpstream,
		FrontendOrigin:  cfg.FrontendOrigin,
		WebSocketPath:   cfg.WebSocketPath,
	}
}

// Render produces the nginx site document for the given site. The output
// is a pure function of the input: rendering the same site twice yields
// byte-identical documents.
func Render(site Site) (string, error) {
	content, err := siteTemplates.ReadFile("nginx/site.conf.tmpl")
	if err != nil {
		return "", fmt.Errorf("embedded template missing: %w", err)
	}

	tmpl, err := template.New("site").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, site); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
