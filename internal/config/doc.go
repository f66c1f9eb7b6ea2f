// Package config defines the deploy configuration for deployctl.
//
// The configuration is a YAML file describing one domain's HTTPS cutover:
// the certificate subject and contact, the nginx site parameters, the
// docker compose service sets, and the readiness timeouts. Loaded once at
// command start, validated, then treated as immutable for the run.
//
// # File Location
//
// The default location is ./deploy.yaml, overridable with --config. A
// missing file is not an error: the defaults reproduce the production
// Quizzler deployment, preserving the original zero-argument invocation.
//
// # Example
//
//	domain: quizzler-backend.adityatorgal.me
//	email: admin@adityatorgal.me
//	frontend_origin: https://quizzler.adityatorgal.me
//	backend_upstream: backend:8000
//	websocket_path: /realtime/ws
//	health_path: /realtime/health
//	webroot: /var/www/certbot
//	site_path: /etc/nginx/conf.d/default.conf
//	compose_file: docker-compose.yml
//	proxy_service: nginx
//	services:
//	  all: [backend, nginx]
//	  validation: [backend, nginx]
//	force_renewal: true
//	ready_timeout_seconds: 60
//	poll_interval_seconds: 2
package config
