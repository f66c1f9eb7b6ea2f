// Package certbot wraps the Certbot CLI for the staged certificate
// acquisition the provisioning pipeline performs.
//
// The pipeline calls Certbot twice for the same domain and webroot: first
// against the Let's Encrypt staging CA to validate the whole HTTP-01
// challenge path, then against production with forced renewal. Both calls
// are opaque blocking commands whose only success signal is the exit
// status; this package never parses certificate material.
//
// # Certificate Paths
//
// Certbot stores issued artifacts in its standard per-domain layout:
//
//	/etc/letsencrypt/live/{domain}/fullchain.pem
//	/etc/letsencrypt/live/{domain}/privkey.pem
//
// Paths() derives these deterministically from the domain. The nginx site
// template consumes the same derivation, which is what keeps the issuance
// step and the proxy configuration pointing at the same files.
//
// # Testing
//
// The package uses a global executor that can be replaced for testing:
//
//	mockExec := &executor.MockExecutor{}
//	certbot.SetExecutor(mockExec)
//	defer certbot.ResetExecutor()
package certbot
