// Package provision implements the HTTPS cutover pipeline.
//
// The pipeline is a linear state machine with no branching loops:
//
//	Init → CertsStaging → CertsProduction → ConfigWritten → Restarted → Verified
//
// with Aborted absorbing from every non-terminal state. Each step's failure
// is fatal to the whole run; nothing is retried across steps and nothing is
// downgraded to a warning. The one concession to recoverability is the site
// document rollback: once the nginx configuration has been overwritten, any
// later failure restores the prior document and restarts the service set on
// it.
//
// The orchestrator never touches external tools directly. Certificates,
// services and probes arrive as interfaces, so the whole machine runs under
// test with fakes while production wires in certbot, docker compose and the
// HTTPS prober.
package provision
