// Package template renders the nginx site document that the provisioning
// pipeline writes after certificate acquisition.
//
// One embedded template, one output. The document encodes the whole HTTPS
// cutover surface:
//
//   - an HTTP listener that serves the ACME challenge directory unencrypted
//     and 301-redirects every other path to HTTPS
//   - an HTTPS listener loading the certbot-issued chain and key, limited to
//     TLSv1.2/1.3 with a restrictive cipher list
//   - hardening headers (deny framing, no MIME sniffing, long-duration HSTS)
//   - a websocket location with upgrade handling, day-long idle timeouts and
//     its own rate limit, and a catch-all location with short timeouts,
//     disabled response buffering and a stricter rate limit
//   - CORS for exactly one trusted frontend origin, with OPTIONS preflights
//     answered at the edge (204) and never forwarded to the backend
//
// Rendering is deterministic: the document is a pure function of the Site
// parameters, so repeated runs against the same config produce
// byte-identical output.
package template
