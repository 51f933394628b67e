// Package health provides liveness and readiness HTTP handlers.
//
// Readiness runs named [CheckFunc] closures in parallel under a shared
// timeout; any failure turns the probe into 503. Clients asking for JSON
// (Accept: application/json or ?format=json) receive a per-check report:
//
//	{"status":"unhealthy","checks":{"postgres":{"status":"healthy"},"redis":{"status":"unhealthy","error":"..."}}}
package health
