// Package httpd is the underlying HTTP server driven by the hal facade.
// It serves a flat route table with exact URI+method matching where the
// first-registered route wins, enforces a handler-count limit, and
// provides the canonical error responders used across the API.
//
// Routes can only be registered against a running server; buffering of
// registrations made before startup is the facade's job, not this
// package's.
package httpd
