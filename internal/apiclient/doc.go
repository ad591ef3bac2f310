// Package apiclient provides the fetch-and-decode primitive shared by the
// agentboard poller and action client.
//
// This package is internal to agentboard and handles every request made to
// the platform's admin API. It encodes JSON request bodies, attaches the
// configured headers plus a per-request X-Request-ID, enforces a response
// size limit and decodes JSON responses with number preservation.
//
// All failures to obtain a well-formed JSON body (network errors, non-2xx
// status codes, empty or malformed bodies) are reported as errors wrapping
// [ErrTransport]. Whether a well-formed body signals success is decided by
// the caller.
package apiclient
