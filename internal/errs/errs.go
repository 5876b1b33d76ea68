// Package errs defines the error types returned by every layer of the API.
//
// Repositories and services return *HTTPError values that already carry the
// status code, a machine-readable code and a human message. The global error
// handler is the only place that turns them into a response, so handlers
// never recover from errors themselves.
package errs
