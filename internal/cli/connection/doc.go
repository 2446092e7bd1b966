// Package connection is the transport layer between hwdesk-cli and the
// Homework Management System REST API.
//
//   - client.go: Client, configuration, bearer token handling
//   - http.go: request execution and the bounded retry loop
//   - url.go: path placeholder substitution and URL joining
//   - response.go: classification of HTTP responses
//   - errors.go: the APIError taxonomy
//   - conflict.go: payload of a session-cap (409) rejection
//
// Only transport failures (timeouts, refused connections) are retried.
// Any HTTP status the server answers with is final.
package connection
