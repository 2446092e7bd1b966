// Package tlsroots builds the TLS client configuration used to reach
// API servers behind a private CA (api.ca_file).
package tlsroots
