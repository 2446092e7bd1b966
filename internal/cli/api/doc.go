// Package api is a typed client for the homework REST endpoints. Every
// call goes through connection.Client.Request, so retries, the error
// taxonomy and 401 handling are shared.
//
// Inputs are validated locally before anything is sent.
package api
