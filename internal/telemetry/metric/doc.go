// Package metric provides Prometheus metrics for the hwdesk client.
//
// A CLI process is short-lived, so metrics are not served over HTTP.
// When metrics.textfile is configured they are written on exit in the
// node_exporter textfile format.
package metric
