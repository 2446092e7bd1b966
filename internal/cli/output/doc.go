// Package output renders command results for hwdesk-cli.
//
// Formats:
//
//   - table: aligned columns, struct fields tagged table:"wide" hidden
//   - wide: table including the wide columns
//   - json: indented JSON
//   - yaml: YAML using the JSON field names
//
// Printer keeps data on stdout and routes notices so that json and yaml
// output stay machine-readable.
package output
