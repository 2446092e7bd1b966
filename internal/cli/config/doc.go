// Package config holds the hwdesk-cli configuration (~/.hwdesk/cli.yaml).
//
// Values are layered by confloader: defaults, the YAML file, HWDESK_*
// environment variables, then command-line flags.
package config
