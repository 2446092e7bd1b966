// Package confloader layers configuration sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Defaults
//
// Environment names map to keys by splitting the section at the first
// underscore: HWDESK_API_BASE_URL becomes api.base_url.
package confloader
