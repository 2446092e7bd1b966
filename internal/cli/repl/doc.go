// Package repl implements the interactive shell of hwdesk-cli.
//
// Each input line is split into words (quotes and backslash escapes
// are honored) and passed to an Executor, normally the urfave/cli app.
// History persists through an afero filesystem. Lines that carry a
// password are never recorded.
package repl
