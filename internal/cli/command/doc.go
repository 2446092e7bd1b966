// Package command provides the CLI command definitions for hwdesk-cli.
//
// This package defines all commands using urfave/cli/v2:
//
//   - root.go: application, global flags, config overrides
//   - runtime.go: lazy wiring of config, logger, store, transport and auth
//   - auth.go: login, logout, whoami
//   - session.go: active session list and revoke
//   - roster.go: teacher, student and group administration
//   - homework.go: homework management and the language table
//   - submission.go: submissions and grades
//   - leaderboard.go, dashboard.go: rankings and role summaries
//   - grading.go: the AI grading sandbox
//   - system.go, config.go: server health and local configuration
//   - shell.go: interactive mode
//
// Commands parse their flags, call the api or auth package and hand the
// result to an output.Printer. Errors are returned unchanged; Run turns
// them into short messages with Humanize.
package command
