// Package logger provides structured logging for hwdesk.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, levels and the process default
//   - file.go: size-rotated log files (lumberjack)
//   - redact.go: masking of passwords, bearer tokens and JWTs
//   - context.go: request-scoped loggers carrying a request id
//
// The CLI writes diagnostics to stderr at warn level by default so they
// never interleave with command output on stdout.
package logger
