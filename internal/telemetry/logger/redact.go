package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose string values are always fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"credential",
	"authorization",
	"cookie",
	"bearer",
}

const bearerPrefix = "Bearer "

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		if IsSensitiveKey(a.Key) {
			if strVal != "" {
				return slog.String(a.Key, redactedValue)
			}
			return a
		}

		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, RedactString(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue keeps the first and last 3 characters of body.
func maskValue(prefix, body string) string {
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks bearer headers and JWTs, returning other values unchanged.
func RedactString(value string) string {
	if strings.HasPrefix(value, bearerPrefix) {
		return maskValue(bearerPrefix, value[len(bearerPrefix):])
	}
	if looksLikeJWT(value) {
		return maskValue("", value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to be a credential.
func IsSensitiveValue(value string) bool {
	return strings.HasPrefix(value, bearerPrefix) || looksLikeJWT(value)
}

// looksLikeJWT matches three base64url segments with a JSON header ("eyJ").
func looksLikeJWT(s string) bool {
	return strings.HasPrefix(s, "eyJ") && strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \t\n")
}
