package connection

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandPath replaces every {name} in path with the percent-encoded
// value of params[name]. A placeholder without a value is an error.
func ExpandPath(path string, params map[string]string) (string, error) {
	var missing []string
	expanded := placeholderRE.ReplaceAllStringFunc(path, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("connection: missing path parameter(s) %s in %q", strings.Join(missing, ", "), path)
	}
	return expanded, nil
}

// hasScheme reports whether p is already an absolute URL.
func hasScheme(p string) bool {
	i := strings.Index(p, "://")
	return i > 0 && !strings.ContainsAny(p[:i], "/?#")
}

// joinURL joins an expanded path to base unless it is already absolute.
func joinURL(base, p string) string {
	if hasScheme(p) {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// normalizeBaseURL defaults the scheme to http and validates the result.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("connection: base URL is empty")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("connection: invalid base URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("connection: base URL %q has no host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// pathTemplate strips the query string, leaving a low-cardinality label.
func pathTemplate(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		return p[:i]
	}
	return p
}
