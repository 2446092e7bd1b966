package repl

import (
	"sort"
	"strings"
)

// Completer suggests commands for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given command paths
// ("homework", "homework list", ...). The shell builtins are always
// included.
func NewCompleter(commands []string) *Completer {
	seen := make(map[string]bool)
	var all []string
	for _, c := range append(append([]string{}, commands...), builtins...) {
		if c = strings.TrimSpace(c); c != "" && !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns completion suggestions for the given prefix in
// sorted order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
