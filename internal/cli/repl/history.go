package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultHistorySize is the number of lines kept.
const DefaultHistorySize = 1000

// History manages command history for the REPL.
type History struct {
	fs      afero.Fs
	file    string
	entries []string
	maxSize int
}

// NewHistory creates a History stored at file on fsys. An empty file
// keeps history in memory only.
func NewHistory(fsys afero.Fs, file string) *History {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &History{
		fs:      fsys,
		file:    file,
		entries: make([]string, 0),
		maxSize: DefaultHistorySize,
	}
}

// Add records a command. Repeats of the previous line and lines that
// contain a password are skipped.
func (h *History) Add(cmd string) {
	if cmd == "" || containsSecret(cmd) {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the history entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Entries returns all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load reads history from the file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	f, err := h.fs.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes history to the file with owner-only permissions.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := h.fs.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}
	return afero.WriteFile(h.fs, h.file, []byte(strings.Join(h.entries, "\n")+"\n"), 0600)
}

func containsSecret(line string) bool {
	for _, w := range strings.Fields(line) {
		name, _, _ := strings.Cut(w, "=")
		if name == "-p" || name == "--password" || name == "-password" {
			return true
		}
	}
	return false
}
