package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// prompter asks the user for input. Prompts go to stderr so stdout
// stays clean for json and yaml output.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	tty *os.File
}

func newPrompter(c *cli.Context) *prompter {
	st := stateOf(c)
	return &prompter{
		in:  bufio.NewReader(st.opts.Stdin),
		out: st.opts.Stderr,
		tty: st.opts.terminal,
	}
}

// Line reads one line. It returns io.EOF only when nothing was typed.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads a line without echo when stdin is a terminal.
func (p *prompter) Secret(label string) (string, error) {
	if p.tty == nil {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(int(p.tty.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
