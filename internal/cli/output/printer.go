package output

import (
	"fmt"
	"io"
)

// Printer writes command results and notices.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
}

// NewPrinter creates a Printer.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	return &Printer{Out: out, Err: errOut, Format: format}
}

// Print renders data in the configured format.
func (p *Printer) Print(data any) error {
	return NewFormatter(p.Format, false).Format(p.Out, data)
}

// PrintTable renders t for table formats and data otherwise.
func (p *Printer) PrintTable(t *Table, data any) error {
	if p.Format.Machine() {
		return p.Print(data)
	}
	return t.Render(p.Out)
}

// Noticef writes a status line. It goes to stderr for json and yaml so
// stdout stays parseable.
func (p *Printer) Noticef(format string, args ...any) {
	w := p.Out
	if p.Format.Machine() {
		w = p.Err
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Warnf writes a warning to stderr.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.Err, "warning: "+format+"\n", args...)
}
