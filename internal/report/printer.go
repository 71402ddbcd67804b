// Package report renders installer progress for humans and checks that the
// installed executable runs.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled progress lines. Progress goes to out, failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	st     styles
	errSt  styles
}

// NewPrinter creates a Printer. Colors are disabled automatically when the
// writers are not terminals.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		st:     newStyles(lipgloss.NewRenderer(out)),
		errSt:  newStyles(lipgloss.NewRenderer(errOut)),
	}
}

// Title prints a bold heading followed by a blank line.
func (p *Printer) Title(text string) {
	fmt.Fprintf(p.out, "%s\n\n", p.st.title.Render(text))
}

// Step announces the start of a pipeline stage.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.st.step.Render("→"), fmt.Sprintf(format, args...))
}

// Success prints a checkmarked line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "  %s %s\n", p.st.success.Render("✓"), fmt.Sprintf(format, args...))
}

// Warn prints a non-fatal problem. The run continues.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, "  %s %s\n", p.st.warning.Render("⚠"), fmt.Sprintf(format, args...))
}

// Detail prints a muted "key: value" line.
func (p *Printer) Detail(key string, value any) {
	fmt.Fprintf(p.out, "    %s\n", p.st.muted.Render(fmt.Sprintf("%s: %v", key, value)))
}

// Command prints an indented command the user may want to run.
func (p *Printer) Command(cmd string) {
	fmt.Fprintf(p.out, "    %s\n", p.st.cmd.Render(cmd))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Error prints a fatal error and optional hint lines to errOut.
func (p *Printer) Error(err error, hints ...string) {
	fmt.Fprintf(p.errOut, "%s %v\n", p.errSt.err.Render("✗ Error:"), err)
	for _, hint := range hints {
		fmt.Fprintf(p.errOut, "  %s\n", p.errSt.muted.Render(hint))
	}
}
