package printer

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Printer writes the human readable status lines of a run.
type Printer struct {
	out         io.Writer
	interactive bool
}

// New returns a printer writing to out. When interactive is false, styling
// is disabled and long running steps print a single line instead of a
// spinner.
func New(out io.Writer, interactive bool) *Printer {
	if !interactive {
		pterm.DisableStyling()
	}
	return &Printer{
		out:         out,
		interactive: interactive,
	}
}

func (p *Printer) Success(format string, a ...interface{}) {
	fmt.Fprintln(p.out, pterm.Success.Sprintf(format, a...))
}

func (p *Printer) Failure(format string, a ...interface{}) {
	fmt.Fprintln(p.out, pterm.Error.Sprintf(format, a...))
}

func (p *Printer) Info(format string, a ...interface{}) {
	fmt.Fprintln(p.out, pterm.Info.Sprintf(format, a...))
}

// Detail prints an indented continuation line under the previous status.
func (p *Printer) Detail(format string, a ...interface{}) {
	fmt.Fprintf(p.out, "   "+format+"\n", a...)
}

// Raw prints text as is, e.g. a response body.
func (p *Printer) Raw(text string) {
	fmt.Fprintln(p.out, text)
}

type Step interface {
	Success(text string)
	Fail(text string)
}

// Start begins a long running step.
func (p *Printer) Start(text string) Step {
	if p.interactive {
		spinner, err := pterm.DefaultSpinner.Start(text)
		if err == nil {
			return &spinnerStep{spinner: spinner}
		}
	}
	p.Info("%s", text)
	return &lineStep{printer: p}
}

type spinnerStep struct {
	spinner *pterm.SpinnerPrinter
}

func (s *spinnerStep) Success(text string) {
	s.spinner.Success(text)
}

func (s *spinnerStep) Fail(text string) {
	s.spinner.Fail(text)
}

type lineStep struct {
	printer *Printer
}

func (s *lineStep) Success(text string) {
	s.printer.Success("%s", text)
}

func (s *lineStep) Fail(text string) {
	s.printer.Failure("%s", text)
}
