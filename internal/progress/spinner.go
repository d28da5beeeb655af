package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner reports the progress of a single long operation. On a
// non-interactive terminal every method is a no-op, so logs stay the only
// output.
type Spinner struct {
	s       *spinner.Spinner
	w       io.Writer
	symbols ProgressSymbols
	caps    TerminalCapabilities
}

// NewSpinner returns a spinner writing to w.
func NewSpinner(w io.Writer, caps TerminalCapabilities) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{w: w, symbols: symbols, caps: caps}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(w))
		if caps.SupportsColor {
			_ = sp.s.Color("cyan")
		}
	}
	return sp
}

// Enabled reports whether the spinner draws anything.
func (sp *Spinner) Enabled() bool {
	return sp.s != nil
}

// Start shows msg next to the spinner.
func (sp *Spinner) Start(msg string) {
	if sp.s == nil {
		return
	}
	sp.s.Suffix = " " + msg
	sp.s.Start()
}

// Update replaces the message of a running spinner.
func (sp *Spinner) Update(msg string) {
	if sp.s == nil {
		return
	}
	sp.s.Lock()
	sp.s.Suffix = " " + msg
	sp.s.Unlock()
}

// Success stops the spinner and prints msg with a checkmark.
func (sp *Spinner) Success(msg string) {
	sp.stop(sp.symbols.Checkmark, color.FgGreen, msg)
}

// Fail stops the spinner and prints msg with a failure mark.
func (sp *Spinner) Fail(msg string) {
	sp.stop(sp.symbols.Failure, color.FgRed, msg)
}

func (sp *Spinner) stop(symbol string, attr color.Attribute, msg string) {
	if sp.s == nil {
		return
	}
	sp.s.Stop()
	if sp.caps.SupportsColor {
		symbol = color.New(attr).Sprint(symbol)
	}
	fmt.Fprintf(sp.w, "%s %s\n", symbol, msg)
}
