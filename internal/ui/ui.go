// Package ui prints status lines for the CLI subcommands on stderr, keeping
// stdout clean for diff and review text.
package ui

import (
	"fmt"
	"os"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(os.Stderr, dim+msg+reset)
}

func (p *Printer) Step(msg string) {
	fmt.Fprintf(os.Stderr, cyan+bold+"▶ "+reset+"%s\n", msg)
}

func (p *Printer) Done(msg string) {
	fmt.Fprintf(os.Stderr, green+"✓ "+reset+"%s\n", msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(os.Stderr, yellow+"! "+reset+"%s\n", msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"✗ "+reset+"%s\n", msg)
}
