package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/folio/pkg/page"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the folio banner and the console greeting to w.
// Colors follow the terminal profile of w, so piped output stays plain.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	lines := []struct {
		text  string
		color string
	}{
		{"   __       _ _       ", "#818cf8"},
		{"  / _| ___ | (_) ___  ", "#a78bfa"},
		{" | |_ / _ \\| | |/ _ \\ ", "#c084fc"},
		{" |  _| (_) | | | (_) |", "#e879f9"},
		{" |_|  \\___/|_|_|\\___/ ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" "+version).Faint())
	fmt.Fprintln(w)

	greeting := page.ConsoleGreeting()
	fmt.Fprintln(w, out.String(greeting[0]).Foreground(p.Color("#6366f1")).Bold())
	for _, g := range greeting[1:] {
		fmt.Fprintln(w, out.String(g).Foreground(p.Color("#64748b")))
	}
	fmt.Fprintln(w)
}

// PrintBannerIfTerminal prints the banner only when stdout is interactive.
func PrintBannerIfTerminal(version string) {
	if IsTerminal(os.Stdout) {
		PrintBanner(os.Stdout, version)
	}
}
