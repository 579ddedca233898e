package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the application header.
func PrintBanner(w io.Writer, title, subtitle, version string) {
	p := termenv.ColorProfile()
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w, termenv.String(rule).Foreground(p.Color("#818cf8")))
	fmt.Fprintln(w, termenv.String(title).Bold().Foreground(p.Color("#c084fc")))
	fmt.Fprintln(w, termenv.String(rule).Foreground(p.Color("#818cf8")))
	line := subtitle
	if version != "" {
		line = fmt.Sprintf("%s (v%s)", subtitle, version)
	}
	fmt.Fprintln(w, termenv.String(line).Foreground(p.Color("#f472b6")))
	fmt.Fprintln(w, strings.Repeat("-", 60))
}

// ClearScreen clears the terminal when w is a terminal-backed output.
func ClearScreen(w io.Writer) {
	out := termenv.NewOutput(w)
	out.ClearScreen()
}
