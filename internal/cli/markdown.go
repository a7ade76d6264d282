package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWrapWidth = 100

// textFormatter turns a response body into what gets printed.
type textFormatter func(string) string

func plainText(s string) string { return s }

// markdownFormatter renders responses as terminal markdown wrapped to the
// width of w when w is a terminal. Plain styling is used when color is off.
// It falls back to the raw text when the renderer cannot be built.
func markdownFormatter(w io.Writer, noColor bool) textFormatter {
	width := defaultWrapWidth
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}

	style, profile := "dark", termenv.ANSI256
	if noColor {
		style, profile = "notty", termenv.Ascii
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return plainText
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return strings.Trim(out, "\n")
	}
}
