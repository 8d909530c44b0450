package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/modcheck/internal/engine"
)

var (
	// fatih/color disables these when output is not a TTY or NoColor is set
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// formatLine renders a line, coloring the mark and name of status lines
// green or red and problem verdicts red.
func formatLine(line engine.Line) string {
	switch line.Kind {
	case engine.LineStatus:
		head := errorColor
		if line.Status == engine.StatusMatch {
			head = successColor
		}
		var b strings.Builder
		b.WriteString(head.Sprintf("%s %s", line.Mark, line.Name))
		b.WriteString(line.Detail)
		if line.Verdict != "" {
			b.WriteString(errorColor.Sprint(line.Verdict))
		}
		return b.String()
	case engine.LineWarning:
		return errorColor.Sprint(line.Text)
	default:
		return line.Text
	}
}

// printLine writes a formatted line to w.
func printLine(w io.Writer, line engine.Line) {
	_, _ = fmt.Fprintln(w, formatLine(line))
}

// FormatError formats an error for display on stderr.
func FormatError(err error) string {
	return errorColor.Sprint(err.Error())
}
