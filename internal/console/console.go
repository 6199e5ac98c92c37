package console

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// output is the termenv output used for all console messages. It detects
// the terminal's color profile once at startup.
var output = termenv.NewOutput(os.Stderr)

// SetNoColor disables or restores colored console output. NO_COLOR in the
// environment is honored independently by termenv's profile detection.
func SetNoColor(noColor bool) {
	if noColor {
		output = termenv.NewOutput(os.Stderr, termenv.WithProfile(termenv.Ascii))
	} else {
		output = termenv.NewOutput(os.Stderr)
	}
}

// Infof writes an informational message to stderr.
func Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(output, output.String(msg).Foreground(output.Color("6")))
}

// Warnf writes a warning message to stderr.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(output, output.String("warning: "+msg).Foreground(output.Color("3")))
}

// Errorf writes an error message to stderr.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(output, output.String("error: "+msg).Foreground(output.Color("1")))
}
