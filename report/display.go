package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightGreen
)

// Display writes every diagnostic of the list with a banner naming its kind.
// The path is the display name of the compiled file.
func Display(w io.Writer, path string, l *List) {
	for _, d := range l.Items() {
		fmt.Fprint(w, "-- ")
		fmt.Fprint(w, ErrorStyleBG.Sprint(d.Kind.String()+" Error"))
		fmt.Fprint(w, " ")
		fmt.Fprintln(w, InfoColorFG.Sprintf("%s:%d", path, d.Line))
		fmt.Fprintln(w, d.Message)
		fmt.Fprintln(w)
	}
}

// DisplaySummary writes the concluding line of a compilation
func DisplaySummary(w io.Writer, l *List) {
	if !l.HasErrors() {
		fmt.Fprint(w, SuccessColorFG.Sprint("All done! "))
		fmt.Fprintln(w, "(0 errors)")
		return
	}

	fmt.Fprint(w, ErrorColorFG.Sprint("Oh no! "))
	if l.Len() == 1 {
		fmt.Fprintln(w, "(1 error)")
	} else {
		fmt.Fprintf(w, "(%d errors)\n", l.Len())
	}
}

const icePostlude = `This error was not supposed to happen: please open an issue.`

// DisplayICE writes an internal compiler error message
func DisplayICE(w io.Writer, err error) {
	msg := strings.TrimPrefix(err.Error(), "internal compiler error: ")
	fmt.Fprint(w, ErrorStyleBG.Sprint("Internal Compiler Error"))
	fmt.Fprintln(w, ErrorColorFG.Sprint(" "+msg))
	fmt.Fprintln(w, icePostlude)
}

// DisplayError writes a standard Go error tagged with a short label
func DisplayError(w io.Writer, tag string, err error) {
	fmt.Fprint(w, ErrorStyleBG.Sprint(tag))
	fmt.Fprintln(w, ErrorColorFG.Sprint(" "+err.Error()))
}
