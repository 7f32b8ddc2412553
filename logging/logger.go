package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// Level is the amount of output the logger produces
type Level int

// Enumeration of the different log levels
const (
	LevelSilent  Level = iota // no output at all
	LevelError                // only errors and the closing message
	LevelWarning              // errors, warnings, and the closing message
	LevelVerbose              // everything including phases and traces (DEFAULT)
)

// ParseLevel converts a log level name into a level.  Unknown names select
// the verbose level.
func ParseLevel(name string) Level {
	switch name {
	case "silent":
		return LevelSilent
	case "error":
		return LevelError
	case "warning", "warn":
		return LevelWarning
	default:
		return LevelVerbose
	}
}

func (lvl Level) String() string {
	switch lvl {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "verbose"
	}
}

// Logger is responsible for displaying the progress and messages of the
// compiler at its log level
type Logger struct {
	Level Level

	out io.Writer

	// phase is the compilation phase currently running
	phase      string
	phaseStart time.Time
}

// New creates a logger writing to out
func New(out io.Writer, level Level) *Logger {
	return &Logger{Level: level, out: out}
}

// Enabled reports whether messages of a level are displayed
func (l *Logger) Enabled(level Level) bool {
	return level != LevelSilent && l.Level >= level
}

// Trace returns the writer trace output should go to: the logger's output at
// the verbose level and a discarding writer otherwise
func (l *Logger) Trace() io.Writer {
	if l.Enabled(LevelVerbose) {
		return l.out
	}

	return io.Discard
}

// Out returns the writer messages at a level should go to
func (l *Logger) Out(level Level) io.Writer {
	if l.Enabled(level) {
		return l.out
	}

	return io.Discard
}

// -----------------------------------------------------------------------------

// Header displays the compiler version and the file being compiled
func (l *Logger) Header(version, file string) {
	if !l.Enabled(LevelVerbose) {
		return
	}

	fmt.Fprint(l.out, "cminus ")
	fmt.Fprint(l.out, InfoColorFG.Sprint("v"+version))
	fmt.Fprint(l.out, " -- file: ")
	fmt.Fprintln(l.out, InfoColorFG.Sprint(file))
}

const maxPhaseLength = len("Generating")

// BeginPhase marks the start of a compilation phase
func (l *Logger) BeginPhase(phase string) {
	l.phase = phase
	l.phaseStart = time.Now()
}

// EndPhase displays the outcome of the current compilation phase
func (l *Logger) EndPhase(success bool) {
	if l.phase == "" {
		return
	}

	padding := "  "
	if len(l.phase) < maxPhaseLength {
		padding = strings.Repeat(" ", maxPhaseLength-len(l.phase)+2)
	}

	if success && l.Enabled(LevelVerbose) {
		fmt.Fprint(l.out, SuccessStyleBG.Sprint("Done"))
		fmt.Fprintf(l.out, " %s%s(%.3fs)\n", l.phase, padding, time.Since(l.phaseStart).Seconds())
	} else if !success && l.Enabled(LevelError) {
		fmt.Fprint(l.out, ErrorStyleBG.Sprint("Fail"))
		fmt.Fprintf(l.out, " %s\n", l.phase)
	}

	l.phase = ""
}

// Info displays an informational message
func (l *Logger) Info(tag, msg string) {
	if l.Enabled(LevelVerbose) {
		l.display(InfoStyleBG, InfoColorFG, tag, msg)
	}
}

// Warn displays a warning
func (l *Logger) Warn(tag, msg string) {
	if l.Enabled(LevelWarning) {
		l.display(WarnStyleBG, WarnColorFG, tag, msg)
	}
}

// Error displays a standard Go error
func (l *Logger) Error(tag string, err error) {
	if l.Enabled(LevelError) {
		l.display(ErrorStyleBG, ErrorColorFG, tag, err.Error())
	}
}

func (l *Logger) display(tagStyle *pterm.Style, msgColor pterm.Color, tag, msg string) {
	fmt.Fprint(l.out, tagStyle.Sprint(tag))
	fmt.Fprintln(l.out, msgColor.Sprint(" "+msg))
}
