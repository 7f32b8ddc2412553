package logging

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseLevel(t *testing.T) {
	be.Equal(t, ParseLevel("silent"), LevelSilent)
	be.Equal(t, ParseLevel("error"), LevelError)
	be.Equal(t, ParseLevel("warning"), LevelWarning)
	be.Equal(t, ParseLevel("verbose"), LevelVerbose)
	be.Equal(t, ParseLevel("loud"), LevelVerbose)
	be.Equal(t, LevelWarning.String(), "warning")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarning)

	l.Info("Info", "hidden")
	l.Warn("Warning", "shown")
	l.Error("Error", errors.New("also shown"))

	out := buf.String()
	be.True(t, !strings.Contains(out, "hidden"))
	be.True(t, strings.Contains(out, "shown"))
	be.True(t, strings.Contains(out, "also shown"))
	be.Equal(t, l.Trace(), io.Discard)
}

func TestSilent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelSilent)

	l.Header("1.0", "a.cm")
	l.Error("Error", errors.New("nope"))
	l.BeginPhase("Analyzing")
	l.EndPhase(false)

	be.Equal(t, buf.String(), "")
	be.Equal(t, l.Out(LevelError), io.Discard)
}

func TestPhases(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelVerbose)

	l.BeginPhase("Analyzing")
	l.EndPhase(true)
	l.BeginPhase("Generating")
	l.EndPhase(false)

	// ending without a phase does nothing
	l.EndPhase(true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	be.Equal(t, len(lines), 2)
	be.True(t, strings.Contains(lines[0], "Done"))
	be.True(t, strings.Contains(lines[0], " Analyzing   ("))
	be.True(t, strings.Contains(lines[1], "Fail"))
	be.True(t, strings.HasSuffix(lines[1], " Generating"))
	be.Equal(t, l.Trace(), io.Writer(&buf))
}
