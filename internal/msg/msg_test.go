package msg

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevVerbose, prevNoColor := Out, Verbose, color.NoColor
	Out, color.NoColor = &buf, true
	t.Cleanup(func() {
		Out, Verbose, color.NoColor = prevOut, prevVerbose, prevNoColor
	})
	return &buf
}

func TestInfoAndWarn(t *testing.T) {
	buf := capture(t)

	Info("wrote %d headers", 3)
	Warn("overwriting %s", "qglobal.h")

	assert.Equal(t, "info: wrote 3 headers\nwarn: overwriting qglobal.h\n", buf.String())
}

func TestDebugRespectsVerbose(t *testing.T) {
	buf := capture(t)

	Verbose = false
	Debug("hidden")
	assert.Empty(t, buf.String())

	Verbose = true
	Debug("shown %s", "now")
	assert.Equal(t, "debug: shown now\n", buf.String())
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &IndentWriter{Indent: "  ", W: &buf}

	n, err := w.Write([]byte("qobject.cpp:1: error\nnote: here"))
	assert.NoError(t, err)
	assert.Equal(t, 31, n)

	_, _ = w.Write([]byte("\nlast\n"))
	assert.Equal(t, "  qobject.cpp:1: error\n  note: here\n  last\n", buf.String())
}

func TestOutput(t *testing.T) {
	buf := capture(t)

	Output("> ", []byte("warning: unused\nwarning: shadow\n"))
	assert.Equal(t, "> warning: unused\n> warning: shadow\n", buf.String())
}
