package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/horse/internal/config"
	"github.com/kristofer/horse/internal/repl"
	"github.com/kristofer/horse/internal/stdlib"
	"github.com/kristofer/horse/internal/vm"
)

func newVM(t *testing.T) *vm.VM {
	t.Helper()
	v := vm.New()
	stdlib.Bootstrap(v)
	return v
}

func TestREPLEchoesExpressionResult(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("1 + 1\n:quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	assert.Contains(t, out.String(), "2")
}

func TestREPLPersistsStateAcrossLines(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("x = 41\nx + 1\n:quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	assert.Contains(t, out.String(), "42")
}

func TestREPLMultilineBlockBuffersUntilBlankLine(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("if True:\n    x = 99\n\nx\n:quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	assert.Contains(t, out.String(), "99")
}

func TestREPLHelpCommand(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(":help\n:quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	assert.Contains(t, out.String(), ":quit")
}

func TestREPLReportsRaisedExceptions(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("raise ValueError(\"boom\")\n:quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	assert.Contains(t, out.String(), "ValueError")
	assert.Contains(t, out.String(), "boom")
}

func TestREPLQuitStopsTheLoop(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(":quit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	require.Contains(t, out.String(), "Goodbye")
}

func TestREPLBareExitStopsTheLoop(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("x = 1\nexit\n")
	repl.Run(newVM(t), config.Default(), in, &out)
	require.Contains(t, out.String(), "Goodbye")
	assert.NotContains(t, out.String(), "NameError")
}
