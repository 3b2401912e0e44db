// Package repl implements the interactive prompt: a persistent VM and
// compiler instance shared across evaluations, buffering multi-line input
// until a statement is complete. Blocks are indentation-delimited (spec
// §6), so completion is detected by "does this line open a block" (a
// trailing `:`) followed by a blank line to close it.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kristofer/horse/internal/compiler"
	"github.com/kristofer/horse/internal/config"
	"github.com/kristofer/horse/internal/parser"
	"github.com/kristofer/horse/internal/rtlog"
	"github.com/kristofer/horse/internal/vm"
)

// Run drives the REPL loop against in/out until EOF, the bare word `exit`
// (spec §6: "blank line continues; exit terminates"), or :quit/:exit.
func Run(v *vm.VM, cfg config.Config, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "horse 0.1.0")
	fmt.Fprintln(out, "Type ':help' for help, 'exit' (or ':quit'/':exit') to leave the REPL")
	fmt.Fprintln(out)

	c := compiler.New()
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	open := false

	for {
		if buf.Len() == 0 {
			fmt.Fprint(out, cfg.Prompt)
		} else {
			fmt.Fprint(out, cfg.ContPrompt)
		}

		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "exit", ":quit", ":exit":
				fmt.Fprintln(out, "Goodbye!")
				return
			case ":help":
				printHelp(out)
				continue
			case "":
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		trimmed := strings.TrimRight(strings.TrimSpace(line), " ")
		if !open && strings.HasSuffix(trimmed, ":") {
			open = true
			continue
		}
		if open && strings.TrimSpace(line) != "" {
			continue
		}

		source := buf.String()
		buf.Reset()
		open = false

		evalOne(v, c, source, out)
	}
}

func evalOne(v *vm.VM, c *compiler.Compiler, source string, out io.Writer) {
	prog, err := parser.ParseSource(source)
	if err != nil {
		fmt.Fprintln(out, "SyntaxError:", err)
		return
	}
	compiled, err := c.CompileREPL(prog)
	if err != nil {
		fmt.Fprintln(out, "CompileError:", err)
		return
	}
	result, err := v.RunProgram(compiled)
	if err != nil {
		rtlog.Debugf("repl eval failed: %v", err)
		fmt.Fprintln(out, describeError(v, err))
		return
	}
	if result == 0 || result == v.WellKnownNoneAddr() {
		return
	}
	reprAddr, err := v.CallMethod(result, "__repr__", nil)
	if err != nil {
		return
	}
	if bd, ok := v.StringOf(reprAddr); ok {
		fmt.Fprintln(out, bd)
	}
}

func describeError(v *vm.VM, err error) string {
	if re, ok := err.(*vm.RaisedException); ok {
		return re.Error()
	}
	return "RuntimeError: " + err.Error()
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "  :help                show this help")
	fmt.Fprintln(out, "  exit, :quit, :exit   leave the REPL")
}
