// Package vm implements the frame-based bytecode interpreter (spec §4.2).
//
// Dispatch goes through LoadAttr + CallFunction against a dunder-method
// object model (spec §4.2.2, §4.2.3); raised exceptions unwind as a
// first-class language feature (spec §4.2.4), propagated as a distinct Go
// error type rather than a Go error bubbling out of a primitive.
package vm

import (
	"fmt"
	"strings"

	"github.com/kristofer/horse/internal/object"
)

// StackFrame is one frame in a host-level diagnostic trace.
type StackFrame struct {
	Name       string
	Selector   string
	IP         int
	SourceLine int
}

// RuntimeError represents a host-level VM anomaly: a violated compiler
// invariant (spec §3's "every jump target is a valid instruction index"),
// a stack overflow, or similar. It is distinct from a language-level
// RaisedException — a RuntimeError means the interpreter itself is in an
// unexpected state, not that the running program raised an exception.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.StackTrace) > 0 {
		b.WriteString("\n\nStack trace:")
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			f := e.StackTrace[i]
			b.WriteString(fmt.Sprintf("\n  at %s", f.Name))
			if f.Selector != "" {
				b.WriteString(fmt.Sprintf(" (selector: %s)", f.Selector))
			}
			if f.SourceLine > 0 {
				b.WriteString(fmt.Sprintf(" [line %d]", f.SourceLine))
			}
			b.WriteString(fmt.Sprintf(" [IP: %d]", f.IP))
		}
	}
	return b.String()
}

func newRuntimeError(message string, stack []StackFrame) *RuntimeError {
	return &RuntimeError{Message: message, StackTrace: stack}
}

// RaisedException is the Go-level carrier for an in-flight language
// exception (spec §4.2.4): `Raise` (explicit or from a built-in detecting
// an error) sets the pending exception and begins unwind, which in this
// implementation is simply this error propagating up through each nested
// execFrame call until it reaches the driver that invoked the VM.
type RaisedException struct {
	TypeName string
	Message  string
}

func (e *RaisedException) Error() string {
	if e.Message == "" {
		return e.TypeName
	}
	return fmt.Sprintf("%s: %s", e.TypeName, e.Message)
}

// raiseError allocates an exception instance of typeAddr carrying message,
// records it as the VM's pending exception, and returns the Go error that
// unwinds every nested execFrame call up to the driver (spec §4.2.4: Raise
// "always propagates to the outermost frame" — there is no try/except in
// this language, so unconditional Go-error propagation is exactly the
// unwind rule, not an approximation of it).
func (vm *VM) raiseError(typeAddr object.Addr, message string) error {
	typeName := "Exception"
	if vm.heap.Valid(typeAddr) {
		if ty, ok := vm.heap.Deref(typeAddr).Structure.(*object.Type); ok {
			typeName = ty.Name
		}
	}
	msgAddr := vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: message}, vm.wk.StrType)
	instAddr := vm.heap.Allocate(object.Instance{}, typeAddr)
	vm.heap.Deref(instAddr).Attributes["message"] = msgAddr
	vm.pending = instAddr
	return &RaisedException{TypeName: typeName, Message: message}
}
