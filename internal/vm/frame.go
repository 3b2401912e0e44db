package vm

import (
	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
)

// Frame is one call's activation record: its code object, instruction
// pointer, local-variable slots (shared by the Names table between
// variables and attribute-identifier interning, spec §3), and value stack.
// Locals is a general array sized to names.len(), per spec §3, rather
// than a fixed receiver-plus-arguments layout.
type Frame struct {
	Code   *bytecode.CodeObject
	PC     int
	Locals []object.Addr
	Set    []bool
	Stack  []object.Addr

	// Name is the code object's name. The host-level stack traces in
	// errors.go take their names from vm.trace, not from this field.
	Name string
}

func newFrame(co *bytecode.CodeObject, locals []object.Addr, set []bool) *Frame {
	return &Frame{
		Code:   co,
		Locals: locals,
		Set:    set,
		Stack:  make([]object.Addr, 0, 8),
		Name:   co.ObjName,
	}
}

func (f *Frame) push(a object.Addr) {
	f.Stack = append(f.Stack, a)
}

func (f *Frame) pop() object.Addr {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}

func (f *Frame) peek() object.Addr {
	return f.Stack[len(f.Stack)-1]
}

func (f *Frame) currentLine() int {
	if f.PC >= 0 && f.PC < len(f.Code.Instructions) {
		return f.Code.Instructions[f.PC].Line
	}
	return 0
}
