package vm

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
)

// MaxCallDepth bounds host-stack recursion (spec §5: "Recursion depth is
// bounded only by the host stack" — this is the VM's conservative guard
// against a genuine Go stack overflow rather than a language-level limit).
const MaxCallDepth = 2000

// VM executes compiled code objects against a shared heap. It is
// single-threaded and reentrant only through its own call stack (spec §5:
// "no goroutines are spawned by VM internals"). Method resolution walks
// the Type/Supertype chain of internal/object, and dispatch goes through
// LoadAttribute + callValue rather than a fixed opcode-per-operator table.
type VM struct {
	heap    *object.Heap
	wk      object.WellKnownAddrs
	globals map[string]object.Addr
	depth   int

	// ID is a per-instance UUID set by New. Nothing in this module logs or
	// prints it.
	ID string

	codeConstCache map[*bytecode.CodeObject][]object.Addr

	trace   []StackFrame
	pending object.Addr
}

// New creates a bare VM: an empty heap and no built-ins registered. Callers
// use internal/stdlib.Bootstrap(vm) to populate WellKnownAddrs and the
// `__builtins__` module before running any code — kept separate from this
// package so internal/vm never has to import internal/stdlib (stdlib
// depends on vm, not the reverse).
func New() *VM {
	return &VM{
		heap:           object.NewHeap(),
		globals:        make(map[string]object.Addr),
		codeConstCache: make(map[*bytecode.CodeObject][]object.Addr),
		ID:             uuid.NewString(),
	}
}

// WellKnownNoneAddr exposes the None singleton for drivers that need to
// distinguish "no value" from every other result (e.g. the REPL skipping
// output for a statement that evaluates to None).
func (vm *VM) WellKnownNoneAddr() object.Addr { return vm.wk.NoneAddr }

// StringOf extracts a Go string from a built-in string object's address,
// used by drivers to print a value already reduced to its __repr__/__str__.
func (vm *VM) StringOf(addr object.Addr) (string, bool) {
	bd, ok := vm.heap.Deref(addr).Structure.(object.BuiltinData)
	if !ok || bd.Kind != object.BuiltinString {
		return "", false
	}
	return bd.Str, true
}

// DefineGlobal sets a top-level name directly, used during built-in
// registration to expose e.g. the `print` native at module scope.
func (vm *VM) DefineGlobal(name string, addr object.Addr) {
	vm.globals[name] = addr
}

// Heap implements object.NativeVM.
func (vm *VM) Heap() *object.Heap { return vm.heap }

// WellKnown implements object.NativeVM.
func (vm *VM) WellKnown() *object.WellKnownAddrs { return &vm.wk }

// CallMethod implements object.NativeVM: a native function calling back
// into the VM to invoke a method by name on one of its arguments (spec §5).
func (vm *VM) CallMethod(receiver object.Addr, selector string, args []object.Addr) (object.Addr, error) {
	callee, err := vm.LoadAttribute(receiver, selector)
	if err != nil {
		return 0, err
	}
	return vm.callValue(callee, args)
}

// RaiseNative implements object.NativeVM: a built-in function raising a
// language-level exception by well-known type name.
func (vm *VM) RaiseNative(typeName string, message string) error {
	addr, ok := vm.wk.ByName(typeName)
	if !ok {
		addr = vm.wk.Exception
	}
	return vm.raiseError(addr, message)
}

// Pending returns the last raised exception instance, if any, for the
// driver to format a diagnostic (spec §4.2.4: the outermost frame is where
// unwind stops and the exception becomes observable).
func (vm *VM) Pending() object.Addr { return vm.pending }

// Global looks up a top-level name, used by the REPL/CLI driver to fetch
// e.g. a freshly defined function by name.
func (vm *VM) Global(name string) (object.Addr, bool) {
	a, ok := vm.globals[name]
	return a, ok
}

// RunProgram executes a compiled program's main code object to completion,
// leaving all top-level names in vm.globals (spec §4.1's `__main__` unit).
// If a value is still on the main frame's stack after its ReturnValue (the
// trailing expression of a REPL-compiled program), that value is returned;
// otherwise the ReturnValue result is.
func (vm *VM) RunProgram(prog *bytecode.Program) (object.Addr, error) {
	if len(prog.CodeObjects) == 0 {
		return vm.wk.NoneAddr, fmt.Errorf("vm: empty program")
	}
	main := prog.CodeObjects[0]
	locals := make([]object.Addr, len(main.Names))
	set := make([]bool, len(main.Names))
	frame := newFrame(main, locals, set)
	result, err := vm.execFrame(frame)
	if err != nil {
		return 0, err
	}
	if n := len(frame.Stack); n > 0 {
		result = frame.Stack[n-1]
	}
	for i, name := range main.Names {
		if set[i] {
			vm.globals[name] = locals[i]
		}
	}
	return result, nil
}
