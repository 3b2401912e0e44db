// Package stdlib registers every built-in type, exception, and free
// function the VM needs before it can run a program: int/float/bool/str/
// none/list with their dunder methods, the exception hierarchy, the
// `code object` introspection type, and the `__builtins__` module.
//
// The registration shape — a type created once, then native functions
// attached to it by name — follows spec §6's "Built-in registration"
// interface, expressed as plain Go functions operating on the
// object.Heap.
package stdlib

import "github.com/kristofer/horse/internal/object"

// builder accumulates heap-allocated types during Bootstrap.
type builder struct {
	heap *object.Heap
	wk   *object.WellKnownAddrs
}

// defineType allocates a fresh Type with no supertype.
func (b *builder) defineType(name string) object.Addr {
	return b.heap.Allocate(&object.Type{Name: name, Methods: map[string]object.Addr{}}, object.NilAddr)
}

// defineSubtype allocates a Type whose Supertype is super.
func (b *builder) defineSubtype(name string, super object.Addr) object.Addr {
	return b.heap.Allocate(&object.Type{Name: name, Methods: map[string]object.Addr{}, Supertype: super, HasSupertype: true}, object.NilAddr)
}

// method attaches a native function to typeAddr's method table.
func (b *builder) method(typeAddr object.Addr, name string, fn object.NativeFn) {
	ty := b.heap.Deref(typeAddr).Structure.(*object.Type)
	addr := b.heap.Allocate(&object.NativeFunction{Fn: fn, Name: name}, object.NilAddr)
	ty.Methods[name] = addr
}

// global allocates a free-standing native function (not bound to any
// type), used for `print`/`println` and the `__builtins__` math natives.
func (b *builder) global(name string, fn object.NativeFn) object.Addr {
	return b.heap.Allocate(&object.NativeFunction{Fn: fn, Name: name}, object.NilAddr)
}

func builtinOf(vm object.NativeVM, a object.Addr) (object.BuiltinData, bool) {
	bd, ok := vm.Heap().Deref(a).Structure.(object.BuiltinData)
	return bd, ok
}

func typeErr(vm object.NativeVM, funcName, message string) (object.Addr, error) {
	return 0, vm.RaiseNative("TypeError", funcName+"(): "+message)
}
