package vm

import (
	"fmt"

	"github.com/kristofer/horse/internal/object"
)

// LoadAttribute implements spec §4.2.3's four-step resolution:
//  1. instance attribute dict hit -> return raw value, unless it is callable
//     (Function/NativeFunction), in which case wrap as a BoundMethod;
//  2. else walk the type -> supertype chain's method table, wrap a hit as a
//     BoundMethod;
//  3. else, if the receiver is a Module, search its Members;
//  4. else AttributeError.
func (vm *VM) LoadAttribute(receiver object.Addr, name string) (object.Addr, error) {
	obj := vm.heap.Deref(receiver)

	if v, ok := obj.Attributes[name]; ok {
		if vm.isCallable(v) {
			return vm.heap.Allocate(object.BoundMethod{Receiver: receiver, Callable: v}, object.NilAddr), nil
		}
		return v, nil
	}

	if callee, ok := vm.lookupMethod(obj.TypeAddr, name); ok {
		return vm.heap.Allocate(object.BoundMethod{Receiver: receiver, Callable: callee}, object.NilAddr), nil
	}

	if mod, ok := obj.Structure.(*object.Module); ok {
		if v, ok := mod.Members[name]; ok {
			return v, nil
		}
	}

	return 0, vm.raiseError(vm.wk.AttributeError, fmt.Sprintf("no attribute %q", name))
}

// lookupMethod walks the type -> supertype chain, first match wins
// (spec §4.2.3, single inheritance).
func (vm *VM) lookupMethod(typeAddr object.Addr, name string) (object.Addr, bool) {
	for {
		if typeAddr == object.NilAddr || !vm.heap.Valid(typeAddr) {
			return 0, false
		}
		ty, ok := vm.heap.Deref(typeAddr).Structure.(*object.Type)
		if !ok {
			return 0, false
		}
		if m, ok := ty.Methods[name]; ok {
			return m, true
		}
		if !ty.HasSupertype {
			return 0, false
		}
		typeAddr = ty.Supertype
	}
}

func (vm *VM) isCallable(addr object.Addr) bool {
	switch vm.heap.Deref(addr).Structure.(type) {
	case *object.Function, *object.NativeFunction:
		return true
	default:
		return false
	}
}

// StoreAttribute sets an instance's attribute dict entry directly (spec
// §4.2.1 StoreAttr: "store into the receiver's attribute dict").
func (vm *VM) StoreAttribute(receiver object.Addr, name string, value object.Addr) {
	obj := vm.heap.Deref(receiver)
	obj.Attributes[name] = value
}
