package vm

import (
	"fmt"

	"github.com/kristofer/horse/internal/object"
)

// callValue implements spec §4.2.2's call-dispatch table:
//   - NativeFunction: invoke directly with CallParams;
//   - BoundMethod{r, inner}: recursively dispatch inner, prepending r as the
//     first positional argument if inner is a user Function, or passing it
//     as BoundReceiver if inner is native;
//   - Function{code, defaults}: arity-check, build a new frame, recurse;
//   - Type: construct an Instance, run __init__ if present, discard its
//     result, return the instance;
//   - anything else: TypeError.
func (vm *VM) callValue(callee object.Addr, args []object.Addr) (object.Addr, error) {
	vm.depth++
	defer func() { vm.depth-- }()
	if vm.depth > MaxCallDepth {
		return 0, newRuntimeError("maximum call depth exceeded", vm.trace)
	}

	obj := vm.heap.Deref(callee)
	switch s := obj.Structure.(type) {
	case *object.NativeFunction:
		return vm.callNative(s, object.CallParams{FuncName: s.Name, Args: args})

	case object.BoundMethod:
		inner := vm.heap.Deref(s.Callable)
		switch in := inner.Structure.(type) {
		case *object.Function:
			full := append([]object.Addr{s.Receiver}, args...)
			return vm.callFunction(s.Callable, in, full)
		case *object.NativeFunction:
			return vm.callNative(in, object.CallParams{
				FuncName:      in.Name,
				BoundReceiver: s.Receiver,
				HasReceiver:   true,
				Args:          args,
			})
		default:
			return 0, vm.raiseError(vm.wk.TypeError, "bound callable is not callable")
		}

	case *object.Function:
		return vm.callFunction(callee, s, args)

	case *object.Type:
		return vm.instantiate(callee, s, args)

	default:
		return 0, vm.raiseError(vm.wk.TypeError, "value is not callable")
	}
}

func (vm *VM) callNative(fn *object.NativeFunction, params object.CallParams) (object.Addr, error) {
	return fn.Fn(vm, params)
}

func (vm *VM) callFunction(fnAddr object.Addr, fn *object.Function, args []object.Addr) (object.Addr, error) {
	np := len(fn.Code.Params)
	nd := len(fn.Defaults)
	if len(args) < np-nd || len(args) > np {
		return 0, vm.raiseError(vm.wk.TypeError, fmt.Sprintf(
			"%s() takes %d to %d arguments but %d were given",
			fn.Code.ObjName, np-nd, np, len(args)))
	}

	locals := make([]object.Addr, len(fn.Code.Names))
	set := make([]bool, len(fn.Code.Names))
	for i, a := range args {
		locals[i] = a
		set[i] = true
	}
	for i := len(args); i < np; i++ {
		locals[i] = fn.Defaults[i-(np-nd)]
		set[i] = true
	}

	frame := newFrame(fn.Code, locals, set)
	vm.trace = append(vm.trace, StackFrame{Name: fn.Code.ObjName})
	defer func() { vm.trace = vm.trace[:len(vm.trace)-1] }()
	return vm.execFrame(frame)
}

// instantiate constructs a Type's instance, running __init__ if the type
// (or a supertype) defines one; __init__'s return value is discarded (spec
// §4.2.2).
func (vm *VM) instantiate(typeAddr object.Addr, ty *object.Type, args []object.Addr) (object.Addr, error) {
	instAddr := vm.heap.Allocate(object.Instance{}, typeAddr)
	if initCallee, ok := vm.lookupMethod(typeAddr, "__init__"); ok {
		bound := vm.heap.Allocate(object.BoundMethod{Receiver: instAddr, Callable: initCallee}, object.NilAddr)
		if _, err := vm.callValue(bound, args); err != nil {
			return 0, err
		}
	}
	return instAddr, nil
}
