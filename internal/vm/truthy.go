package vm

import "github.com/kristofer/horse/internal/object"

// boolAddr returns the singleton True/False address for b. Boolean results
// are never freshly allocated: True and False are singletons (spec §3
// "Well-known addresses").
func (vm *VM) boolAddr(b bool) object.Addr {
	if b {
		return vm.wk.TrueAddr
	}
	return vm.wk.FalseAddr
}

// truthy implements spec §4.2.1: None, False, int 0, float 0.0, empty
// string, and empty list are falsy; everything else is truthy; a
// user-defined __bool__ (on the type chain) overrides the built-in rule.
func (vm *VM) truthy(addr object.Addr) (bool, error) {
	if addr == vm.wk.NoneAddr || addr == vm.wk.FalseAddr {
		return false, nil
	}
	if addr == vm.wk.TrueAddr {
		return true, nil
	}

	obj := vm.heap.Deref(addr)
	if callee, ok := vm.lookupMethod(obj.TypeAddr, "__bool__"); ok {
		bound := vm.heap.Allocate(object.BoundMethod{Receiver: addr, Callable: callee}, object.NilAddr)
		result, err := vm.callValue(bound, nil)
		if err != nil {
			return false, err
		}
		return result == vm.wk.TrueAddr, nil
	}

	if bd, ok := obj.Structure.(object.BuiltinData); ok {
		switch bd.Kind {
		case object.BuiltinInt:
			return !bd.Int.IsZero(), nil
		case object.BuiltinFloat:
			return bd.Flt != 0, nil
		case object.BuiltinString:
			return bd.Str != "", nil
		case object.BuiltinList:
			return len(bd.List) != 0, nil
		case object.BuiltinNone:
			return false, nil
		}
	}
	return true, nil
}
