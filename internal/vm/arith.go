package vm

import "github.com/kristofer/horse/internal/object"

// binaryDunder implements the uniform pattern behind every binary opcode in
// spec §4.2.1's table ("invoke lhs.__add__(rhs)", etc.): resolve the dunder
// on the left operand via the same attribute-resolution algorithm LoadAttr
// uses, then call it with the right operand as the sole argument. Built-in
// scalar/list arithmetic therefore lives entirely in internal/stdlib as
// ordinary native methods — the VM has no special-cased arithmetic.
func (vm *VM) binaryDunder(name string, lhs, rhs object.Addr) (object.Addr, error) {
	callee, err := vm.LoadAttribute(lhs, name)
	if err != nil {
		return 0, err
	}
	return vm.callValue(callee, []object.Addr{rhs})
}

func (vm *VM) unaryDunder(name string, operand object.Addr) (object.Addr, error) {
	callee, err := vm.LoadAttribute(operand, name)
	if err != nil {
		return 0, err
	}
	return vm.callValue(callee, nil)
}
