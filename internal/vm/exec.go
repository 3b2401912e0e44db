package vm

import (
	"fmt"

	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
)

// execFrame runs f to its own ReturnValue, recursing into a fresh Frame for
// every nested call (spec §5: recursion depth is bounded only by the host
// stack). This recursive-descent shape lets native functions call back
// into the VM (CallMethod) by simply recursing into the same machinery a
// nested user call would use, rather than needing a separate trampoline.
func (vm *VM) execFrame(f *Frame) (object.Addr, error) {
	consts := vm.constAddrsFor(f.Code)

	for {
		if f.PC >= len(f.Code.Instructions) {
			return vm.wk.NoneAddr, nil
		}
		ins := f.Code.Instructions[f.PC]
		f.PC++

		switch ins.Op {
		case bytecode.OpLoadConst:
			f.push(consts[ins.Arg])

		case bytecode.OpPopTop:
			f.pop()

		case bytecode.OpLoadName:
			if !f.Set[ins.Arg] {
				return 0, vm.raiseError(vm.wk.NameError, fmt.Sprintf("name %q is not defined", nameAt(f.Code, ins.Arg)))
			}
			f.push(f.Locals[ins.Arg])

		case bytecode.OpStoreName:
			f.Locals[ins.Arg] = f.pop()
			f.Set[ins.Arg] = true

		case bytecode.OpLoadGlobal:
			name := nameAt(f.Code, ins.Arg)
			addr, ok := vm.globals[name]
			if !ok {
				return 0, vm.raiseError(vm.wk.NameError, fmt.Sprintf("name %q is not defined", name))
			}
			f.push(addr)

		case bytecode.OpLoadAttr:
			recv := f.pop()
			v, err := vm.LoadAttribute(recv, nameAt(f.Code, ins.Arg))
			if err != nil {
				return 0, err
			}
			f.push(v)

		case bytecode.OpStoreAttr:
			// The compiler pushes the value first and the target last.
			recv := f.pop()
			value := f.pop()
			vm.StoreAttribute(recv, nameAt(f.Code, ins.Arg), value)

		case bytecode.OpIndexAccess:
			index := f.pop()
			coll := f.pop()
			v, err := vm.binaryDunder("__getitem__", coll, index)
			if err != nil {
				return 0, err
			}
			f.push(v)

		case bytecode.OpBuildList:
			n := ins.Arg
			elems := make([]object.Addr, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = f.pop()
			}
			addr := vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinList, List: elems}, vm.wk.ListType)
			f.push(addr)

		case bytecode.OpBinaryAdd, bytecode.OpBinarySub, bytecode.OpBinaryMul,
			bytecode.OpBinaryTrueDiv, bytecode.OpBinaryMod,
			bytecode.OpCompareEquals, bytecode.OpCompareNotEquals,
			bytecode.OpCompareLess, bytecode.OpCompareGreater,
			bytecode.OpCompareLessEquals, bytecode.OpCompareGreaterEquals:
			rhs := f.pop()
			lhs := f.pop()
			v, err := vm.binaryDunder(dunderFor(ins.Op), lhs, rhs)
			if err != nil {
				return 0, err
			}
			f.push(v)

		case bytecode.OpCallFunction:
			n := ins.Arg
			args := make([]object.Addr, n)
			for i := n - 1; i >= 0; i-- {
				args[i] = f.pop()
			}
			callee := f.pop()
			v, err := vm.callValue(callee, args)
			if err != nil {
				return 0, err
			}
			f.push(v)

		case bytecode.OpMakeFunction:
			_ = f.pop() // qualname: not carried on Function, present only for the debugger/__bytecode__ view
			codeAddr := f.pop()
			var defaults []object.Addr
			if ins.Arg == 1 {
				listAddr := f.pop()
				bd := vm.heap.Deref(listAddr).Structure.(object.BuiltinData)
				defaults = append([]object.Addr{}, bd.List...)
			}
			code := vm.heap.Deref(codeAddr).Structure.(object.BuiltinData).Code
			fnAddr := vm.heap.Allocate(&object.Function{Code: code, Defaults: defaults}, vm.wk.FuncType)
			vm.heap.Deref(fnAddr).Attributes["__code__"] = codeAddr
			f.push(fnAddr)

		case bytecode.OpMakeClass:
			_ = f.pop() // qualname: class name is also the StoreName target
			codeAddr := f.pop()
			code := vm.heap.Deref(codeAddr).Structure.(object.BuiltinData).Code
			classAddr, err := vm.buildClass(code)
			if err != nil {
				return 0, err
			}
			f.push(classAddr)

		case bytecode.OpJumpUnconditional:
			f.PC = ins.Arg

		case bytecode.OpJumpIfFalseAndPopStack:
			cond := f.pop()
			truthy, err := vm.truthy(cond)
			if err != nil {
				return 0, err
			}
			if !truthy {
				f.PC = ins.Arg
			}

		case bytecode.OpForIter:
			iterAddr := f.peek()
			nextCallee, err := vm.LoadAttribute(iterAddr, "__next__")
			if err != nil {
				return 0, err
			}
			val, err := vm.callValue(nextCallee, nil)
			if err != nil {
				if re, ok := err.(*RaisedException); ok && re.TypeName == "StopIteration" {
					f.pop()
					f.PC = ins.Arg
					continue
				}
				return 0, err
			}
			f.push(val)

		case bytecode.OpRaise:
			excAddr := f.pop()
			return 0, vm.raiseValue(f, excAddr)

		case bytecode.OpReturnValue:
			return f.pop(), nil

		default:
			return 0, newRuntimeError(fmt.Sprintf("unexpected opcode %s", ins.Op), vm.trace)
		}
	}
}

func nameAt(co *bytecode.CodeObject, slot int) string {
	if slot >= 0 && slot < len(co.Names) {
		return co.Names[slot]
	}
	return "?"
}

// dunderFor maps a direct binary/compare opcode to the dunder method
// invoked on the left operand (spec §4.2.1's table).
func dunderFor(op bytecode.Opcode) string {
	switch op {
	case bytecode.OpBinaryAdd:
		return "__add__"
	case bytecode.OpBinarySub:
		return "__sub__"
	case bytecode.OpBinaryMul:
		return "__mul__"
	case bytecode.OpBinaryTrueDiv:
		return "__truediv__"
	case bytecode.OpBinaryMod:
		return "__mod__"
	case bytecode.OpCompareEquals:
		return "__eq__"
	case bytecode.OpCompareNotEquals:
		return "__ne__"
	case bytecode.OpCompareLess:
		return "__lt__"
	case bytecode.OpCompareGreater:
		return "__gt__"
	case bytecode.OpCompareLessEquals:
		return "__le__"
	case bytecode.OpCompareGreaterEquals:
		return "__ge__"
	default:
		return ""
	}
}

// raiseValue handles an explicit `raise <expr>` where expr already
// evaluated to an exception instance (spec §4.1.2's Raise statement).
func (vm *VM) raiseValue(f *Frame, excAddr object.Addr) error {
	obj := vm.heap.Deref(excAddr)
	typeName := "Exception"
	if vm.heap.Valid(obj.TypeAddr) {
		if ty, ok := vm.heap.Deref(obj.TypeAddr).Structure.(*object.Type); ok {
			typeName = ty.Name
		}
	}
	message := ""
	if msgAddr, ok := obj.Attributes["message"]; ok {
		if bd, ok := vm.heap.Deref(msgAddr).Structure.(object.BuiltinData); ok && bd.Kind == object.BuiltinString {
			message = bd.Str
		}
	}
	vm.pending = excAddr
	return &RaisedException{TypeName: typeName, Message: message}
}

// constAddrsFor materializes (once, cached per code object) a heap address
// for every entry in co's constant pool, including nested CodeObject
// constants — themselves stored as a BuiltinCode payload so MakeFunction
// and MakeClass can retrieve the raw *bytecode.CodeObject by address (spec
// §4.2.1's LoadConst note on CodeObject constants).
func (vm *VM) constAddrsFor(co *bytecode.CodeObject) []object.Addr {
	if cached, ok := vm.codeConstCache[co]; ok {
		return cached
	}
	addrs := make([]object.Addr, len(co.Consts))
	for i, c := range co.Consts {
		switch c.Kind {
		case bytecode.ConstInt:
			addrs[i] = vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: c.Int}, vm.wk.IntType)
		case bytecode.ConstFloat:
			addrs[i] = vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: c.Float}, vm.wk.FloatType)
		case bytecode.ConstBool:
			addrs[i] = vm.boolAddr(c.Bool)
		case bytecode.ConstString:
			addrs[i] = vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: c.Str}, vm.wk.StrType)
		case bytecode.ConstNone:
			addrs[i] = vm.wk.NoneAddr
		case bytecode.ConstCode:
			addrs[i] = vm.heap.Allocate(object.BuiltinData{Kind: object.BuiltinCode, Code: c.Code}, vm.wk.CodeType)
		}
	}
	vm.codeConstCache[co] = addrs
	return addrs
}

// buildClass runs a class body's code object as its own frame (its
// top-level assignments become method/field definitions) and produces a
// Type whose Methods table is populated from every Function the body
// defined (spec §4.1.2 ClassDeclaration, §4.2.1 MakeClass).
func (vm *VM) buildClass(co *bytecode.CodeObject) (object.Addr, error) {
	locals := make([]object.Addr, len(co.Names))
	set := make([]bool, len(co.Names))
	frame := newFrame(co, locals, set)
	if _, err := vm.execFrame(frame); err != nil {
		return 0, err
	}

	methods := make(map[string]object.Addr)
	for i, name := range co.Names {
		if !set[i] {
			continue
		}
		addr := locals[i]
		if !vm.heap.Valid(addr) {
			continue
		}
		switch vm.heap.Deref(addr).Structure.(type) {
		case *object.Function, *object.NativeFunction:
			methods[name] = addr
		}
	}

	ty := &object.Type{Name: co.ObjName, Methods: methods}
	return vm.heap.Allocate(ty, object.NilAddr), nil
}
