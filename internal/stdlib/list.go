package stdlib

import (
	"strings"

	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
)

// registerList wires list and its iterator type (spec §9):
//
//  1. equals compares elementwise by index with early exit and returns the
//     correct boolean.
//  2. __iter__ returns a genuine stateful iterator object implementing
//     __next__, rather than aliasing __iter__ directly to `len`, which
//     cannot iterate at all.
func registerList(b *builder) object.Addr {
	t := b.wk.ListType
	iterType := b.defineType("list_iterator")

	b.method(t, "__add__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := listPair(vm, p)
		if !ok {
			return typeErr(vm, "list.__add__", "operand is not a list")
		}
		out := make([]object.Addr, 0, len(lhs)+len(rhs))
		out = append(out, lhs...)
		out = append(out, rhs...)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinList, List: out}, vm.WellKnown().ListType), nil
	})

	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := listPair(vm, p)
		if !ok {
			return vm.WellKnown().FalseAddr, nil
		}
		return boolResult(vm, listElementsEqual(vm, lhs, rhs)), nil
	})
	b.method(t, "__ne__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := listPair(vm, p)
		return boolResult(vm, !(ok && listElementsEqual(vm, lhs, rhs))), nil
	})

	b.method(t, "__len__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: bytecode.NewInt128FromInt64(int64(len(bd.List)))}, vm.WellKnown().IntType), nil
	})

	b.method(t, "__getitem__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		idxBd, ok := builtinOf(vm, p.Args[0])
		if !ok || idxBd.Kind != object.BuiltinInt {
			return typeErr(vm, "list.__getitem__", "index is not an int")
		}
		i := int(idxBd.Int.Int64())
		if i < 0 || i >= len(bd.List) {
			return 0, vm.RaiseNative("IndexError", "list index out of range")
		}
		return bd.List[i], nil
	})

	b.method(t, "append", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		obj := vm.Heap().Deref(p.BoundReceiver)
		bd := obj.Structure.(object.BuiltinData)
		bd.List = append(bd.List, p.Args[0])
		obj.Structure = bd
		return vm.WellKnown().NoneAddr, nil
	})

	b.method(t, "extend", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		other, ok := builtinOf(vm, p.Args[0])
		if !ok || other.Kind != object.BuiltinList {
			return typeErr(vm, "list.extend", "argument is not a list")
		}
		obj := vm.Heap().Deref(p.BoundReceiver)
		bd := obj.Structure.(object.BuiltinData)
		bd.List = append(bd.List, other.List...)
		obj.Structure = bd
		return vm.WellKnown().NoneAddr, nil
	})

	b.method(t, "__repr__", listReprFunc(", "))
	b.method(t, "__str__", listReprFunc(", "))

	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, len(bd.List) != 0), nil
	})

	b.method(t, "__iter__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		snapshot := append([]object.Addr{}, bd.List...)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinListIterator, IterList: &snapshot}, iterType), nil
	})

	b.method(iterType, "__next__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		obj := vm.Heap().Deref(p.BoundReceiver)
		bd := obj.Structure.(object.BuiltinData)
		if bd.IterPos >= len(*bd.IterList) {
			return 0, vm.RaiseNative("StopIteration", "iterator exhausted")
		}
		v := (*bd.IterList)[bd.IterPos]
		bd.IterPos++
		obj.Structure = bd
		return v, nil
	})
	b.method(iterType, "__iter__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		return p.BoundReceiver, nil
	})

	return iterType
}

func listPair(vm object.NativeVM, p object.CallParams) ([]object.Addr, []object.Addr, bool) {
	if !p.HasReceiver || len(p.Args) != 1 {
		return nil, nil, false
	}
	lbd, lok := builtinOf(vm, p.BoundReceiver)
	rbd, rok := builtinOf(vm, p.Args[0])
	if !lok || !rok || lbd.Kind != object.BuiltinList || rbd.Kind != object.BuiltinList {
		return nil, nil, false
	}
	return lbd.List, rbd.List, true
}

// listElementsEqual compares two lists index by index, stopping at the
// first mismatch — correcting list_type.rs's O(n^2) pairwise scan and its
// inverted final return.
func listElementsEqual(vm object.NativeVM, lhs, rhs []object.Addr) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	for i := range lhs {
		eq, err := vm.CallMethod(lhs[i], "__eq__", []object.Addr{rhs[i]})
		if err != nil || eq != vm.WellKnown().TrueAddr {
			return false
		}
	}
	return true
}

func listReprFunc(sep string) object.NativeFn {
	return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		parts := make([]string, len(bd.List))
		for i, elem := range bd.List {
			reprAddr, err := vm.CallMethod(elem, "__repr__", nil)
			if err != nil {
				return 0, err
			}
			rbd, _ := builtinOf(vm, reprAddr)
			parts[i] = rbd.Str
		}
		text := "[" + strings.Join(parts, sep) + "]"
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: text}, vm.WellKnown().StrType), nil
	}
}
