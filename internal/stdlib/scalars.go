package stdlib

import (
	"strconv"

	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
)

// registerScalars wires int, float, bool, str, and none, each following
// the same create-type-then-attach-native-methods pattern.
func registerScalars(b *builder) {
	registerInt(b)
	registerFloat(b)
	registerBool(b)
	registerStr(b)
	registerNone(b)
}

func registerInt(b *builder) {
	t := b.wk.IntType
	b.method(t, "__add__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__add__", "operand is not an int")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: lhs.Add(rhs)}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__sub__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__sub__", "operand is not an int")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: lhs.Sub(rhs)}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__mul__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__mul__", "operand is not an int")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: lhs.Mul(rhs)}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__truediv__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__truediv__", "operand is not an int")
		}
		if rhs.IsZero() {
			return 0, vm.RaiseNative("ZeroDivisionError", "division by zero")
		}
		result := lhs.Float64() / rhs.Float64()
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: result}, vm.WellKnown().FloatType), nil
	})
	b.method(t, "__mod__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__mod__", "operand is not an int")
		}
		result, ok := lhs.Mod(rhs)
		if !ok {
			return 0, vm.RaiseNative("ZeroDivisionError", "modulo by zero")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: result}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		return boolResult(vm, ok && lhs.Cmp(rhs) == 0), nil
	})
	b.method(t, "__ne__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		return boolResult(vm, !(ok && lhs.Cmp(rhs) == 0)), nil
	})
	b.method(t, "__lt__", intCompare(func(c int) bool { return c < 0 }))
	b.method(t, "__gt__", intCompare(func(c int) bool { return c > 0 }))
	b.method(t, "__le__", intCompare(func(c int) bool { return c <= 0 }))
	b.method(t, "__ge__", intCompare(func(c int) bool { return c >= 0 }))
	b.method(t, "__neg__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: bd.Int.Neg()}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__pos__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		return p.BoundReceiver, nil
	})
	b.method(t, "__lshift__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__lshift__", "operand is not an int")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: lhs.Shl(rhs)}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__rshift__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.__rshift__", "operand is not an int")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: lhs.Shr(rhs)}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__repr__", intRepr)
	b.method(t, "__str__", intRepr)
	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, !bd.Int.IsZero()), nil
	})
}

func intPair(vm object.NativeVM, p object.CallParams) (bytecode.Int128, bytecode.Int128, bool) {
	if !p.HasReceiver || len(p.Args) != 1 {
		return bytecode.Int128{}, bytecode.Int128{}, false
	}
	lbd, lok := builtinOf(vm, p.BoundReceiver)
	rbd, rok := builtinOf(vm, p.Args[0])
	if !lok || !rok || lbd.Kind != object.BuiltinInt || rbd.Kind != object.BuiltinInt {
		return bytecode.Int128{}, bytecode.Int128{}, false
	}
	return lbd.Int, rbd.Int, true
}

func intCompare(pred func(int) bool) object.NativeFn {
	return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		if !ok {
			return typeErr(vm, "int.compare", "operand is not an int")
		}
		return boolResult(vm, pred(lhs.Cmp(rhs))), nil
	}
}

func intRepr(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	bd, _ := builtinOf(vm, p.BoundReceiver)
	return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: bd.Int.String()}, vm.WellKnown().StrType), nil
}

func boolResult(vm object.NativeVM, v bool) object.Addr {
	if v {
		return vm.WellKnown().TrueAddr
	}
	return vm.WellKnown().FalseAddr
}

func registerFloat(b *builder) {
	t := b.wk.FloatType
	arith := func(op func(a, b float64) float64) object.NativeFn {
		return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
			lhs, rhs, ok := floatPair(vm, p)
			if !ok {
				return typeErr(vm, "float", "operand is not a float")
			}
			return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: op(lhs, rhs)}, vm.WellKnown().FloatType), nil
		}
	}
	b.method(t, "__add__", arith(func(a, c float64) float64 { return a + c }))
	b.method(t, "__sub__", arith(func(a, c float64) float64 { return a - c }))
	b.method(t, "__mul__", arith(func(a, c float64) float64 { return a * c }))
	b.method(t, "__truediv__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := floatPair(vm, p)
		if !ok {
			return typeErr(vm, "float.__truediv__", "operand is not a float")
		}
		if rhs == 0 {
			return 0, vm.RaiseNative("ZeroDivisionError", "float division by zero")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: lhs / rhs}, vm.WellKnown().FloatType), nil
	})
	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := floatPair(vm, p)
		return boolResult(vm, ok && lhs == rhs), nil
	})
	b.method(t, "__ne__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := floatPair(vm, p)
		return boolResult(vm, !(ok && lhs == rhs)), nil
	})
	b.method(t, "__lt__", floatCompare(func(a, c float64) bool { return a < c }))
	b.method(t, "__gt__", floatCompare(func(a, c float64) bool { return a > c }))
	b.method(t, "__le__", floatCompare(func(a, c float64) bool { return a <= c }))
	b.method(t, "__ge__", floatCompare(func(a, c float64) bool { return a >= c }))
	b.method(t, "__neg__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: -bd.Flt}, vm.WellKnown().FloatType), nil
	})
	b.method(t, "__repr__", floatRepr)
	b.method(t, "__str__", floatRepr)
	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, bd.Flt != 0), nil
	})
}

func floatPair(vm object.NativeVM, p object.CallParams) (float64, float64, bool) {
	if !p.HasReceiver || len(p.Args) != 1 {
		return 0, 0, false
	}
	lbd, lok := builtinOf(vm, p.BoundReceiver)
	rbd, rok := builtinOf(vm, p.Args[0])
	if !lok || !rok {
		return 0, 0, false
	}
	left := lbd.Flt
	if lbd.Kind == object.BuiltinInt {
		left = lbd.Int.Float64()
	}
	right := rbd.Flt
	if rbd.Kind == object.BuiltinInt {
		right = rbd.Int.Float64()
	}
	return left, right, true
}

func floatCompare(pred func(a, b float64) bool) object.NativeFn {
	return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := floatPair(vm, p)
		if !ok {
			return typeErr(vm, "float.compare", "operand is not a float")
		}
		return boolResult(vm, pred(lhs, rhs)), nil
	}
}

func floatRepr(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	bd, _ := builtinOf(vm, p.BoundReceiver)
	return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: strconv.FormatFloat(bd.Flt, 'g', -1, 64)}, vm.WellKnown().StrType), nil
}

// bool carries no arithmetic of its own: it is a subtype of int (see
// Bootstrap) and its payload is a BuiltinInt holding 0 or 1 (spec §3), so
// int.__add__/__truediv__/etc. are found on a bool receiver and accept a
// bool operand. Only the methods whose result must read as a bool literal
// (equality, negation, truthiness, repr) are registered here.
func registerBool(b *builder) {
	t := b.wk.BoolType
	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := intPair(vm, p)
		return boolResult(vm, ok && lhs.Cmp(rhs) == 0), nil
	})
	b.method(t, "__not__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, bd.Int.IsZero()), nil
	})
	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, !bd.Int.IsZero()), nil
	})
	b.method(t, "__repr__", boolRepr)
	b.method(t, "__str__", boolRepr)
}

func boolRepr(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	bd, _ := builtinOf(vm, p.BoundReceiver)
	text := "False"
	if !bd.Int.IsZero() {
		text = "True"
	}
	return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: text}, vm.WellKnown().StrType), nil
}

func registerStr(b *builder) {
	t := b.wk.StrType
	b.method(t, "__add__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := strPair(vm, p)
		if !ok {
			return typeErr(vm, "str.__add__", "operand is not a str")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: lhs + rhs}, vm.WellKnown().StrType), nil
	})
	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := strPair(vm, p)
		return boolResult(vm, ok && lhs == rhs), nil
	})
	b.method(t, "__ne__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		lhs, rhs, ok := strPair(vm, p)
		return boolResult(vm, !(ok && lhs == rhs)), nil
	})
	b.method(t, "__len__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: bytecode.NewInt128FromInt64(int64(len(bd.Str)))}, vm.WellKnown().IntType), nil
	})
	b.method(t, "__getitem__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		idxBd, ok := builtinOf(vm, p.Args[0])
		if !ok || idxBd.Kind != object.BuiltinInt {
			return typeErr(vm, "str.__getitem__", "index is not an int")
		}
		i := int(idxBd.Int.Int64())
		if i < 0 || i >= len(bd.Str) {
			return 0, vm.RaiseNative("IndexError", "string index out of range")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: string(bd.Str[i])}, vm.WellKnown().StrType), nil
	})
	b.method(t, "__repr__", strRepr)
	b.method(t, "__str__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		return p.BoundReceiver, nil
	})
	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return boolResult(vm, bd.Str != ""), nil
	})
	b.method(t, "lower", strCase(func(s string) string { return lowerASCII(s) }))
	b.method(t, "upper", strCase(func(s string) string { return upperASCII(s) }))
}

func strPair(vm object.NativeVM, p object.CallParams) (string, string, bool) {
	if !p.HasReceiver || len(p.Args) != 1 {
		return "", "", false
	}
	lbd, lok := builtinOf(vm, p.BoundReceiver)
	rbd, rok := builtinOf(vm, p.Args[0])
	if !lok || !rok || lbd.Kind != object.BuiltinString || rbd.Kind != object.BuiltinString {
		return "", "", false
	}
	return lbd.Str, rbd.Str, true
}

func strRepr(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	bd, _ := builtinOf(vm, p.BoundReceiver)
	return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: "'" + bd.Str + "'"}, vm.WellKnown().StrType), nil
}

func strCase(transform func(string) string) object.NativeFn {
	return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: transform(bd.Str)}, vm.WellKnown().StrType), nil
	}
}

func lowerASCII(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + ('a' - 'A')
		}
	}
	return string(out)
}

func upperASCII(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

func registerNone(b *builder) {
	t := b.wk.NoneType
	b.method(t, "__eq__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		return boolResult(vm, len(p.Args) == 1 && p.Args[0] == vm.WellKnown().NoneAddr), nil
	})
	b.method(t, "__bool__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		return vm.WellKnown().FalseAddr, nil
	})
	b.method(t, "__repr__", noneRepr)
	b.method(t, "__str__", noneRepr)
}

func noneRepr(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: "None"}, vm.WellKnown().StrType), nil
}
