package stdlib

import (
	"fmt"
	"math"

	"github.com/kristofer/horse/internal/object"
)

// registerMath attaches sin/cos/tanh/sqrt to the __builtins__ module
// members map as free functions, so scripts can call `sqrt(9.0)` directly
// without importing a module.
func registerMath(b *builder, members map[string]object.Addr) {
	members["sin"] = b.global("sin", mathUnary(math.Sin))
	members["cos"] = b.global("cos", mathUnary(math.Cos))
	members["tanh"] = b.global("tanh", mathUnary(math.Tanh))
	members["sqrt"] = b.global("sqrt", mathUnary(math.Sqrt))
}

func mathUnary(fn func(float64) float64) object.NativeFn {
	return func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		if len(p.Args) != 1 {
			return typeErr(vm, "math", "expects exactly one argument")
		}
		bd, ok := builtinOf(vm, p.Args[0])
		if !ok {
			return typeErr(vm, "math", "argument is not numeric")
		}
		var x float64
		switch bd.Kind {
		case object.BuiltinFloat:
			x = bd.Flt
		case object.BuiltinInt:
			x = bd.Int.Float64()
		default:
			return typeErr(vm, "math", "argument is not numeric")
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinFloat, Flt: fn(x)}, vm.WellKnown().FloatType), nil
	}
}

// nativePrint implements the `print` global: renders every argument via
// __str__ and writes them space-separated with a trailing newline, the
// REPL/CLI's only observable output channel besides raised exceptions
// (spec §6).
func nativePrint(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		s, err := stringify(vm, a)
		if err != nil {
			return 0, err
		}
		parts[i] = s
	}
	for i, s := range parts {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(s)
	}
	fmt.Println()
	return vm.WellKnown().NoneAddr, nil
}

func nativePrintln(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
	return nativePrint(vm, p)
}

func stringify(vm object.NativeVM, a object.Addr) (string, error) {
	addr, err := vm.CallMethod(a, "__str__", nil)
	if err != nil {
		return "", err
	}
	bd, ok := builtinOf(vm, addr)
	if !ok || bd.Kind != object.BuiltinString {
		return "", nil
	}
	return bd.Str, nil
}
