package stdlib

import (
	"fmt"
	"strings"

	"github.com/kristofer/horse/internal/object"
)

// registerCodeObject wires the `code object` introspection type: a single
// __bytecode__ native rendering the instruction list as a debug string.
func registerCodeObject(b *builder) {
	t := b.wk.CodeType
	b.method(t, "__bytecode__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, ok := builtinOf(vm, p.BoundReceiver)
		if !ok || bd.Kind != object.BuiltinCode || bd.Code == nil {
			return typeErr(vm, "code object.__bytecode__", "receiver is not a code object")
		}
		var out strings.Builder
		fmt.Fprintf(&out, "<code %s>\n", bd.Code.ObjName)
		for i, ins := range bd.Code.Instructions {
			fmt.Fprintf(&out, "%4d %-20s %d\n", i, ins.Op, ins.Arg)
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: out.String()}, vm.WellKnown().StrType), nil
	})
	b.method(t, "__repr__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		bd, _ := builtinOf(vm, p.BoundReceiver)
		name := "?"
		if bd.Code != nil {
			name = bd.Code.ObjName
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: "<code object " + name + ">"}, vm.WellKnown().StrType), nil
	})
}
