package stdlib

import "github.com/kristofer/horse/internal/object"

// registerExceptions builds the exception hierarchy of spec §7: a single
// root Exception type, with NameError/AttributeError/TypeError/
// IndexError/ValueError/ZeroDivisionError/StopIteration as direct
// subtypes sharing the root's __init__/__repr__ (single inheritance, spec
// §4.2.3).
func registerExceptions(b *builder) {
	root := b.defineType("Exception")
	b.method(root, "__init__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		if len(p.Args) == 1 {
			vm.Heap().Deref(p.BoundReceiver).Attributes["message"] = p.Args[0]
		}
		return vm.WellKnown().NoneAddr, nil
	})
	b.method(root, "__repr__", func(vm object.NativeVM, p object.CallParams) (object.Addr, error) {
		obj := vm.Heap().Deref(p.BoundReceiver)
		ty := obj.TypeAddr
		name := "Exception"
		if t, ok := vm.Heap().Deref(ty).Structure.(*object.Type); ok {
			name = t.Name
		}
		text := name
		if msgAddr, ok := obj.Attributes["message"]; ok {
			if bd, ok := builtinOf(vm, msgAddr); ok {
				text = name + ": " + bd.Str
			}
		}
		return vm.Heap().Allocate(object.BuiltinData{Kind: object.BuiltinString, Str: text}, vm.WellKnown().StrType), nil
	})
	b.wk.Exception = root

	subtype := func(name string) object.Addr { return b.defineSubtype(name, root) }
	b.wk.NameError = subtype("NameError")
	b.wk.AttributeError = subtype("AttributeError")
	b.wk.TypeError = subtype("TypeError")
	b.wk.IndexError = subtype("IndexError")
	b.wk.ValueError = subtype("ValueError")
	b.wk.ZeroDivisionError = subtype("ZeroDivisionError")
	b.wk.StopIteration = subtype("StopIteration")
}
