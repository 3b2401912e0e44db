package stdlib

import (
	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/object"
	"github.com/kristofer/horse/internal/vm"
)

// Bootstrap populates a bare VM (internal/vm.New()) with every built-in
// type, the exception hierarchy, and the `__builtins__` module, then
// exposes the module itself, each of its members (types, exceptions, math
// natives) and `print`/`println` as top-level globals, per the one-time
// startup sequence spec §6 describes.
func Bootstrap(v *vm.VM) {
	wk := v.WellKnown()
	b := &builder{heap: v.Heap(), wk: wk}

	wk.NoneType = b.defineType("none")
	wk.IntType = b.defineType("int")
	wk.BoolType = b.defineSubtype("bool", wk.IntType)
	wk.FloatType = b.defineType("float")
	wk.StrType = b.defineType("str")
	wk.ListType = b.defineType("list")
	wk.CodeType = b.defineType("code object")
	wk.ModuleType = b.defineType("module")
	wk.FuncType = b.defineType("function")

	wk.NoneAddr = b.heap.Allocate(object.BuiltinData{Kind: object.BuiltinNone}, wk.NoneType)
	wk.TrueAddr = b.heap.Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: bytecode.NewInt128FromInt64(1)}, wk.BoolType)
	wk.FalseAddr = b.heap.Allocate(object.BuiltinData{Kind: object.BuiltinInt, Int: bytecode.NewInt128FromInt64(0)}, wk.BoolType)

	registerScalars(b)
	registerList(b)
	registerCodeObject(b)
	registerExceptions(b)

	members := map[string]object.Addr{
		"int":               wk.IntType,
		"float":             wk.FloatType,
		"bool":              wk.BoolType,
		"str":               wk.StrType,
		"list":              wk.ListType,
		"none":              wk.NoneType,
		"Exception":         wk.Exception,
		"NameError":         wk.NameError,
		"AttributeError":    wk.AttributeError,
		"TypeError":         wk.TypeError,
		"IndexError":        wk.IndexError,
		"ValueError":        wk.ValueError,
		"ZeroDivisionError": wk.ZeroDivisionError,
		"StopIteration":     wk.StopIteration,
	}
	registerMath(b, members)

	wk.BuiltinsModule = b.heap.Allocate(&object.Module{Name: "__builtins__", Members: members}, wk.ModuleType)

	v.DefineGlobal("__builtins__", wk.BuiltinsModule)
	v.DefineGlobal("print", b.global("print", nativePrint))
	v.DefineGlobal("println", b.global("println", nativePrintln))
	for name, addr := range members {
		v.DefineGlobal(name, addr)
	}
}
