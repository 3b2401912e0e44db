package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/horse/internal/compiler"
	"github.com/kristofer/horse/internal/object"
	"github.com/kristofer/horse/internal/parser"
	"github.com/kristofer/horse/internal/stdlib"
	"github.com/kristofer/horse/internal/vm"
)

func eval(t *testing.T, src string) (*vm.VM, object.Addr) {
	t.Helper()
	prog, err := parser.ParseSource(src)
	require.NoError(t, err)
	compiled, err := compiler.New().CompileREPL(prog)
	require.NoError(t, err)

	v := vm.New()
	stdlib.Bootstrap(v)
	result, err := v.RunProgram(compiled)
	require.NoError(t, err)
	return v, result
}

func repr(t *testing.T, v *vm.VM, addr object.Addr) string {
	t.Helper()
	reprAddr, err := v.CallMethod(addr, "__repr__", nil)
	require.NoError(t, err)
	s, ok := v.StringOf(reprAddr)
	require.True(t, ok)
	return s
}

func TestIntWraparoundThroughAdd(t *testing.T) {
	v, addr := eval(t, "170141183460469231731687303715884105727 + 1\n")
	assert.Equal(t, "-170141183460469231731687303715884105728", repr(t, v, addr))
}

func TestIntModUsesSignOfDivisor(t *testing.T) {
	v, addr := eval(t, "-7 % 3\n")
	assert.Equal(t, "2", repr(t, v, addr))
}

func TestIntModDivisionByZeroRaises(t *testing.T) {
	prog, err := parser.ParseSource("5 % 0\n")
	require.NoError(t, err)
	compiled, err := compiler.New().CompileREPL(prog)
	require.NoError(t, err)

	v := vm.New()
	stdlib.Bootstrap(v)
	_, err = v.RunProgram(compiled)
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "ZeroDivisionError", re.TypeName)
}

func TestStrLowerUpper(t *testing.T) {
	v, addr := eval(t, "\"Hello\".upper()\n")
	assert.Equal(t, "'HELLO'", repr(t, v, addr))

	v, addr = eval(t, "\"Hello\".lower()\n")
	assert.Equal(t, "'hello'", repr(t, v, addr))
}

func TestListReprJoinsElementRepr(t *testing.T) {
	v, addr := eval(t, "[1, \"x\", True]\n")
	assert.Equal(t, "[1, 'x', True]", repr(t, v, addr))
}

func TestListIterationYieldsStopIterationNotLenAlias(t *testing.T) {
	v, addr := eval(t, "[10, 20].__iter__()\n")
	wk := v.WellKnown()

	next, err := v.CallMethod(addr, "__next__", nil)
	require.NoError(t, err)
	assert.Equal(t, "10", repr(t, v, next))

	next, err = v.CallMethod(addr, "__next__", nil)
	require.NoError(t, err)
	assert.Equal(t, "20", repr(t, v, next))

	_, err = v.CallMethod(addr, "__next__", nil)
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "StopIteration", re.TypeName)
	_ = wk
}

func TestExceptionReprIncludesMessage(t *testing.T) {
	v, addr := eval(t, "ValueError(\"bad input\")\n")
	assert.Equal(t, "ValueError: bad input", repr(t, v, addr))
}

func TestExceptionReprWithoutMessage(t *testing.T) {
	v, addr := eval(t, "Exception()\n")
	assert.Equal(t, "Exception", repr(t, v, addr))
}

func TestCodeObjectBytecodeIntrospection(t *testing.T) {
	prog, err := parser.ParseSource("def f():\n    return 1\n")
	require.NoError(t, err)
	compiled, err := compiler.New().Compile(prog)
	require.NoError(t, err)
	require.Len(t, compiled.CodeObjects, 2)

	v := vm.New()
	stdlib.Bootstrap(v)
	_, err = v.RunProgram(compiled)
	require.NoError(t, err)

	fnAddr, ok := v.Global("f")
	require.True(t, ok)
	bd, ok := v.Heap().Deref(fnAddr).Structure.(*object.Function)
	require.True(t, ok)
	assert.Equal(t, "f", bd.Code.ObjName)

	codeAddr, err := v.LoadAttribute(fnAddr, "__code__")
	require.NoError(t, err)
	disAddr, err := v.CallMethod(codeAddr, "__bytecode__", nil)
	require.NoError(t, err)
	dis, ok := v.StringOf(disAddr)
	require.True(t, ok)
	assert.Contains(t, dis, "<code f>")
	assert.Contains(t, dis, "RETURN_VALUE")
}

func TestMathSqrtViaBuiltinsModule(t *testing.T) {
	v, addr := eval(t, "sqrt(9.0)\n")
	assert.Equal(t, "3", repr(t, v, addr))
}

func TestBoolNotFlipsValue(t *testing.T) {
	v, addr := eval(t, "True.__not__()\n")
	assert.Equal(t, "False", repr(t, v, addr))
}

func TestBoolEqualityAndRepr(t *testing.T) {
	v, addr := eval(t, "False == False\n")
	assert.Equal(t, "True", repr(t, v, addr))
}

func TestNoneReprAndEquality(t *testing.T) {
	v, addr := eval(t, "None == None\n")
	assert.Equal(t, "True", repr(t, v, addr))
}

func TestNoneRepr(t *testing.T) {
	v, addr := eval(t, "None\n")
	assert.Equal(t, "None", repr(t, v, addr))
}
