package vm_test

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

func run(t *testing.T, src string) *vm.VM {
	t.Helper()
	prog, err := parser.ParseSource(src)
	require.NoError(t, err)
	compiled, err := compiler.New().Compile(prog)
	require.NoError(t, err)

	v := vm.New()
	stdlib.Bootstrap(v)
	_, err = v.RunProgram(compiled)
	require.NoError(t, err)
	return v
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.ParseSource(src)
	require.NoError(t, err)
	compiled, err := compiler.New().Compile(prog)
	require.NoError(t, err)

	v := vm.New()
	stdlib.Bootstrap(v)
	_, err = v.RunProgram(compiled)
	return err
}

func globalRepr(t *testing.T, v *vm.VM, name string) string {
	t.Helper()
	addr, ok := v.Global(name)
	require.True(t, ok, "global %q not found", name)
	reprAddr, err := v.CallMethod(addr, "__repr__", nil)
	require.NoError(t, err)
	s, ok := v.StringOf(reprAddr)
	require.True(t, ok)
	return s
}

func globalInt(t *testing.T, v *vm.VM, name string) string {
	t.Helper()
	addr, ok := v.Global(name)
	require.True(t, ok)
	bd, ok := v.Heap().Deref(addr).Structure.(object.BuiltinData)
	require.True(t, ok)
	require.Equal(t, object.BuiltinInt, bd.Kind)
	return bd.Int.String()
}

func TestArithmeticEndToEnd(t *testing.T) {
	v := run(t, "x = 2 + 3 * 4\n")
	assert.Equal(t, "14", globalInt(t, v, "x"))
}

func TestBitShiftOperators(t *testing.T) {
	v := run(t, "x = 1 << 4\ny = 256 >> 2\n")
	assert.Equal(t, "16", globalInt(t, v, "x"))
	assert.Equal(t, "64", globalInt(t, v, "y"))
}

func TestBoolParticipatesInIntArithmetic(t *testing.T) {
	v := run(t, "x = True + 1\ny = [10, 20][False]\n")
	assert.Equal(t, "2", globalInt(t, v, "x"))
	assert.Equal(t, "10", globalRepr(t, v, "y"))
}

func TestFahrenheitConversionPreservesFloatPrecision(t *testing.T) {
	v := run(t, "celsius = 100\nfahrenheit = celsius * 9 / 5 + 32\n")
	assert.Equal(t, "212", globalRepr(t, v, "fahrenheit"))
}

func TestForLoopOverListIteratesAndTerminates(t *testing.T) {
	v := run(t, "total = 0\nfor i in [1, 2, 3]:\n    total = total + i\n")
	assert.Equal(t, "6", globalInt(t, v, "total"))
}

func TestWhileLoopWithBreak(t *testing.T) {
	v := run(t, "n = 0\nwhile True:\n    n = n + 1\n    if n == 3:\n        break\n")
	assert.Equal(t, "3", globalInt(t, v, "n"))
}

func TestFunctionCallWithDefaultArgument(t *testing.T) {
	v := run(t, "def add(a, b=10):\n    return a + b\nresult = add(5)\n")
	assert.Equal(t, "15", globalInt(t, v, "result"))
}

func TestFunctionCallArityErrorRaisesTypeError(t *testing.T) {
	err := runErr(t, "def add(a, b):\n    return a + b\nadd(1, 2, 3)\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "TypeError", re.TypeName)
}

func TestClassInstantiationRunsInit(t *testing.T) {
	src := "class Point:\n    def __init__(self, x, y):\n        self.x = x\n        self.y = y\n" +
		"p = Point(3, 4)\nx = p.x\ny = p.y\n"
	v := run(t, src)
	assert.Equal(t, "3", globalInt(t, v, "x"))
	assert.Equal(t, "4", globalInt(t, v, "y"))
}

func TestUndefinedNameRaisesNameError(t *testing.T) {
	err := runErr(t, "y = x + 1\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "NameError", re.TypeName)
}

func TestMissingAttributeRaisesAttributeError(t *testing.T) {
	err := runErr(t, "class Empty:\n    def noop(self):\n        return 0\ne = Empty()\nx = e.missing\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "AttributeError", re.TypeName)
}

func TestIndexOutOfRangeRaisesIndexError(t *testing.T) {
	err := runErr(t, "xs = [1, 2]\nv = xs[5]\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "IndexError", re.TypeName)
}

func TestDivisionByZeroRaisesZeroDivisionError(t *testing.T) {
	err := runErr(t, "x = 1 / 0\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "ZeroDivisionError", re.TypeName)
}

func TestExplicitRaisePropagatesToOutermostFrame(t *testing.T) {
	err := runErr(t, "raise ValueError(\"bang\")\n")
	require.Error(t, err)
	re, ok := err.(*vm.RaisedException)
	require.True(t, ok)
	assert.Equal(t, "ValueError", re.TypeName)
	assert.Equal(t, "bang", re.Message)
}

func TestListEqualityIsElementwise(t *testing.T) {
	v := run(t, "a = [1, 2, 3]\nb = [1, 2, 3]\nc = a == b\n")
	addr, ok := v.Global("c")
	require.True(t, ok)
	wk := v.WellKnown()
	assert.Equal(t, wk.TrueAddr, addr)
}

func TestListAppendMutatesInPlace(t *testing.T) {
	v := run(t, "xs = [1, 2]\nxs.append(3)\nn = xs[2]\n")
	assert.Equal(t, "3", globalInt(t, v, "n"))
}
