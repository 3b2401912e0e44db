package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/horse/internal/bytecode"
	"github.com/kristofer/horse/internal/parser"
)

func compileSource(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	prog, err := parser.ParseSource(src)
	require.NoError(t, err)
	compiled, err := New().Compile(prog)
	require.NoError(t, err)
	return compiled
}

func TestCompileMainEndsInReturn(t *testing.T) {
	compiled := compileSource(t, "x = 1\n")
	main := compiled.CodeObjects[0]
	last := main.Instructions[len(main.Instructions)-1]
	assert.Equal(t, bytecode.OpReturnValue, last.Op)
}

func TestCompileConstantsAreDeduped(t *testing.T) {
	compiled := compileSource(t, "x = 1\ny = 1\n")
	main := compiled.CodeObjects[0]

	count := 0
	for _, k := range main.Consts {
		if k.Kind == bytecode.ConstInt && k.Int.String() == "1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCompileIfElifElseDesugarsToNestedJumps(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	compiled := compileSource(t, src)
	main := compiled.CodeObjects[0]

	jumps := 0
	for _, ins := range main.Instructions {
		if ins.Op == bytecode.OpJumpIfFalseAndPopStack {
			jumps++
		}
	}
	assert.Equal(t, 2, jumps, "elif desugars into a second conditional jump")
}

func TestCompileFunctionBecomesNestedCodeObject(t *testing.T) {
	compiled := compileSource(t, "def add(a, b):\n    return a + b\n")
	require.Len(t, compiled.CodeObjects, 2)
	assert.Equal(t, "add", compiled.CodeObjects[1].ObjName)
	assert.Equal(t, []string{"a", "b"}, compiled.CodeObjects[1].Params)
}

func TestCompileClassMethodsAreQualified(t *testing.T) {
	src := "class Point:\n    def __init__(self, x):\n        self.x = x\n"
	compiled := compileSource(t, src)
	require.Len(t, compiled.CodeObjects, 3)
	assert.Equal(t, "Point", compiled.CodeObjects[1].ObjName)
	assert.Equal(t, "Point.__init__", compiled.CodeObjects[2].ObjName)
}

func TestCompileBreakPatchedToLoopExit(t *testing.T) {
	src := "while x:\n    if y:\n        break\n"
	compiled := compileSource(t, src)
	main := compiled.CodeObjects[0]
	for _, ins := range main.Instructions {
		assert.NotEqual(t, bytecode.OpUnresolvedBreak, ins.Op)
	}
}

func TestCompileREPLTrimsTrailingPopTop(t *testing.T) {
	prog, err := parser.ParseSource("1 + 1\n")
	require.NoError(t, err)
	compiled, err := New().CompileREPL(prog)
	require.NoError(t, err)
	main := compiled.CodeObjects[0]

	for _, ins := range main.Instructions {
		assert.NotEqual(t, bytecode.OpPopTop, ins.Op)
	}
}

func TestCompileLoadBeforeDottedStoreResolvesToLoadName(t *testing.T) {
	// "field" is loaded (via print) before it is ever used as the
	// attribute of a dotted assignment; the pre-scan must seed a slot for
	// it from the StoreAttr occurrence so the earlier load resolves to
	// LoadName rather than LoadGlobal (spec §4.1.3 step 2).
	compiled := compileSource(t, "print(field)\nobj.field = 5\n")
	main := compiled.CodeObjects[0]

	var storeAttrSlot = -1
	for _, ins := range main.Instructions {
		if ins.Op == bytecode.OpStoreAttr {
			storeAttrSlot = ins.Arg
		}
	}
	require.NotEqual(t, -1, storeAttrSlot, "expected a resolved StoreAttr instruction")

	found := false
	for _, ins := range main.Instructions {
		if ins.Op == bytecode.OpLoadGlobal && ins.Arg == storeAttrSlot {
			t.Fatalf("load of %q resolved to LoadGlobal instead of LoadName", "field")
		}
		if ins.Op == bytecode.OpLoadName && ins.Arg == storeAttrSlot {
			found = true
		}
	}
	assert.True(t, found, "expected a LoadName instruction sharing the StoreAttr slot")
}

func TestCompileUnresolvedNamesAreResolved(t *testing.T) {
	compiled := compileSource(t, "x = 1\ny = x\n")
	main := compiled.CodeObjects[0]
	for _, ins := range main.Instructions {
		switch ins.Op {
		case bytecode.OpUnresolvedLoadName, bytecode.OpUnresolvedStoreName,
			bytecode.OpUnresolvedStoreAttr, bytecode.OpUnresolvedBreak:
			t.Fatalf("unresolved opcode %v leaked past name resolution", ins.Op)
		}
	}
}
