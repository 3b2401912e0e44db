package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/horse/internal/ast"
)

func TestParseSimpleAssignment(t *testing.T) {
	prog, err := ParseSource("x = 1 + 2\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	assign, ok := prog.Statements[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, assign.Path)

	bin, ok := assign.Expression.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.OpPlus, bin.Op)
}

func TestParseDottedAssignmentPath(t *testing.T) {
	prog, err := ParseSource("a.b.c = 1\n")
	require.NoError(t, err)
	assign, ok := prog.Statements[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, assign.Path)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x:\n    y = 1\nelif z:\n    y = 2\nelse:\n    y = 3\n"
	prog, err := ParseSource(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.Len(t, stmt.Elifs, 1)
	assert.NotNil(t, stmt.FinalElse)
}

func TestParseWhileLoop(t *testing.T) {
	src := "while x:\n    x = x - 1\n"
	prog, err := ParseSource(src)
	require.NoError(t, err)
	_, ok := prog.Statements[0].(*ast.WhileStatement)
	assert.True(t, ok)
}

func TestParseForLoop(t *testing.T) {
	src := "for i in xs:\n    print(i)\n"
	prog, err := ParseSource(src)
	require.NoError(t, err)
	stmt, ok := prog.Statements[0].(*ast.ForStatement)
	require.True(t, ok)
	assert.Equal(t, "i", stmt.ItemName)
}

func TestParseFunctionWithDefaults(t *testing.T) {
	src := "def add(a, b=1):\n    return a + b\n"
	prog, err := ParseSource(src)
	require.NoError(t, err)
	fn, ok := prog.Statements[0].(*ast.DeclareFunction)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 2)
	assert.Nil(t, fn.Parameters[0].Default)
	assert.NotNil(t, fn.Parameters[1].Default)
}

func TestParseClassDeclaration(t *testing.T) {
	src := "class Point:\n    def __init__(self, x):\n        self.x = x\n"
	prog, err := ParseSource(src)
	require.NoError(t, err)
	cls, ok := prog.Statements[0].(*ast.ClassDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Point", cls.ClassName)
	require.Len(t, cls.Body, 1)
}

func TestParseSingleLineBlock(t *testing.T) {
	prog, err := ParseSource("if x: return 1\n")
	require.NoError(t, err)
	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, stmt.Body, 1)
}

func TestParseInvalidAssignmentTargetErrors(t *testing.T) {
	_, err := ParseSource("1 = 2\n")
	assert.Error(t, err)
}

func TestParseRaiseAndBreak(t *testing.T) {
	src := "while x:\n    if y:\n        break\n    raise z\n"
	_, err := ParseSource(src)
	assert.NoError(t, err)
}
