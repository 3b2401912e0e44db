package compiler

import (
	"github.com/kristofer/horse/internal/ast"
	"github.com/kristofer/horse/internal/bytecode"
)

// Compiler turns a parsed Program into bytecode. It carries no state
// between calls to Compile/CompileREPL — each call starts a fresh
// top-level unit.
type Compiler struct{}

// New creates a Compiler.
func New() *Compiler { return &Compiler{} }

// Compile lowers a full program into a Program whose first code object is
// the top-level `__main__` unit (spec §4.1, "main = true").
func (c *Compiler) Compile(prog *ast.Program) (*bytecode.Program, error) {
	return c.compile(prog, false)
}

// CompileREPL behaves like Compile but applies the REPL trailing-PopTop
// trimming rule of spec §4.1.5, so a final standalone-expression statement
// leaves its value on the stack for the REPL to print.
func (c *Compiler) CompileREPL(prog *ast.Program) (*bytecode.Program, error) {
	return c.compile(prog, true)
}

func (c *Compiler) compile(prog *ast.Program, replMode bool) (*bytecode.Program, error) {
	main := newUnit("__main__", nil, true)
	if err := compileStmts(main, prog.Statements); err != nil {
		return nil, err
	}
	idx := main.addConst(bytecode.NoneConst())
	main.emit(bytecode.OpLoadConst, idx)
	main.emit(bytecode.OpReturnValue, 0)

	if replMode {
		trimREPLPopTop(main)
	}

	resolveNames(main.co)

	objs := []*bytecode.CodeObject{main.co}
	objs = append(objs, collectNested(main.co)...)

	return &bytecode.Program{Version: 1, CodeObjects: objs}, nil
}

// collectNested walks a code object's constant pool for nested CodeObject
// constants, recursively, in encounter order — these are the "remainder"
// code objects spec §4.1 refers to as "nested functions and classes
// referenced by CodeObject constants".
func collectNested(co *bytecode.CodeObject) []*bytecode.CodeObject {
	var out []*bytecode.CodeObject
	for _, k := range co.Consts {
		if k.Kind == bytecode.ConstCode && k.Code != nil {
			out = append(out, k.Code)
			out = append(out, collectNested(k.Code)...)
		}
	}
	return out
}
