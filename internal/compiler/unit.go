// Package compiler lowers an AST (internal/ast) into bytecode
// (internal/bytecode), following spec §4.1. A small unit struct
// accumulates instructions and a constant pool behind an emit/addConst
// pair; two-pass name resolution, per-AST-node lowering rules, and
// backpatched control flow build on top of that.
package compiler

import "github.com/kristofer/horse/internal/bytecode"

// unit accumulates the instructions and constant pool for one code object
// (the top-level program, or one function/class body) during pass 1.
type unit struct {
	co        *bytecode.CodeObject
	constKeys map[string]int
}

func newUnit(name string, params []string, main bool) *unit {
	return &unit{
		co:        &bytecode.CodeObject{ObjName: name, Params: params, Main: main},
		constKeys: make(map[string]int),
	}
}

func (u *unit) emit(op bytecode.Opcode, arg int) int {
	u.co.Instructions = append(u.co.Instructions, bytecode.Instruction{Op: op, Arg: arg})
	return len(u.co.Instructions) - 1
}

func (u *unit) emitNamed(op bytecode.Opcode, name string) int {
	u.co.Instructions = append(u.co.Instructions, bytecode.Instruction{Op: op, Name: name})
	return len(u.co.Instructions) - 1
}

func (u *unit) here() int { return len(u.co.Instructions) }

func (u *unit) patchArg(pos int, arg int) {
	u.co.Instructions[pos].Arg = arg
}

// addConst interns c into the unit's constant pool, deduping scalar
// constants by value (spec §3: "Constants are interned per compilation
// unit"). CodeObject constants are never deduped: each is unique by
// construction.
func (u *unit) addConst(c bytecode.Const) int {
	if c.Kind != bytecode.ConstCode {
		if idx, ok := u.constKeys[c.Key()]; ok {
			return idx
		}
	}
	idx := len(u.co.Consts)
	u.co.Consts = append(u.co.Consts, c)
	if c.Kind != bytecode.ConstCode {
		u.constKeys[c.Key()] = idx
	}
	return idx
}
