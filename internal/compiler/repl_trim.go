package compiler

import "github.com/kristofer/horse/internal/bytecode"

// trimREPLPopTop implements spec §4.1.5. A trailing standalone-expression
// statement compiles to `...; PopTop; LoadConst(None); ReturnValue` (the
// PopTop from the expression statement, then the unit's own synthesized
// epilogue). In REPL mode that PopTop sits three instructions from the end;
// removing it leaves the expression's value on the stack for the REPL to
// print.
func trimREPLPopTop(u *unit) {
	n := len(u.co.Instructions)
	if n < 3 {
		return
	}
	if u.co.Instructions[n-3].Op != bytecode.OpPopTop {
		return
	}
	u.co.Instructions = append(u.co.Instructions[:n-3], u.co.Instructions[n-2:]...)
}
