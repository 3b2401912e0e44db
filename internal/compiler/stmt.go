package compiler

import (
	"fmt"

	"github.com/kristofer/horse/internal/ast"
	"github.com/kristofer/horse/internal/bytecode"
)

// compileStmts compiles a statement list, patching any UnresolvedBreak
// sentinels left by nested loops that belong to THIS list's innermost loop
// is the caller's job, not this function's — compileStmts just compiles
// each statement in order.
func compileStmts(u *unit, stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := compileStmt(u, s); err != nil {
			return err
		}
	}
	return nil
}

func compileStmt(u *unit, s ast.Statement) error {
	switch v := s.(type) {
	case *ast.StandaloneExpr:
		if err := compileExpr(u, v.Expression); err != nil {
			return err
		}
		u.emit(bytecode.OpPopTop, 0)
		return nil

	case *ast.Assign:
		if err := compileExpr(u, v.Expression); err != nil {
			return err
		}
		return compileAssignTarget(u, v.Path)

	case *ast.Return:
		if v.Expression != nil {
			if err := compileExpr(u, v.Expression); err != nil {
				return err
			}
		} else {
			idx := u.addConst(bytecode.NoneConst())
			u.emit(bytecode.OpLoadConst, idx)
		}
		u.emit(bytecode.OpReturnValue, 0)
		return nil

	case *ast.Raise:
		if err := compileExpr(u, v.Expression); err != nil {
			return err
		}
		u.emit(bytecode.OpRaise, 0)
		// Synthesized so the instruction stream stays well-formed even
		// though unwind currently always propagates to program exit
		// (spec §4.1.2, §4.2.4).
		idx := u.addConst(bytecode.NoneConst())
		u.emit(bytecode.OpLoadConst, idx)
		u.emit(bytecode.OpReturnValue, 0)
		return nil

	case *ast.Break:
		u.emit(bytecode.OpUnresolvedBreak, 0)
		return nil

	case *ast.IfStatement:
		return compileIf(u, v)

	case *ast.WhileStatement:
		return compileWhile(u, v)

	case *ast.ForStatement:
		return compileFor(u, v)

	case *ast.DeclareFunction:
		return compileDeclareFunction(u, v)

	case *ast.ClassDeclaration:
		return compileClassDeclaration(u, v)

	default:
		return fmt.Errorf("compiler: unknown statement type %T", s)
	}
}

// compileAssignTarget lowers `path = <value already on stack>` per spec
// §4.1.2: a single-element path is a plain name store; a longer path loads
// every intermediate component and stores the final one.
func compileAssignTarget(u *unit, path []string) error {
	if len(path) == 0 {
		return fmt.Errorf("compiler: empty assignment path")
	}
	if len(path) == 1 {
		u.emitNamed(bytecode.OpUnresolvedStoreName, path[0])
		return nil
	}
	u.emitNamed(bytecode.OpUnresolvedLoadName, path[0])
	for _, mid := range path[1 : len(path)-1] {
		u.emitNamed(bytecode.OpLoadAttr, mid)
	}
	u.emitNamed(bytecode.OpUnresolvedStoreAttr, path[len(path)-1])
	return nil
}

// compileIf desugars `elif` into nested if/else before lowering (spec §9
// open question), then compiles the resulting two-armed if exactly per
// spec §4.1.2.
func compileIf(u *unit, v *ast.IfStatement) error {
	cond := v.Expression
	body := v.Body
	elseBody := desugarElifs(v.Elifs, v.FinalElse)

	if err := compileExpr(u, cond); err != nil {
		return err
	}
	jumpIfFalse := u.emit(bytecode.OpJumpIfFalseAndPopStack, 0)
	if err := compileStmts(u, body); err != nil {
		return err
	}
	if len(elseBody) == 0 {
		u.patchArg(jumpIfFalse, u.here())
		return nil
	}
	jumpOverElse := u.emit(bytecode.OpJumpUnconditional, 0)
	u.patchArg(jumpIfFalse, u.here())
	if err := compileStmts(u, elseBody); err != nil {
		return err
	}
	u.patchArg(jumpOverElse, u.here())
	return nil
}

// desugarElifs turns `elif c1: b1 elif c2: b2 else: be` into
// `else: if c1: b1 else: if c2: b2 else: be`, recursively.
func desugarElifs(elifs []ast.ElifBranch, finalElse []ast.Statement) []ast.Statement {
	if len(elifs) == 0 {
		return finalElse
	}
	head := elifs[0]
	rest := desugarElifs(elifs[1:], finalElse)
	return []ast.Statement{&ast.IfStatement{
		Expression: head.Expression,
		Body:       head.Body,
		FinalElse:  rest,
	}}
}

func compileWhile(u *unit, v *ast.WhileStatement) error {
	before := u.here()
	if err := compileExpr(u, v.Expression); err != nil {
		return err
	}
	jumpAfter := u.emit(bytecode.OpJumpIfFalseAndPopStack, 0)
	bodyStart := u.here()
	if err := compileStmts(u, v.Body); err != nil {
		return err
	}
	u.emit(bytecode.OpJumpUnconditional, before)
	after := u.here()
	u.patchArg(jumpAfter, after)
	patchBreaks(u, bodyStart, after, after)
	return nil
}

func compileFor(u *unit, v *ast.ForStatement) error {
	if err := compileExpr(u, v.ListExpression); err != nil {
		return err
	}
	u.emitNamed(bytecode.OpLoadAttr, "__iter__")
	u.emit(bytecode.OpCallFunction, 0)

	iterAt := u.here()
	forIter := u.emit(bytecode.OpForIter, 0)
	bodyStart := u.here()
	u.emitNamed(bytecode.OpUnresolvedStoreName, v.ItemName)
	if err := compileStmts(u, v.Body); err != nil {
		return err
	}
	u.emit(bytecode.OpJumpUnconditional, iterAt)
	after := u.here()
	u.patchArg(forIter, after)
	patchBreaks(u, bodyStart, after, after)
	return nil
}

// patchBreaks rewrites every OpUnresolvedBreak in [start,end) left by this
// loop's own body into an unconditional jump to target. Breaks belonging
// to a nested loop are already resolved by the time the outer loop scans
// its range, since the innermost loop patches at its own finalization
// before returning control to the enclosing compileStmt (spec §9).
func patchBreaks(u *unit, start, end, target int) {
	for i := start; i < end && i < len(u.co.Instructions); i++ {
		if u.co.Instructions[i].Op == bytecode.OpUnresolvedBreak {
			u.co.Instructions[i].Op = bytecode.OpJumpUnconditional
			u.co.Instructions[i].Arg = target
		}
	}
}

func compileDeclareFunction(u *unit, v *ast.DeclareFunction) error {
	var params []string
	for _, p := range v.Parameters {
		params = append(params, p.Name)
	}

	var defaultExprs []ast.Expression
	for _, p := range v.Parameters {
		if p.Default != nil {
			defaultExprs = append(defaultExprs, p.Default)
		}
	}
	for _, d := range defaultExprs {
		if err := compileExpr(u, d); err != nil {
			return err
		}
	}
	hasDefaults := len(defaultExprs) > 0
	if hasDefaults {
		u.emit(bytecode.OpBuildList, len(defaultExprs))
	}

	inner := newUnit(qualify(u.co.ObjName, v.FunctionName), params, false)
	if err := compileStmts(inner, v.Body); err != nil {
		return err
	}
	finalizeReturn(inner)
	resolveNames(inner.co)

	codeIdx := u.addConst(bytecode.CodeConst(inner.co))
	u.emit(bytecode.OpLoadConst, codeIdx)
	nameIdx := u.addConst(bytecode.StringConst(inner.co.ObjName))
	u.emit(bytecode.OpLoadConst, nameIdx)
	arg := 0
	if hasDefaults {
		arg = 1
	}
	u.emit(bytecode.OpMakeFunction, arg)
	u.emitNamed(bytecode.OpUnresolvedStoreName, v.FunctionName)
	return nil
}

func compileClassDeclaration(u *unit, v *ast.ClassDeclaration) error {
	inner := newUnit(qualify(u.co.ObjName, v.ClassName), nil, false)
	if err := compileStmts(inner, v.Body); err != nil {
		return err
	}
	finalizeReturn(inner)
	resolveNames(inner.co)

	codeIdx := u.addConst(bytecode.CodeConst(inner.co))
	u.emit(bytecode.OpLoadConst, codeIdx)
	nameIdx := u.addConst(bytecode.StringConst(v.ClassName))
	u.emit(bytecode.OpLoadConst, nameIdx)
	u.emit(bytecode.OpMakeClass, 0)
	u.emitNamed(bytecode.OpUnresolvedStoreName, v.ClassName)
	return nil
}

func qualify(prefix, name string) string {
	if prefix == "" || prefix == "__main__" {
		return name
	}
	return prefix + "." + name
}

// finalizeReturn implements spec §4.1.4: every function/class/method body
// is guaranteed a terminal ReturnValue.
func finalizeReturn(u *unit) {
	n := len(u.co.Instructions)
	if n > 0 && u.co.Instructions[n-1].Op == bytecode.OpReturnValue {
		return
	}
	idx := u.addConst(bytecode.NoneConst())
	u.emit(bytecode.OpLoadConst, idx)
	u.emit(bytecode.OpReturnValue, 0)
}
