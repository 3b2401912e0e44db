package compiler

import "github.com/kristofer/horse/internal/bytecode"

// resolveNames implements spec §4.1.3's pass 2:
//
//  1. Seed names[] with the parameter list in declaration order.
//  2. Scan for the first occurrence of each UnresolvedStoreName and
//     UnresolvedStoreAttr identifier and assign it the next free slot, so
//     a load that textually precedes a dotted assignment of the same name
//     still resolves to LoadName rather than LoadGlobal.
//  3. Rewrite every Unresolved* instruction: a load resolves to LoadName
//     if the identifier already has a slot (a parameter or a previously
//     stored name), else it allocates a new slot and becomes LoadGlobal.
//     LoadAttr/StoreAttr identifiers share the same slot table (spec §3:
//     "names ... used for attribute ops and for the debugger").
func resolveNames(co *bytecode.CodeObject) {
	names := []string{}
	index := map[string]int{}
	slot := func(n string) int {
		if i, ok := index[n]; ok {
			return i
		}
		i := len(names)
		names = append(names, n)
		index[n] = i
		return i
	}

	for _, p := range co.Params {
		slot(p)
	}
	for _, ins := range co.Instructions {
		if ins.Op == bytecode.OpUnresolvedStoreName || ins.Op == bytecode.OpUnresolvedStoreAttr {
			slot(ins.Name)
		}
	}

	for i := range co.Instructions {
		ins := &co.Instructions[i]
		switch ins.Op {
		case bytecode.OpUnresolvedLoadName:
			if s, ok := index[ins.Name]; ok {
				ins.Op = bytecode.OpLoadName
				ins.Arg = s
			} else {
				ins.Op = bytecode.OpLoadGlobal
				ins.Arg = slot(ins.Name)
			}
		case bytecode.OpUnresolvedStoreName:
			ins.Op = bytecode.OpStoreName
			ins.Arg = index[ins.Name]
		case bytecode.OpUnresolvedStoreAttr:
			ins.Op = bytecode.OpStoreAttr
			ins.Arg = slot(ins.Name)
		case bytecode.OpLoadAttr, bytecode.OpStoreAttr:
			ins.Arg = slot(ins.Name)
		}
		ins.Name = ""
	}
	co.Names = names
}
