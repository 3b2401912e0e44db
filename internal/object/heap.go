package object

// Heap owns every runtime object and hands out stable addresses. There is
// no reclamation: objects live until process exit (spec §1 Non-goals,
// §4.3 "Allocation").
type Heap struct {
	objects []*Object
}

// NewHeap creates an empty heap. Address 0 is reserved (NilAddr) so a Type
// with no supertype can use it as a sentinel; the first real allocation is
// address 1.
func NewHeap() *Heap {
	h := &Heap{objects: make([]*Object, 1, 256)}
	return h
}

// Allocate stores a new object and returns its address.
func (h *Heap) Allocate(structure Structure, typeAddr Addr) Addr {
	obj := &Object{
		TypeAddr:   typeAddr,
		Attributes: make(map[string]Addr),
		Structure:  structure,
	}
	h.objects = append(h.objects, obj)
	return Addr(len(h.objects) - 1)
}

// Deref returns the live object at addr. Panics on an invalid address,
// which can only happen on a compiler or VM bug (spec §4.3 invariant:
// "deref(a) remains valid until VM teardown").
func (h *Heap) Deref(addr Addr) *Object {
	return h.objects[addr]
}

// Valid reports whether addr currently names a live object.
func (h *Heap) Valid(addr Addr) bool {
	return addr > 0 && int(addr) < len(h.objects)
}

// WellKnownAddrs is the VM's record of built-in singleton addresses,
// populated once during built-in registration and never mutated again
// (spec §3 "Well-known addresses").
type WellKnownAddrs struct {
	NoneAddr  Addr
	TrueAddr  Addr
	FalseAddr Addr

	IntType    Addr
	FloatType  Addr
	BoolType   Addr
	StrType    Addr
	ListType   Addr
	NoneType   Addr
	CodeType   Addr
	ModuleType Addr
	FuncType   Addr

	NameError         Addr
	AttributeError    Addr
	TypeError         Addr
	IndexError        Addr
	ValueError        Addr
	Exception         Addr
	ZeroDivisionError Addr
	StopIteration     Addr

	BuiltinsModule Addr
}

// ByName resolves a well-known exception/type by its spec name (used by
// native functions raising an exception by name, spec §6's
// register_bounded_func contract).
func (wk *WellKnownAddrs) ByName(name string) (Addr, bool) {
	switch name {
	case "NameError":
		return wk.NameError, true
	case "AttributeError":
		return wk.AttributeError, true
	case "TypeError":
		return wk.TypeError, true
	case "IndexError":
		return wk.IndexError, true
	case "ValueError":
		return wk.ValueError, true
	case "Exception":
		return wk.Exception, true
	case "ZeroDivisionError":
		return wk.ZeroDivisionError, true
	case "StopIteration":
		return wk.StopIteration, true
	}
	return 0, false
}
