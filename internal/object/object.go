// Package object implements the heap-backed object model: every runtime
// value is an addressable object with a type, an attribute map, and a
// tagged structure payload (spec §3, §4.3).
//
// Rather than a handful of hardcoded runtime shapes (one struct per kind
// of value), every value shares a single tagged Structure variant
// addressed indirectly through an opaque Addr, per spec §3's "Object
// (heap entry)".
package object

import "github.com/kristofer/horse/internal/bytecode"

// Addr is an opaque, stable handle into the Heap. Addresses are never
// reused during a run (spec §4.3: "Addresses are monotonic and stable").
type Addr int

// NilAddr is never returned by Heap.Allocate; it is used as a sentinel for
// "no value" in contexts where Addr is optional (e.g. Type.Supertype).
const NilAddr Addr = 0

// Structure is the tagged payload of a heap object (spec §3).
type Structure interface {
	isStructure()
}

// Instance is a user-class instance. Builtin is non-nil when the instance
// also carries primitive built-in data (e.g. an int/str/list "instance").
type Instance struct {
	Builtin *BuiltinData
}

func (Instance) isStructure() {}

// BuiltinKind tags the payload carried by BuiltinData.
type BuiltinKind int

const (
	BuiltinInt BuiltinKind = iota
	BuiltinFloat
	BuiltinString
	BuiltinList
	BuiltinNone
	// BuiltinCode holds a raw compiled code object, materialized once per
	// constant pool entry so MakeFunction/MakeClass can retrieve it by
	// address (spec §4.2.1's LoadConst note on CodeObject constants).
	BuiltinCode
	// BuiltinListIterator is the stateful iterator object list's
	// __iter__ returns (spec §9 open question: __iter__ must not alias
	// __len__).
	BuiltinListIterator
)

// BuiltinData is the primitive payload of a built-in scalar, list, or
// code object. Int/Float/String payloads are immutable: operations on
// them produce new objects. List payloads are mutable in place (spec
// §4.3). Booleans carry no payload kind of their own: True/False are
// BuiltinInt instances holding 1/0, typed BoolType, per spec §3
// ("Booleans are represented as instances of bool carrying Int(0|1)") —
// this lets int-arithmetic and indexing natives accept a bool operand
// without special-casing it.
type BuiltinData struct {
	Kind BuiltinKind
	Int  bytecode.Int128
	Flt  float64
	Str  string
	List []Addr
	Code *bytecode.CodeObject

	// IterList/IterPos back a BuiltinListIterator.
	IterList *[]Addr
	IterPos  int
}

func (BuiltinData) isStructure() {}

// Type is a class object: a name, an own method table, and an optional
// supertype forming a single-inheritance chain (spec §3, §4.2.3).
type Type struct {
	Name         string
	Methods      map[string]Addr
	Supertype    Addr
	HasSupertype bool
}

func (*Type) isStructure() {}

// Function is a user-defined callable compiled from a `def` statement.
type Function struct {
	Code     *bytecode.CodeObject
	Defaults []Addr
}

func (*Function) isStructure() {}

// NativeFn is a built-in implemented in Go. CallParams follows the
// built-in registration contract in spec §6: FuncName is the name the
// native was registered under, BoundReceiver is set when the native was
// reached through a BoundMethod, Args are the positional arguments.
type NativeFn func(vm NativeVM, params CallParams) (Addr, error)

// CallParams carries the arguments passed to a NativeFn call.
type CallParams struct {
	FuncName      string
	BoundReceiver Addr
	HasReceiver   bool
	Args          []Addr
}

// NativeVM is the subset of VM behavior a native function needs: heap
// access, well-known addresses, and the ability to call back into a method
// (spec §5: "Native functions may call back into the VM").
type NativeVM interface {
	Heap() *Heap
	WellKnown() *WellKnownAddrs
	CallMethod(receiver Addr, selector string, args []Addr) (Addr, error)
	RaiseNative(typeName string, message string) error
}

// NativeFunction is a callable implemented in Go.
type NativeFunction struct {
	Fn   NativeFn
	Name string
}

func (*NativeFunction) isStructure() {}

// BoundMethod pairs a receiver with a callable found via attribute lookup.
type BoundMethod struct {
	Receiver Addr
	Callable Addr
}

func (BoundMethod) isStructure() {}

// Module groups named members (built-in types, native functions).
type Module struct {
	Name    string
	Members map[string]Addr
}

func (*Module) isStructure() {}

// Object is one heap entry (spec §3).
type Object struct {
	TypeAddr   Addr
	Attributes map[string]Addr
	Structure  Structure
}
