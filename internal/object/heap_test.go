package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kristofer/horse/internal/bytecode"
)

func TestHeapAllocateAssignsMonotonicAddresses(t *testing.T) {
	h := NewHeap()
	a1 := h.Allocate(BuiltinData{Kind: BuiltinInt}, NilAddr)
	a2 := h.Allocate(BuiltinData{Kind: BuiltinInt}, NilAddr)
	assert.NotEqual(t, a1, a2)
	assert.True(t, a2 > a1)
	assert.NotEqual(t, NilAddr, a1)
}

func TestHeapValidRejectsNilAndOutOfRange(t *testing.T) {
	h := NewHeap()
	assert.False(t, h.Valid(NilAddr))
	a := h.Allocate(BuiltinData{Kind: BuiltinNone}, NilAddr)
	assert.True(t, h.Valid(a))
	assert.False(t, h.Valid(a+100))
}

func TestHeapDerefRoundTrips(t *testing.T) {
	h := NewHeap()
	typeAddr := h.Allocate(&Type{Name: "int"}, NilAddr)
	a := h.Allocate(BuiltinData{Kind: BuiltinInt, Int: bytecode.NewInt128FromInt64(42)}, typeAddr)

	obj := h.Deref(a)
	assert.Equal(t, typeAddr, obj.TypeAddr)
	bd, ok := obj.Structure.(BuiltinData)
	assert.True(t, ok)
	assert.Equal(t, int64(42), bd.Int.Int64())
}

func TestWellKnownAddrsByName(t *testing.T) {
	var wk WellKnownAddrs
	wk.TypeError = 7
	wk.StopIteration = 9

	addr, ok := wk.ByName("TypeError")
	assert.True(t, ok)
	assert.Equal(t, Addr(7), addr)

	addr, ok = wk.ByName("StopIteration")
	assert.True(t, ok)
	assert.Equal(t, Addr(9), addr)

	_, ok = wk.ByName("NotARealException")
	assert.False(t, ok)
}
