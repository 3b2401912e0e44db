package bytecode

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt128WrapsOnOverflow(t *testing.T) {
	max := NewInt128FromBigInt(int128Limit)
	one := NewInt128FromInt64(1)
	wrapped := max.Add(one)
	assert.Equal(t, "-170141183460469231731687303715884105728", wrapped.String())
}

func TestInt128ModSignOfDivisor(t *testing.T) {
	a := NewInt128FromInt64(-7)
	b := NewInt128FromInt64(3)
	result, ok := a.Mod(b)
	assert.True(t, ok)
	assert.Equal(t, "2", result.String())
}

func TestInt128ModByZero(t *testing.T) {
	a := NewInt128FromInt64(5)
	_, ok := a.Mod(Int128{})
	assert.False(t, ok)
}

func TestInt128CmpAndEqual(t *testing.T) {
	a := NewInt128FromInt64(10)
	b := NewInt128FromInt64(10)
	c := NewInt128FromInt64(11)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.Equal(t, -1, a.Cmp(c))
}

func TestInt128FromBigInt(t *testing.T) {
	bi := new(big.Int).SetInt64(42)
	v := NewInt128FromBigInt(bi)
	assert.Equal(t, int64(42), v.Int64())
}

func TestInt128ShlShr(t *testing.T) {
	one := NewInt128FromInt64(1)
	shifted := one.Shl(NewInt128FromInt64(4))
	assert.Equal(t, "16", shifted.String())

	back := shifted.Shr(NewInt128FromInt64(4))
	assert.Equal(t, "1", back.String())
}

func TestInt128ShrIsArithmeticOnNegatives(t *testing.T) {
	neg := NewInt128FromInt64(-8)
	result := neg.Shr(NewInt128FromInt64(1))
	assert.Equal(t, "-4", result.String())
}
