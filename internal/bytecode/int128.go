package bytecode

import "math/big"

// Int128 is a signed 128-bit integer backed by math/big, normalized into
// the range [-2^127, 2^127-1] after every arithmetic operation so overflow
// wraps silently instead of growing without bound.
type Int128 struct {
	v *big.Int
}

var (
	int128Mod   = new(big.Int).Lsh(big.NewInt(1), 128)
	int128Half  = new(big.Int).Lsh(big.NewInt(1), 127)
	int128Limit = new(big.Int).Sub(int128Half, big.NewInt(1))
)

// NewInt128FromInt64 builds an Int128 from a native int64.
func NewInt128FromInt64(n int64) Int128 {
	return wrap(big.NewInt(n))
}

// NewInt128FromBigInt builds a wrapped Int128 from an arbitrary big.Int.
func NewInt128FromBigInt(n *big.Int) Int128 {
	return wrap(new(big.Int).Set(n))
}

func wrap(n *big.Int) Int128 {
	m := new(big.Int).Mod(n, int128Mod)
	if m.Sign() < 0 {
		m.Add(m, int128Mod)
	}
	if m.Cmp(int128Limit) > 0 {
		m.Sub(m, int128Mod)
	}
	return Int128{v: m}
}

func (a Int128) big() *big.Int {
	if a.v == nil {
		return big.NewInt(0)
	}
	return a.v
}

func (a Int128) Add(b Int128) Int128 { return wrap(new(big.Int).Add(a.big(), b.big())) }
func (a Int128) Sub(b Int128) Int128 { return wrap(new(big.Int).Sub(a.big(), b.big())) }
func (a Int128) Mul(b Int128) Int128 { return wrap(new(big.Int).Mul(a.big(), b.big())) }

// Mod implements Python-style modulo: result has the sign of the divisor.
func (a Int128) Mod(b Int128) (Int128, bool) {
	if b.big().Sign() == 0 {
		return Int128{}, false
	}
	m := new(big.Int).Mod(a.big(), b.big())
	if m.Sign() != 0 && b.big().Sign() < 0 {
		m.Add(m, b.big())
	}
	return wrap(m), true
}

func (a Int128) Neg() Int128 { return wrap(new(big.Int).Neg(a.big())) }

// Shl implements `<<`: the shift count is taken from b's low bits (a
// negative or out-of-range count is treated as 0).
func (a Int128) Shl(b Int128) Int128 {
	n := shiftCount(b)
	return wrap(new(big.Int).Lsh(a.big(), n))
}

// Shr implements `>>` as an arithmetic (sign-preserving) shift.
func (a Int128) Shr(b Int128) Int128 {
	n := shiftCount(b)
	return wrap(new(big.Int).Rsh(a.big(), n))
}

func shiftCount(b Int128) uint {
	n := b.Int64()
	if n < 0 || n >= 128 {
		return 0
	}
	return uint(n)
}

func (a Int128) Cmp(b Int128) int { return a.big().Cmp(b.big()) }

func (a Int128) Sign() int { return a.big().Sign() }

func (a Int128) IsZero() bool { return a.big().Sign() == 0 }

func (a Int128) Int64() int64 { return a.big().Int64() }

func (a Int128) Float64() float64 {
	f := new(big.Float).SetInt(a.big())
	out, _ := f.Float64()
	return out
}

func (a Int128) String() string { return a.big().String() }

func (a Int128) Equal(b Int128) bool { return a.big().Cmp(b.big()) == 0 }
