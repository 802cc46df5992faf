package dao

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// U128 is an unsigned 128 bit amount. It is backed by a 256 bit word so
// products of two U128 values are always exact before any division.
type U128 struct {
	v uint256.Int
}

var (
	maxU128 = func() uint256.Int {
		var x uint256.Int
		x.SetAllOne()
		x.Rsh(&x, 128)
		return x
	}()

	ErrU128Range  = errors.New("value does not fit into 128 bits")
	ErrU128Syntax = errors.New("invalid u128 literal")
)

// MaxU128 is 2^128-1.
func MaxU128() U128 { return U128{v: maxU128} }

func NewU128(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

// U128FromDecimal parses a base 10 literal like "1000000".
// Example payload: dao.U128FromDecimal("340282366920938463463374607431768211455")
func U128FromDecimal(s string) (U128, error) {
	x, err := uint256.FromDecimal(s)
	if err != nil {
		return U128{}, fmt.Errorf("%w: %q", ErrU128Syntax, s)
	}
	if x.Gt(&maxU128) {
		return U128{}, fmt.Errorf("%w: %s", ErrU128Range, s)
	}
	return U128{v: *x}, nil
}

// MustU128 is U128FromDecimal for constants and fixtures.
func MustU128(s string) U128 {
	u, err := U128FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return u
}

func fromWide(x *uint256.Int) (U128, bool) {
	if x.Gt(&maxU128) {
		return U128{}, false
	}
	return U128{v: *x}, true
}

func (a U128) String() string { return a.v.Dec() }
func (a U128) IsZero() bool { return a.v.IsZero() }
func (a U128) Cmp(b U128) int { return a.v.Cmp(&b.v) }
func (a U128) Eq(b U128) bool { return a.v.Eq(&b.v) }
func (a U128) Lt(b U128) bool { return a.v.Lt(&b.v) }
func (a U128) Gt(b U128) bool { return a.v.Gt(&b.v) }

// Uint64 truncates, callers check IsUint64 first when it matters.
func (a U128) Uint64() uint64 { return a.v.Uint64() }
func (a U128) IsUint64() bool { return a.v.IsUint64() }

// Int returns a fresh uint256 copy, safe to hand to other packages.
func (a U128) Int() *uint256.Int { return new(uint256.Int).Set(&a.v) }

func (a U128) Max(b U128) U128 {
	if a.Lt(b) {
		return b
	}
	return a
}

// CheckedAdd returns ok=false when the sum leaves the 128 bit range.
func (a U128) CheckedAdd(b U128) (U128, bool) {
	var s uint256.Int
	s.Add(&a.v, &b.v)
	return fromWide(&s)
}

// CheckedSub returns ok=false on underflow.
func (a U128) CheckedSub(b U128) (U128, bool) {
	if a.Lt(b) {
		return U128{}, false
	}
	var d uint256.Int
	d.Sub(&a.v, &b.v)
	return U128{v: d}, true
}

// CheckedMul returns ok=false when the product leaves the 128 bit range.
func (a U128) CheckedMul(b U128) (U128, bool) {
	var p uint256.Int
	p.Mul(&a.v, &b.v)
	return fromWide(&p)
}

func (a U128) SaturatingAdd(b U128) U128 {
	if s, ok := a.CheckedAdd(b); ok {
		return s
	}
	return MaxU128()
}

func (a U128) SaturatingSub(b U128) U128 {
	if d, ok := a.CheckedSub(b); ok {
		return d
	}
	return U128{}
}

func (a U128) SaturatingMul(b U128) U128 {
	if p, ok := a.CheckedMul(b); ok {
		return p
	}
	return MaxU128()
}

// MulDiv computes floor(a*b/d) with an exact 256 bit product.
// ok is false when d is zero or the quotient does not fit 128 bits.
// Example payload: dao.MulDiv(bank, burned, totalBefore)
func MulDiv(a, b, d U128) (U128, bool) {
	if d.IsZero() {
		return U128{}, false
	}
	var p uint256.Int
	p.Mul(&a.v, &b.v)
	p.Div(&p, &d.v)
	return fromWide(&p)
}

// Bytes16 is the fixed width big-endian form used by the codec.
func (a U128) Bytes16() [16]byte {
	b32 := a.v.Bytes32()
	var out [16]byte
	copy(out[:], b32[16:])
	return out
}

func U128FromBytes16(b [16]byte) U128 {
	var u U128
	u.v.SetBytes(b[:])
	return u
}

func (a U128) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *U128) UnmarshalText(text []byte) error {
	u, err := U128FromDecimal(string(text))
	if err != nil {
		return err
	}
	*a = u
	return nil
}
