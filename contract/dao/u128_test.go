package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU128Bounds(t *testing.T) {
	max := MaxU128()
	assert.Equal(t, "340282366920938463463374607431768211455", max.String())

	_, ok := max.CheckedAdd(NewU128(1))
	assert.False(t, ok)
	assert.Equal(t, max, max.SaturatingAdd(NewU128(1)))

	_, ok = NewU128(1).CheckedSub(NewU128(2))
	assert.False(t, ok)
	assert.True(t, NewU128(1).SaturatingSub(NewU128(2)).IsZero())

	_, ok = max.CheckedMul(NewU128(2))
	assert.False(t, ok)
	assert.Equal(t, max, max.SaturatingMul(NewU128(2)))

	_, err := U128FromDecimal("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, ErrU128Range)
	_, err = U128FromDecimal("12a")
	assert.ErrorIs(t, err, ErrU128Syntax)
}

// TestMulDivExact makes sure the product is never truncated before the division.
func TestMulDivExact(t *testing.T) {
	max := MaxU128()
	got, ok := MulDiv(max, max, max)
	require.True(t, ok)
	assert.Equal(t, max, got)

	got, ok = MulDiv(NewU128(77), NewU128(10), NewU128(100))
	require.True(t, ok)
	assert.Equal(t, NewU128(7), got)

	_, ok = MulDiv(NewU128(77), NewU128(10), U128{})
	assert.False(t, ok)
}

func TestU128TextAndBytes(t *testing.T) {
	v := MustU128("123456789012345678901234567890")
	text, err := v.MarshalText()
	require.NoError(t, err)
	var back U128
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, v, back)
	assert.Equal(t, v, U128FromBytes16(v.Bytes16()))
	assert.Equal(t, NewU128(9), NewU128(3).Max(NewU128(9)))
}
