package math

import (
	stdmath "math"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		x, y, d  uint64
		rounding shared.Rounding
		want     uint64
		err      error
	}{
		{"exact", 10, 10, 5, shared.RoundingDown, 20, nil},
		{"floor", 10, 10, 3, shared.RoundingDown, 33, nil},
		{"ceil", 10, 10, 3, shared.RoundingUp, 34, nil},
		{"ceil exact", 10, 10, 4, shared.RoundingUp, 25, nil},
		{"wide intermediate", stdmath.MaxUint64, stdmath.MaxUint64, stdmath.MaxUint64, shared.RoundingDown, stdmath.MaxUint64, nil},
		{"zero denominator", 1, 1, 0, shared.RoundingDown, 0, shared.ErrDivisionByZero},
		{"result overflow", stdmath.MaxUint64, 2, 1, shared.RoundingDown, 0, shared.ErrArithmeticOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.x, tt.y, tt.d, tt.rounding)
			if tt.err != nil {
				require.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheckedOps(t *testing.T) {
	_, err := CheckedAdd(stdmath.MaxUint64, 1)
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)

	_, err = CheckedSub(1, 2)
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)

	_, err = CheckedMul(1<<33, 1<<33)
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)

	v, err := CheckedMul(0, stdmath.MaxUint64)
	require.NoError(t, err)
	require.Zero(t, v)

	v, err = CheckedSub(5, 5)
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestCeilDiv(t *testing.T) {
	v, err := CeilDiv(uint256.NewInt(7), uint256.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, uint64(4), v.Uint64())

	_, err = CeilDiv(uint256.NewInt(7), uint256.NewInt(0))
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestSqrt(t *testing.T) {
	for in, want := range map[uint64]uint64{0: 0, 1: 1, 2: 1, 3: 1, 4: 2, 15: 3, 16: 4, 1_000_000: 1000} {
		require.Equal(t, want, Sqrt(uint256.NewInt(in)).Uint64(), "sqrt(%d)", in)
	}
	require.Equal(t, "1000000000000", Sqrt(Pow10(24)).ToBig().String())
}

func TestSqrtIsFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hi := rapid.Uint64().Draw(t, "hi")
		lo := rapid.Uint64().Draw(t, "lo")
		b := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
		b.Or(b, new(big.Int).SetUint64(lo))
		v, _ := uint256.FromBig(b)

		r := Sqrt(v).ToBig()
		want := new(big.Int).Sqrt(b)
		if r.Cmp(want) != 0 {
			t.Fatalf("sqrt(%s) = %s, want %s", b, r, want)
		}
	})
}
