package math

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

var one = uint256.NewInt(1)

// MulDiv computes x*y/denominator on a 256-bit accumulator.
func MulDiv(x, y, denominator uint64, rounding shared.Rounding) (uint64, error) {
	out, err := MulDivU256(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(denominator), rounding)
	if err != nil {
		return 0, err
	}
	return ToU64(out)
}

func MulDivU256(x, y, denominator *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, shared.ErrDivisionByZero
	}
	mul, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, shared.ErrArithmeticOverflow
	}
	div := new(uint256.Int).Div(mul, denominator)
	if rounding == shared.RoundingUp {
		mod := new(uint256.Int).Mod(mul, denominator)
		if !mod.IsZero() {
			div.Add(div, one)
		}
	}
	return div, nil
}

// CeilDiv returns ceil(numerator/denominator).
func CeilDiv(numerator, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, shared.ErrDivisionByZero
	}
	div := new(uint256.Int).Div(numerator, denominator)
	if !new(uint256.Int).Mod(numerator, denominator).IsZero() {
		div.Add(div, one)
	}
	return div, nil
}

func ToU64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, errors.Wrapf(shared.ErrArithmeticOverflow, "%s exceeds u64", v.ToBig().String())
	}
	return v.Uint64(), nil
}

func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(shared.ErrArithmeticOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(shared.ErrArithmeticOverflow, "%d - %d", a, b)
	}
	return a - b, nil
}

func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, errors.Wrapf(shared.ErrArithmeticOverflow, "%d * %d", a, b)
	}
	return a * b, nil
}

// Sqrt returns floor(sqrt(value)) using Newton's method.
func Sqrt(value *uint256.Int) *uint256.Int {
	if value == nil || value.IsZero() {
		return new(uint256.Int)
	}
	if value.Eq(one) {
		return uint256.NewInt(1)
	}

	x := new(uint256.Int).Set(value)
	// ceil(value/2) without risking overflow on value+1
	y := new(uint256.Int).Rsh(value, 1)
	if value.Uint64()&1 == 1 {
		y.Add(y, one)
	}

	for y.Lt(x) {
		x.Set(y)
		y = new(uint256.Int).Div(value, x)
		y.Add(y, x)
		y.Rsh(y, 1)
	}
	return x
}

// Pow10 returns 10^n on the wide accumulator.
func Pow10(n uint64) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(n))
}
