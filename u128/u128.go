package u128

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// Uint128 is a little endian 128-bit counter that Borsh encodes as 16 bytes.
type Uint128 bin.Uint128

var ErrOverflow = errors.New("value overflows Uint128")

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	*u = Uint128(v)
	return nil
}

func FromUint64(v uint64) bin.Uint128 {
	return bin.Uint128{Lo: v, Endianness: binary.LittleEndian}
}

func FromBig(i *big.Int) (bin.Uint128, error) {
	if i.Sign() < 0 {
		return bin.Uint128{}, errors.New("value cannot be negative")
	}
	if i.BitLen() > 128 {
		return bin.Uint128{}, ErrOverflow
	}
	lo := new(big.Int).And(i, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(i, 64).Uint64()
	return bin.Uint128{Lo: lo, Hi: hi, Endianness: binary.LittleEndian}, nil
}

func FromString(num string) (bin.Uint128, error) {
	var u Uint128
	if _, err := fmt.Sscan(num, &u); err != nil {
		return bin.Uint128{}, err
	}
	return bin.Uint128(u), nil
}

// AddUint64 returns a+v, failing instead of wrapping.
func AddUint64(a bin.Uint128, v uint64) (bin.Uint128, error) {
	lo, carry := bits.Add64(a.Lo, v, 0)
	hi, overflow := bits.Add64(a.Hi, 0, carry)
	if overflow != 0 {
		return a, ErrOverflow
	}
	return bin.Uint128{Lo: lo, Hi: hi, Endianness: a.Endianness}, nil
}

func String(a bin.Uint128) string {
	return ToBig(a).String()
}

func ToBig(a bin.Uint128) *big.Int {
	out := new(big.Int).SetUint64(a.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(big.Int).SetUint64(a.Lo))
}
