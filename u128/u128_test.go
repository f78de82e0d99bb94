package u128

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddUint64(t *testing.T) {
	v, err := AddUint64(FromUint64(math.MaxUint64), 2)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v.Lo)
	require.Equal(t, uint64(1), v.Hi)
	require.Equal(t, "18446744073709551617", String(v))

	max, err := FromString("340282366920938463463374607431768211455")
	require.NoError(t, err)
	_, err = AddUint64(max, 1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFromBig(t *testing.T) {
	_, err := FromBig(big.NewInt(-1))
	require.Error(t, err)

	_, err = FromBig(new(big.Int).Lsh(big.NewInt(1), 128))
	require.ErrorIs(t, err, ErrOverflow)

	want := new(big.Int).Lsh(big.NewInt(3), 70)
	v, err := FromBig(want)
	require.NoError(t, err)
	require.Zero(t, want.Cmp(ToBig(v)))
}
