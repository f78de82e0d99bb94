package cpswap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/u128"
)

func requireSameState(t require.TestingT, want, got PoolState) {
	require.Equal(t, want.Status, got.Status)
	require.Equal(t, want.TokenAMint, got.TokenAMint)
	require.Equal(t, want.TokenBMint, got.TokenBMint)
	require.Equal(t, want.TokenAAccount, got.TokenAAccount)
	require.Equal(t, want.TokenBAccount, got.TokenBAccount)
	require.Equal(t, want.PoolMint, got.PoolMint)
	require.Equal(t, want.PoolFeeAccount, got.PoolFeeAccount)
	require.Equal(t, want.Fees, got.Fees)
	require.Equal(t, metricsStrings(want.Metrics), metricsStrings(got.Metrics))
}

func metricsStrings(m PoolMetrics) []string {
	return []string{
		u128.String(m.VolumeA), u128.String(m.VolumeB),
		u128.String(m.TradeFeeA), u128.String(m.TradeFeeB),
		u128.String(m.OwnerFeeA), u128.String(m.OwnerFeeB),
	}
}

func TestPoolCodec(t *testing.T) {
	cfg := PoolConfig{
		Address:        newKey(),
		TokenAMint:     newKey(),
		TokenBMint:     newKey(),
		TokenAAccount:  newKey(),
		TokenBAccount:  newKey(),
		PoolMint:       newKey(),
		PoolFeeAccount: newKey(),
	}
	p := NewPool(cfg)
	p.state.Status = shared.PoolStatusActive
	p.state.Fees = testFees()
	require.NoError(t, p.state.Metrics.recordSwap(shared.TradeDirectionBtoA, ^uint64(0), 7, 3))
	require.NoError(t, p.state.Metrics.recordSwap(shared.TradeDirectionBtoA, 2, 1, 1))

	data, err := p.Marshal()
	require.NoError(t, err)
	require.Equal(t, poolDiscriminator, data[:8])

	decoded, err := DecodePool(cfg.Address, data)
	require.NoError(t, err)
	require.Equal(t, cfg.Address, decoded.Address)
	requireSameState(t, p.State(), decoded.State())

	metrics := decoded.State().Metrics
	require.Equal(t, uint64(2), metrics.SwapCount)
	require.Equal(t, "18446744073709551617", u128.String(metrics.VolumeB))
	require.Equal(t, "0", u128.String(metrics.VolumeA))

	data[0] ^= 0xff
	_, err = DecodePool(cfg.Address, data)
	require.ErrorIs(t, err, shared.ErrInvalidAccount)

	_, err = DecodePool(cfg.Address, data[:4])
	require.ErrorIs(t, err, shared.ErrInvalidAccount)
}

func TestDerivePoolAuthority(t *testing.T) {
	a, b := newKey(), newKey()

	first, bump, err := DerivePoolAuthority(a, b, ProgramID)
	require.NoError(t, err)
	again, bumpAgain, err := DerivePoolAuthority(a, b, ProgramID)
	require.NoError(t, err)
	require.Equal(t, first, again)
	require.Equal(t, bump, bumpAgain)

	reversed, _, err := DerivePoolAuthority(b, a, ProgramID)
	require.NoError(t, err)
	require.NotEqual(t, first, reversed)

	other, _, err := DerivePoolAuthority(a, b, newKey())
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}
