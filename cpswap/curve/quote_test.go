package curve

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

func TestSpotPrice(t *testing.T) {
	p, err := SpotPrice(1_000_000_000, 2_000_000, 9, 6)
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.NewFromInt(2)), p.String())

	_, err = SpotPrice(0, 1, 9, 9)
	require.ErrorIs(t, err, shared.ErrEmptySupply)
}

func TestQuoteSwap(t *testing.T) {
	q, err := ConstantProduct{}.QuoteSwap(2_000_000, 1_000_000, 1_000_000, shared.TradeDirectionAtoB, swapFees(), 100, 6, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(665_998), q.DestinationAmountSwapped)
	require.Equal(t, uint64(659_338), q.MinimumAmountOut)
	require.True(t, q.SpotPrice.Equal(decimal.NewFromInt(1)))
	// 0.332999 per A against a spot of 1
	require.True(t, q.PriceImpact.Equal(decimal.RequireFromString("66.7001")), q.PriceImpact.String())

	q, err = ConstantProduct{}.QuoteSwap(1_000, 1_000_000, 4_000_000, shared.TradeDirectionBtoA, &fees.Fees{}, 0, 6, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(249), q.DestinationAmountSwapped)
	require.Equal(t, q.DestinationAmountSwapped, q.MinimumAmountOut)
	require.True(t, q.PriceImpact.GreaterThan(decimal.Zero))
}

func TestSlippageBounds(t *testing.T) {
	require.Equal(t, uint64(990), MinAmountWithSlippage(1000, 100))
	require.Equal(t, uint64(1000), MinAmountWithSlippage(1000, 0))
	require.Zero(t, MinAmountWithSlippage(1000, 10000))
	require.Equal(t, uint64(1010), MaxAmountWithSlippage(1000, 100))
	require.Equal(t, ^uint64(0), MaxAmountWithSlippage(^uint64(0), 100))
}
