package sim

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liquidity-pool-go/cpswap"
	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/cpswap/store"
)

func testParams() Params {
	return Params{
		Fees: fees.Fees{
			TradeFeeNumerator:        25,
			TradeFeeDenominator:      10000,
			OwnerTradeFeeNumerator:   5,
			OwnerTradeFeeDenominator: 10000,
			HostFeeNumerator:         20,
			HostFeeDenominator:       100,
		},
		ReserveA:   1_000_000,
		ReserveB:   1_000_000,
		SwapAmount: 100_000,
		Swaps:      4,
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "receipts.jsonl")
	journal := store.NewJsonlJournal(path)
	pools := store.NewMemoryStore()

	res, err := Run(ctx, testParams(), cpswap.WithJournal(journal), cpswap.WithStore(pools))
	require.NoError(t, err)

	kinds := make([]model.OperationKind, 0, len(res.Receipts))
	for _, r := range res.Receipts {
		kinds = append(kinds, r.Kind)
	}
	require.Equal(t, []model.OperationKind{
		model.OperationInitialize,
		model.OperationDepositAll,
		model.OperationDepositSingle,
		model.OperationWithdrawAll,
		model.OperationWithdrawSingle,
		model.OperationSwap,
		model.OperationSwap,
		model.OperationSwap,
		model.OperationSwap,
	}, kinds)

	deposit := res.Receipts[1]
	require.Equal(t, uint64(10_000), deposit.TokenAIn)
	require.Equal(t, uint64(10_000), deposit.TokenBIn)
	require.Equal(t, uint64(depositAllShares), deposit.PoolTokensMinted)

	// 50 owner fee per swap, 10 of it to the host.
	require.Equal(t, uint64(80), res.OwnerFeeA)
	require.Equal(t, uint64(80), res.OwnerFeeB)
	for _, r := range res.Receipts[5:] {
		require.Equal(t, uint64(10), r.HostFee)
		require.Equal(t, uint64(250), r.TradeFee)
	}

	last := res.Receipts[len(res.Receipts)-1]
	require.Equal(t, last.ReserveA, res.Reserves.TokenA)
	require.Equal(t, last.ReserveB, res.Reserves.TokenB)
	require.Equal(t, last.PoolSupply, res.Reserves.PoolSupply)

	written, err := store.ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, written, len(res.Receipts))

	data, err := pools.GetPool(ctx, res.Pool.Address.String())
	require.NoError(t, err)
	saved, err := cpswap.DecodePool(res.Pool.Address, data)
	require.NoError(t, err)
	require.Equal(t, shared.PoolStatusActive, saved.Status())
	require.Equal(t, uint64(4), saved.State().Metrics.SwapCount)
}

func TestRunRejects(t *testing.T) {
	p := testParams()
	p.ReserveB = 0
	_, err := Run(context.Background(), p)
	require.ErrorIs(t, err, shared.ErrEmptySupply)

	p = testParams()
	p.Fees.TradeFeeNumerator = p.Fees.TradeFeeDenominator
	_, err = Run(context.Background(), p)
	require.ErrorIs(t, err, shared.ErrInvalidFee)

	p = testParams()
	p.SwapAmount = 0
	_, err = Run(context.Background(), p)
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}
