package cpswap

import (
	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
)

type InitializeParams struct {
	Fees fees.Fees
	// Share account receiving the initial supply. Must belong to the owner of
	// the pool fee account.
	PoolTokenAccount solana.PublicKey
}

type DepositAllParams struct {
	Owner            solana.PublicKey
	TokenAAccount    solana.PublicKey
	TokenBAccount    solana.PublicKey
	PoolTokenAccount solana.PublicKey

	PoolTokenAmount     uint64
	MaximumTokenAAmount uint64
	MaximumTokenBAmount uint64
}

type DepositSingleParams struct {
	Owner            solana.PublicKey
	SourceAccount    solana.PublicKey
	PoolTokenAccount solana.PublicKey

	SourceTokenAmount      uint64
	MinimumPoolTokenAmount uint64
}

type WithdrawAllParams struct {
	Owner            solana.PublicKey
	PoolTokenAccount solana.PublicKey
	TokenAAccount    solana.PublicKey
	TokenBAccount    solana.PublicKey

	PoolTokenAmount     uint64
	MinimumTokenAAmount uint64
	MinimumTokenBAmount uint64
}

type WithdrawSingleParams struct {
	Owner              solana.PublicKey
	PoolTokenAccount   solana.PublicKey
	DestinationAccount solana.PublicKey

	DestinationTokenAmount uint64
	MaximumPoolTokenAmount uint64
}

type SwapParams struct {
	Owner              solana.PublicKey
	SourceAccount      solana.PublicKey
	DestinationAccount solana.PublicKey

	AmountIn         uint64
	MinimumAmountOut uint64

	// Input-asset account of the fee receiver. Required when the owner trade
	// fee is nonzero.
	OwnerFeeAccount *solana.PublicKey
	// Optional input-asset account sharing the owner fee.
	HostFeeAccount *solana.PublicKey
}
