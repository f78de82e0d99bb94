package liquiditypool

import (
	"github.com/krazyTry/liquidity-pool-go/cpswap"
	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
	"github.com/krazyTry/liquidity-pool-go/solana"
)

// NewEngine creates a pool engine over a custody port.
//
// Example:
//
// ledger := NewMemoryLedger()
//
// engine := NewEngine(ledger, cpswap.WithLogger(logger))
//
// engine.Initialize(ctx, NewPool(cfg), cpswap.InitializeParams{Fees: fees, PoolTokenAccount: shares})
//
// engine.Swap(ctx, pool, cpswap.SwapParams{Owner: trader, SourceAccount: a, DestinationAccount: b, AmountIn: 1_000})
var NewEngine = cpswap.NewEngine

// NewPool creates an uninitialized pool from its account addresses.
var NewPool = cpswap.NewPool

// NewMemoryLedger creates an in-memory token ledger usable as a custody port.
var NewMemoryLedger = custody.NewMemoryLedger

// NewRPCReader reads pools and token accounts from a cluster.
//
// Example:
//
// reader := NewRPCReader(rpc.New(rpc.DevNet_RPC), rpc.CommitmentConfirmed)
//
// pool, _ := reader.GetPool(ctx, cpswap.ProgramID, address)
//
// NewEngine(custody.ReadOnly(reader)).QuoteSwap(ctx, pool, 1_000, shared.TradeDirectionAtoB, 100)
var NewRPCReader = solana.NewRPCReader
