package cpswap

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/curve"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

// Reserves is a consistent read of a pool's balances.
type Reserves struct {
	TokenA     uint64
	TokenB     uint64
	PoolSupply uint64
}

func (e *Engine) Reserves(ctx context.Context, p *Pool) (*Reserves, error) {
	defer e.lock(p)()

	if p.state.Status != shared.PoolStatusActive {
		return nil, errors.Wrapf(shared.ErrPoolNotInitialized, "pool %s", p.Address)
	}
	accounts, err := e.readPoolAccounts(ctx, &p.state)
	if err != nil {
		return nil, err
	}
	return &Reserves{
		TokenA:     accounts.vaultA.Amount,
		TokenB:     accounts.vaultB.Amount,
		PoolSupply: accounts.mint.Supply,
	}, nil
}

// QuoteSwap prices a swap against the current reserves without moving funds.
func (e *Engine) QuoteSwap(
	ctx context.Context,
	p *Pool,
	amountIn uint64,
	direction shared.TradeDirection,
	slippageBps uint64,
) (*curve.SwapQuote, error) {
	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	mintA, err := e.port.GetMint(ctx, p.state.TokenAMint)
	if err != nil {
		return nil, err
	}
	mintB, err := e.port.GetMint(ctx, p.state.TokenBMint)
	if err != nil {
		return nil, err
	}
	return e.curve.QuoteSwap(
		amountIn,
		accounts.vaultA.Amount,
		accounts.vaultB.Amount,
		direction,
		&p.state.Fees,
		slippageBps,
		mintA.Decimals,
		mintB.Decimals,
	)
}

// LoadPool rebuilds a pool from the configured store. Every call returns a
// new *Pool; operations on copies of one address still run one at a time.
func (e *Engine) LoadPool(ctx context.Context, address solana.PublicKey) (*Pool, error) {
	if e.store == nil {
		return nil, errors.Wrapf(shared.ErrPoolNotInitialized, "pool %s: no store configured", address)
	}
	data, err := e.store.GetPool(ctx, address.String())
	if err != nil {
		return nil, err
	}
	return DecodePool(address, data)
}

// SavePool writes the pool to the configured store.
func (e *Engine) SavePool(ctx context.Context, p *Pool) error {
	if e.store == nil {
		return nil
	}
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	return e.store.PutPool(ctx, p.Address.String(), data)
}
