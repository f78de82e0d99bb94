// Package sim replays a full pool lifecycle against an in-memory ledger:
// initialize, both deposit kinds, both withdrawal kinds and a run of swaps.
package sim

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap"
	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

const (
	decimalsA    = 6
	decimalsB    = 9
	decimalsPool = 9

	providerFunds = 1_000_000
	traderFunds   = 10_000_000

	depositAllShares   = 10_000_000
	depositSingleIn    = 100_000
	withdrawAllShares  = 100_000
	withdrawSingleOut  = 50_000
	withdrawSingleMax  = 100_000_000
	minimumOutDivisor  = 100
	minimumMintDivisor = 10
)

type Params struct {
	// Zero selects cpswap.ProgramID.
	ProgramID solana.PublicKey

	Fees       fees.Fees
	ReserveA   uint64
	ReserveB   uint64
	SwapAmount uint64
	Swaps      int
}

// Result is what a run leaves behind.
type Result struct {
	Pool      *cpswap.Pool
	Receipts  []*model.Receipt
	Reserves  *cpswap.Reserves
	DecimalsA uint8
	DecimalsB uint8

	// Owner fees collected in each asset, host share excluded.
	OwnerFeeA uint64
	OwnerFeeB uint64
}

type wallet struct {
	key    solana.PublicKey
	a, b   solana.PublicKey
	shares solana.PublicKey
}

type world struct {
	ledger *custody.MemoryLedger
	faucet solana.PublicKey
	cfg    cpswap.PoolConfig

	admin    wallet
	provider wallet
	trader   wallet
	host     wallet
}

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func (w *world) newWallet(funds uint64) (wallet, error) {
	wl := wallet{key: newKey(), a: newKey(), b: newKey(), shares: newKey()}
	if err := w.ledger.CreateAccount(wl.a, w.cfg.TokenAMint, wl.key); err != nil {
		return wallet{}, err
	}
	if err := w.ledger.CreateAccount(wl.b, w.cfg.TokenBMint, wl.key); err != nil {
		return wallet{}, err
	}
	if err := w.ledger.CreateAccount(wl.shares, w.cfg.PoolMint, wl.key); err != nil {
		return wallet{}, err
	}
	if funds == 0 {
		return wl, nil
	}
	if err := w.ledger.Airdrop(wl.a, funds); err != nil {
		return wallet{}, err
	}
	if err := w.ledger.Airdrop(wl.b, funds); err != nil {
		return wallet{}, err
	}
	return wl, nil
}

func setup(p Params, programID solana.PublicKey) (*world, error) {
	w := &world{
		ledger: custody.NewMemoryLedger(),
		faucet: newKey(),
		cfg: cpswap.PoolConfig{
			Address:       newKey(),
			TokenAMint:    newKey(),
			TokenBMint:    newKey(),
			TokenAAccount: newKey(),
			TokenBAccount: newKey(),
			PoolMint:      newKey(),
		},
	}
	authority, _, err := cpswap.DerivePoolAuthority(w.cfg.TokenAMint, w.cfg.TokenBMint, programID)
	if err != nil {
		return nil, err
	}

	l := w.ledger
	if err = l.CreateMint(w.cfg.TokenAMint, decimalsA, &w.faucet, nil); err != nil {
		return nil, err
	}
	if err = l.CreateMint(w.cfg.TokenBMint, decimalsB, &w.faucet, nil); err != nil {
		return nil, err
	}
	if err = l.CreateMint(w.cfg.PoolMint, decimalsPool, &authority, nil); err != nil {
		return nil, err
	}
	if err = l.CreateAccount(w.cfg.TokenAAccount, w.cfg.TokenAMint, authority); err != nil {
		return nil, err
	}
	if err = l.CreateAccount(w.cfg.TokenBAccount, w.cfg.TokenBMint, authority); err != nil {
		return nil, err
	}
	if err = l.Airdrop(w.cfg.TokenAAccount, p.ReserveA); err != nil {
		return nil, err
	}
	if err = l.Airdrop(w.cfg.TokenBAccount, p.ReserveB); err != nil {
		return nil, err
	}

	if w.admin, err = w.newWallet(0); err != nil {
		return nil, err
	}
	w.cfg.PoolFeeAccount = w.admin.shares
	if w.provider, err = w.newWallet(providerFunds); err != nil {
		return nil, err
	}
	if w.trader, err = w.newWallet(traderFunds); err != nil {
		return nil, err
	}
	if w.host, err = w.newWallet(0); err != nil {
		return nil, err
	}
	return w, nil
}

// Run builds a fresh pool holding p.ReserveA and p.ReserveB and drives it
// through every operation. Options are passed to the engine; the program id
// always comes from p.
func Run(ctx context.Context, p Params, opts ...cpswap.Option) (*Result, error) {
	if p.ReserveA == 0 || p.ReserveB == 0 {
		return nil, errors.Wrap(shared.ErrEmptySupply, "initial reserves")
	}
	programID := p.ProgramID
	if programID.IsZero() {
		programID = cpswap.ProgramID
	}
	w, err := setup(p, programID)
	if err != nil {
		return nil, errors.Wrap(err, "setup")
	}

	engine := cpswap.NewEngine(w.ledger, append(opts, cpswap.WithProgramID(programID))...)
	pool := cpswap.NewPool(w.cfg)
	res := &Result{Pool: pool, DecimalsA: decimalsA, DecimalsB: decimalsB}
	record := func(r *model.Receipt, err error) error {
		if err != nil {
			return err
		}
		res.Receipts = append(res.Receipts, r)
		return nil
	}

	if err = record(engine.Initialize(ctx, pool, cpswap.InitializeParams{
		Fees:             p.Fees,
		PoolTokenAccount: w.admin.shares,
	})); err != nil {
		return nil, errors.Wrap(err, "initialize")
	}

	lp := w.provider
	if err = record(engine.DepositAll(ctx, pool, cpswap.DepositAllParams{
		Owner:               lp.key,
		TokenAAccount:       lp.a,
		TokenBAccount:       lp.b,
		PoolTokenAccount:    lp.shares,
		PoolTokenAmount:     depositAllShares,
		MaximumTokenAAmount: providerFunds,
		MaximumTokenBAmount: providerFunds,
	})); err != nil {
		return nil, errors.Wrap(err, "deposit all")
	}

	if err = record(engine.DepositSingle(ctx, pool, cpswap.DepositSingleParams{
		Owner:                  lp.key,
		SourceAccount:          lp.a,
		PoolTokenAccount:       lp.shares,
		SourceTokenAmount:      depositSingleIn,
		MinimumPoolTokenAmount: depositSingleIn / minimumMintDivisor,
	})); err != nil {
		return nil, errors.Wrap(err, "deposit single")
	}

	if err = record(engine.WithdrawAll(ctx, pool, cpswap.WithdrawAllParams{
		Owner:            lp.key,
		PoolTokenAccount: lp.shares,
		TokenAAccount:    lp.a,
		TokenBAccount:    lp.b,
		PoolTokenAmount:  withdrawAllShares,
	})); err != nil {
		return nil, errors.Wrap(err, "withdraw all")
	}

	if err = record(engine.WithdrawSingle(ctx, pool, cpswap.WithdrawSingleParams{
		Owner:                  lp.key,
		PoolTokenAccount:       lp.shares,
		DestinationAccount:     lp.b,
		DestinationTokenAmount: withdrawSingleOut,
		MaximumPoolTokenAmount: withdrawSingleMax,
	})); err != nil {
		return nil, errors.Wrap(err, "withdraw single")
	}

	for i := 0; i < p.Swaps; i++ {
		direction := shared.TradeDirectionAtoB
		if i%2 == 1 {
			direction = shared.TradeDirectionBtoA
		}
		params := w.swapParams(direction, p.SwapAmount)
		receipt, err := engine.Swap(ctx, pool, params)
		if err != nil {
			return nil, errors.Wrapf(err, "swap %d %s", i, direction)
		}
		res.Receipts = append(res.Receipts, receipt)
		if direction == shared.TradeDirectionAtoB {
			res.OwnerFeeA += receipt.OwnerFee
		} else {
			res.OwnerFeeB += receipt.OwnerFee
		}
	}

	if res.Reserves, err = engine.Reserves(ctx, pool); err != nil {
		return nil, err
	}
	return res, nil
}

func (w *world) swapParams(direction shared.TradeDirection, amountIn uint64) cpswap.SwapParams {
	params := cpswap.SwapParams{
		Owner:            w.trader.key,
		AmountIn:         amountIn,
		MinimumAmountOut: amountIn / minimumOutDivisor,
	}
	if direction == shared.TradeDirectionAtoB {
		params.SourceAccount, params.DestinationAccount = w.trader.a, w.trader.b
		params.OwnerFeeAccount, params.HostFeeAccount = &w.admin.a, &w.host.a
	} else {
		params.SourceAccount, params.DestinationAccount = w.trader.b, w.trader.a
		params.OwnerFeeAccount, params.HostFeeAccount = &w.admin.b, &w.host.b
	}
	return params
}
