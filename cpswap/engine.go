package cpswap

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/liquidity-pool-go/cpswap/curve"
	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/math"
	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/cpswap/store"
	"github.com/krazyTry/liquidity-pool-go/cpswap/supply"
)

// Engine runs pool operations against a custody port. It holds no pool state
// of its own; every call names the pool it works on.
type Engine struct {
	port        custody.Port
	programID   solana.PublicKey
	curve       curve.ConstantProduct
	constraints *fees.Constraints

	store   store.PoolStore
	journal store.Journal
	logger  *zap.Logger
	now     func() time.Time

	// One lock per pool address, shared by every *Pool value naming it.
	locks sync.Map
}

// NewEngine returns an engine moving funds through port. Without options it
// uses ProgramID, a no-op logger and the wall clock, and persists nothing.
func NewEngine(port custody.Port, opts ...Option) *Engine {
	e := &Engine{
		port:      port,
		programID: ProgramID,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, fn := range opts {
		fn(e)
	}
	return e
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore persists every pool after a committed operation.
func WithStore(s store.PoolStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithJournal appends a receipt for every committed operation.
func WithJournal(j store.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithConstraints pins the owner fees and fee receiver of every pool the
// engine initializes.
func WithConstraints(c *fees.Constraints) Option {
	return func(e *Engine) {
		e.constraints = c
	}
}

// WithProgramID sets the program the pool authority is derived from.
func WithProgramID(programID solana.PublicKey) Option {
	return func(e *Engine) {
		e.programID = programID
	}
}

// WithClock sets the time source for receipt timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// lock takes the address lock of p, then its own lock. The returned func
// releases both.
func (e *Engine) lock(p *Pool) func() {
	v, _ := e.locks.LoadOrStore(p.Address, &sync.Mutex{})
	addr := v.(*sync.Mutex)
	addr.Lock()
	p.mu.Lock()
	return func() {
		p.mu.Unlock()
		addr.Unlock()
	}
}

// Initialize validates the pool accounts and fees, then mints the initial
// share supply to the fee receiver.
func (e *Engine) Initialize(ctx context.Context, p *Pool, params InitializeParams) (*model.Receipt, error) {
	defer e.lock(p)()

	if p.state.Status == shared.PoolStatusActive {
		return nil, errors.Wrapf(shared.ErrAlreadyInitialized, "pool %s", p.Address)
	}
	if err := params.Fees.Validate(); err != nil {
		return nil, err
	}
	if err := e.constraints.ValidateFees(&params.Fees); err != nil {
		return nil, err
	}

	accounts, err := e.readPoolAccounts(ctx, &p.state)
	if err != nil {
		return nil, err
	}
	if err = e.curve.ValidateSupply(accounts.vaultA.Amount, accounts.vaultB.Amount); err != nil {
		return nil, errors.Wrapf(err, "pool %s", p.Address)
	}
	if accounts.mint.Supply != 0 {
		return nil, errors.Wrapf(shared.ErrInvalidAccount, "share mint %s already has supply", accounts.mint.Address)
	}

	feeAccount, err := e.port.GetAccount(ctx, p.state.PoolFeeAccount)
	if err != nil {
		return nil, err
	}
	if !feeAccount.Mint.Equals(p.state.PoolMint) {
		return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "fee account %s mint %s", feeAccount.Address, feeAccount.Mint)
	}
	if feeAccount.Owner.Equals(accounts.authority) {
		return nil, errors.Wrapf(shared.ErrInvalidOwner, "fee account %s is owned by the pool authority", feeAccount.Address)
	}
	if err = e.constraints.ValidateFeeReceiver(feeAccount.Owner); err != nil {
		return nil, err
	}

	destination, err := e.port.GetAccount(ctx, params.PoolTokenAccount)
	if err != nil {
		return nil, err
	}
	if !destination.Mint.Equals(p.state.PoolMint) {
		return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "share account %s mint %s", destination.Address, destination.Mint)
	}
	if !destination.Owner.Equals(feeAccount.Owner) {
		return nil, errors.Wrapf(shared.ErrInvalidOwner, "share account %s owner %s", destination.Address, destination.Owner)
	}

	initial := e.curve.NewPoolSupply()
	sm := supply.NewManager(accounts.mint.Supply)
	if err = sm.Mint(initial); err != nil {
		return nil, err
	}

	batch := &custody.Batch{}
	batch.Add(custody.MintToInstruction(initial, p.state.PoolMint, destination.Address, accounts.authority))
	batch.Sign(accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	p.state.Fees = params.Fees
	p.state.Status = shared.PoolStatusActive

	receipt := e.receipt(p, model.OperationInitialize, feeAccount.Owner)
	receipt.PoolTokensMinted = initial
	receipt.ReserveA = accounts.vaultA.Amount
	receipt.ReserveB = accounts.vaultB.Amount
	receipt.PoolSupply = sm.Total()

	e.logger.Info("pool initialized",
		zap.String("pool", p.Address.String()),
		zap.String("authority", accounts.authority.String()),
		zap.Uint64("reserveA", receipt.ReserveA),
		zap.Uint64("reserveB", receipt.ReserveB),
		zap.Uint64("supply", receipt.PoolSupply),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}

// DepositAll mints exactly PoolTokenAmount shares for a proportional deposit
// of both assets, rounded up in the pool's favor.
func (e *Engine) DepositAll(ctx context.Context, p *Pool, params DepositAllParams) (*model.Receipt, error) {
	if params.PoolTokenAmount == 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "pool token amount")
	}

	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = accounts.checkUser(params.Owner, params.TokenAAccount, params.TokenBAccount, params.PoolTokenAccount); err != nil {
		return nil, err
	}
	if _, err = e.tradingAccount(ctx, params.TokenAAccount, params.Owner, p.state.TokenAMint); err != nil {
		return nil, err
	}
	if _, err = e.tradingAccount(ctx, params.TokenBAccount, params.Owner, p.state.TokenBMint); err != nil {
		return nil, err
	}
	if _, err = e.shareAccount(ctx, params.PoolTokenAccount, params.Owner, p.state.PoolMint); err != nil {
		return nil, err
	}

	reserveA, reserveB := accounts.vaultA.Amount, accounts.vaultB.Amount
	amounts, err := e.curve.PoolTokensToTradingTokens(params.PoolTokenAmount, accounts.mint.Supply, reserveA, reserveB, shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	if amounts.TokenAAmount > params.MaximumTokenAAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "token a %d > maximum %d", amounts.TokenAAmount, params.MaximumTokenAAmount)
	}
	if amounts.TokenAAmount == 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "token a")
	}
	if amounts.TokenBAmount > params.MaximumTokenBAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "token b %d > maximum %d", amounts.TokenBAmount, params.MaximumTokenBAmount)
	}
	if amounts.TokenBAmount == 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "token b")
	}

	sm := supply.NewManager(accounts.mint.Supply)
	if err = sm.Mint(params.PoolTokenAmount); err != nil {
		return nil, err
	}
	newReserveA, err := math.CheckedAdd(reserveA, amounts.TokenAAmount)
	if err != nil {
		return nil, err
	}
	newReserveB, err := math.CheckedAdd(reserveB, amounts.TokenBAmount)
	if err != nil {
		return nil, err
	}

	batch := &custody.Batch{}
	batch.Add(
		custody.TransferInstruction(amounts.TokenAAmount, params.TokenAAccount, p.state.TokenAAccount, params.Owner),
		custody.TransferInstruction(amounts.TokenBAmount, params.TokenBAccount, p.state.TokenBAccount, params.Owner),
		custody.MintToInstruction(params.PoolTokenAmount, p.state.PoolMint, params.PoolTokenAccount, accounts.authority),
	)
	batch.Sign(params.Owner, accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	receipt := e.receipt(p, model.OperationDepositAll, params.Owner)
	receipt.TokenAIn = amounts.TokenAAmount
	receipt.TokenBIn = amounts.TokenBAmount
	receipt.PoolTokensMinted = params.PoolTokenAmount
	receipt.ReserveA = newReserveA
	receipt.ReserveB = newReserveB
	receipt.PoolSupply = sm.Total()

	e.logger.Debug("deposit all",
		zap.String("pool", p.Address.String()),
		zap.Uint64("poolTokens", params.PoolTokenAmount),
		zap.Uint64("tokenA", amounts.TokenAAmount),
		zap.Uint64("tokenB", amounts.TokenBAmount),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}

// DepositSingle deposits one asset and mints the shares it is worth after
// the trade fee on the implicitly swapped half.
func (e *Engine) DepositSingle(ctx context.Context, p *Pool, params DepositSingleParams) (*model.Receipt, error) {
	if params.SourceTokenAmount == 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "source token amount")
	}

	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = accounts.checkUser(params.Owner, params.SourceAccount, params.PoolTokenAccount); err != nil {
		return nil, err
	}
	source, err := e.tradingAccount(ctx, params.SourceAccount, params.Owner, solana.PublicKey{})
	if err != nil {
		return nil, err
	}
	direction, err := directionOf(&p.state, source.Mint)
	if err != nil {
		return nil, err
	}
	if _, err = e.shareAccount(ctx, params.PoolTokenAccount, params.Owner, p.state.PoolMint); err != nil {
		return nil, err
	}

	reserveA, reserveB := accounts.vaultA.Amount, accounts.vaultB.Amount
	poolTokens, err := e.curve.DepositSingleTokenType(
		params.SourceTokenAmount, reserveA, reserveB, accounts.mint.Supply, direction, &p.state.Fees,
	)
	if err != nil {
		return nil, err
	}
	if poolTokens < params.MinimumPoolTokenAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "pool tokens %d < minimum %d", poolTokens, params.MinimumPoolTokenAmount)
	}
	if poolTokens == 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "pool tokens")
	}

	sm := supply.NewManager(accounts.mint.Supply)
	if err = sm.Mint(poolTokens); err != nil {
		return nil, err
	}

	vault := accounts.vault(direction)
	newReserve, err := math.CheckedAdd(vault.Amount, params.SourceTokenAmount)
	if err != nil {
		return nil, err
	}

	batch := &custody.Batch{}
	batch.Add(
		custody.TransferInstruction(params.SourceTokenAmount, params.SourceAccount, vault.Address, params.Owner),
		custody.MintToInstruction(poolTokens, p.state.PoolMint, params.PoolTokenAccount, accounts.authority),
	)
	batch.Sign(params.Owner, accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	receipt := e.receipt(p, model.OperationDepositSingle, params.Owner)
	receipt.PoolTokensMinted = poolTokens
	receipt.ReserveA, receipt.ReserveB = reserveA, reserveB
	if direction == shared.TradeDirectionAtoB {
		receipt.TokenAIn = params.SourceTokenAmount
		receipt.ReserveA = newReserve
	} else {
		receipt.TokenBIn = params.SourceTokenAmount
		receipt.ReserveB = newReserve
	}
	receipt.PoolSupply = sm.Total()

	e.logger.Debug("deposit single",
		zap.String("pool", p.Address.String()),
		zap.Stringer("direction", direction),
		zap.Uint64("amountIn", params.SourceTokenAmount),
		zap.Uint64("poolTokens", poolTokens),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}

// WithdrawAll redeems shares for both assets, rounded down in the pool's
// favor. The owner withdraw fee is moved to the pool fee account as shares.
func (e *Engine) WithdrawAll(ctx context.Context, p *Pool, params WithdrawAllParams) (*model.Receipt, error) {
	if params.PoolTokenAmount == 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "pool token amount")
	}

	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = accounts.checkUser(params.Owner, params.PoolTokenAccount, params.TokenAAccount, params.TokenBAccount); err != nil {
		return nil, err
	}
	if _, err = e.shareAccount(ctx, params.PoolTokenAccount, params.Owner, p.state.PoolMint); err != nil {
		return nil, err
	}
	if _, err = e.tradingAccount(ctx, params.TokenAAccount, params.Owner, p.state.TokenAMint); err != nil {
		return nil, err
	}
	if _, err = e.tradingAccount(ctx, params.TokenBAccount, params.Owner, p.state.TokenBMint); err != nil {
		return nil, err
	}

	withdrawFee, err := e.withdrawFee(&p.state, params.PoolTokenAccount, params.PoolTokenAmount)
	if err != nil {
		return nil, err
	}
	poolTokens := params.PoolTokenAmount - withdrawFee

	reserveA, reserveB := accounts.vaultA.Amount, accounts.vaultB.Amount
	amounts, err := e.curve.PoolTokensToTradingTokens(poolTokens, accounts.mint.Supply, reserveA, reserveB, shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	tokenAAmount := min(amounts.TokenAAmount, reserveA)
	if tokenAAmount < params.MinimumTokenAAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "token a %d < minimum %d", tokenAAmount, params.MinimumTokenAAmount)
	}
	if tokenAAmount == 0 && reserveA != 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "token a")
	}
	tokenBAmount := min(amounts.TokenBAmount, reserveB)
	if tokenBAmount < params.MinimumTokenBAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "token b %d < minimum %d", tokenBAmount, params.MinimumTokenBAmount)
	}
	if tokenBAmount == 0 && reserveB != 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "token b")
	}

	sm := supply.NewManager(accounts.mint.Supply)
	if err = sm.Burn(poolTokens); err != nil {
		return nil, err
	}

	batch := &custody.Batch{}
	if withdrawFee > 0 {
		batch.Add(custody.TransferInstruction(withdrawFee, params.PoolTokenAccount, p.state.PoolFeeAccount, params.Owner))
	}
	batch.Add(custody.BurnInstruction(poolTokens, params.PoolTokenAccount, p.state.PoolMint, params.Owner))
	if tokenAAmount > 0 {
		batch.Add(custody.TransferInstruction(tokenAAmount, p.state.TokenAAccount, params.TokenAAccount, accounts.authority))
	}
	if tokenBAmount > 0 {
		batch.Add(custody.TransferInstruction(tokenBAmount, p.state.TokenBAccount, params.TokenBAccount, accounts.authority))
	}
	batch.Sign(params.Owner, accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	receipt := e.receipt(p, model.OperationWithdrawAll, params.Owner)
	receipt.TokenAOut = tokenAAmount
	receipt.TokenBOut = tokenBAmount
	receipt.PoolTokensBurned = poolTokens
	receipt.WithdrawFee = withdrawFee
	receipt.ReserveA = reserveA - tokenAAmount
	receipt.ReserveB = reserveB - tokenBAmount
	receipt.PoolSupply = sm.Total()

	e.logger.Debug("withdraw all",
		zap.String("pool", p.Address.String()),
		zap.Uint64("poolTokens", params.PoolTokenAmount),
		zap.Uint64("withdrawFee", withdrawFee),
		zap.Uint64("tokenA", tokenAAmount),
		zap.Uint64("tokenB", tokenBAmount),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}

// WithdrawSingle takes exactly DestinationTokenAmount of one asset out and
// burns the shares it costs, rounded up.
func (e *Engine) WithdrawSingle(ctx context.Context, p *Pool, params WithdrawSingleParams) (*model.Receipt, error) {
	if params.DestinationTokenAmount == 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "destination token amount")
	}

	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = accounts.checkUser(params.Owner, params.PoolTokenAccount, params.DestinationAccount); err != nil {
		return nil, err
	}
	if _, err = e.shareAccount(ctx, params.PoolTokenAccount, params.Owner, p.state.PoolMint); err != nil {
		return nil, err
	}
	destination, err := e.tradingAccount(ctx, params.DestinationAccount, params.Owner, solana.PublicKey{})
	if err != nil {
		return nil, err
	}
	direction, err := directionOf(&p.state, destination.Mint)
	if err != nil {
		return nil, err
	}

	reserveA, reserveB := accounts.vaultA.Amount, accounts.vaultB.Amount
	burnAmount, err := e.curve.WithdrawSingleTokenTypeExactOut(
		params.DestinationTokenAmount, reserveA, reserveB, accounts.mint.Supply, direction, &p.state.Fees,
	)
	if err != nil {
		return nil, err
	}
	withdrawFee, err := e.withdrawFee(&p.state, params.PoolTokenAccount, burnAmount)
	if err != nil {
		return nil, err
	}
	poolTokens, err := math.CheckedAdd(burnAmount, withdrawFee)
	if err != nil {
		return nil, err
	}
	if poolTokens > params.MaximumPoolTokenAmount {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "pool tokens %d > maximum %d", poolTokens, params.MaximumPoolTokenAmount)
	}
	if poolTokens == 0 {
		return nil, errors.Wrap(shared.ErrZeroTradingTokens, "pool tokens")
	}

	sm := supply.NewManager(accounts.mint.Supply)
	if err = sm.Burn(burnAmount); err != nil {
		return nil, err
	}

	vault := accounts.vault(direction)
	batch := &custody.Batch{}
	if withdrawFee > 0 {
		batch.Add(custody.TransferInstruction(withdrawFee, params.PoolTokenAccount, p.state.PoolFeeAccount, params.Owner))
	}
	batch.Add(
		custody.BurnInstruction(burnAmount, params.PoolTokenAccount, p.state.PoolMint, params.Owner),
		custody.TransferInstruction(params.DestinationTokenAmount, vault.Address, params.DestinationAccount, accounts.authority),
	)
	batch.Sign(params.Owner, accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	receipt := e.receipt(p, model.OperationWithdrawSingle, params.Owner)
	receipt.PoolTokensBurned = burnAmount
	receipt.WithdrawFee = withdrawFee
	receipt.ReserveA, receipt.ReserveB = reserveA, reserveB
	if direction == shared.TradeDirectionAtoB {
		receipt.TokenAOut = params.DestinationTokenAmount
		receipt.ReserveA -= params.DestinationTokenAmount
	} else {
		receipt.TokenBOut = params.DestinationTokenAmount
		receipt.ReserveB -= params.DestinationTokenAmount
	}
	receipt.PoolSupply = sm.Total()

	e.logger.Debug("withdraw single",
		zap.String("pool", p.Address.String()),
		zap.Stringer("direction", direction),
		zap.Uint64("amountOut", params.DestinationTokenAmount),
		zap.Uint64("poolTokens", burnAmount),
		zap.Uint64("withdrawFee", withdrawFee),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}

// Swap trades AmountIn of the source account's asset for the other asset.
// The trade fee stays in the pool. The owner fee is paid in the input asset
// to the fee receiver and, when given, the host account.
func (e *Engine) Swap(ctx context.Context, p *Pool, params SwapParams) (*model.Receipt, error) {
	if params.AmountIn == 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "amount in")
	}

	defer e.lock(p)()

	accounts, err := e.readActivePool(ctx, p)
	if err != nil {
		return nil, err
	}
	userAccounts := []solana.PublicKey{params.SourceAccount, params.DestinationAccount}
	if params.OwnerFeeAccount != nil {
		userAccounts = append(userAccounts, *params.OwnerFeeAccount)
	}
	if params.HostFeeAccount != nil {
		userAccounts = append(userAccounts, *params.HostFeeAccount)
	}
	if err = accounts.checkUser(params.Owner, userAccounts...); err != nil {
		return nil, err
	}
	source, err := e.tradingAccount(ctx, params.SourceAccount, params.Owner, solana.PublicKey{})
	if err != nil {
		return nil, err
	}
	direction, err := directionOf(&p.state, source.Mint)
	if err != nil {
		return nil, err
	}
	vaultIn, vaultOut := accounts.vault(direction), accounts.vault(direction.Opposite())
	if _, err = e.tradingAccount(ctx, params.DestinationAccount, params.Owner, vaultOut.Mint); err != nil {
		return nil, err
	}

	result, err := e.curve.Swap(params.AmountIn, vaultIn.Amount, vaultOut.Amount, &p.state.Fees)
	if err != nil {
		return nil, err
	}
	if result.DestinationAmountSwapped < params.MinimumAmountOut {
		return nil, errors.Wrapf(shared.ErrSlippageExceeded, "amount out %d < minimum %d", result.DestinationAmountSwapped, params.MinimumAmountOut)
	}

	ownerShare, hostShare, err := p.state.Fees.SplitOwnerFee(result.OwnerFee, params.HostFeeAccount != nil)
	if err != nil {
		return nil, err
	}
	if ownerShare > 0 {
		if err = e.ownerFeeAccount(ctx, &p.state, params.OwnerFeeAccount, vaultIn.Mint); err != nil {
			return nil, err
		}
	}
	if hostShare > 0 {
		host, err := e.port.GetAccount(ctx, *params.HostFeeAccount)
		if err != nil {
			return nil, err
		}
		if !host.Mint.Equals(vaultIn.Mint) {
			return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "host fee account %s mint %s", host.Address, host.Mint)
		}
	}

	sm := supply.NewManager(accounts.mint.Supply)
	batch := &custody.Batch{}
	batch.Add(custody.TransferInstruction(params.AmountIn-result.OwnerFee, params.SourceAccount, vaultIn.Address, params.Owner))
	if ownerShare > 0 {
		batch.Add(custody.TransferInstruction(ownerShare, params.SourceAccount, *params.OwnerFeeAccount, params.Owner))
	}
	if hostShare > 0 {
		batch.Add(custody.TransferInstruction(hostShare, params.SourceAccount, *params.HostFeeAccount, params.Owner))
	}
	batch.Add(custody.TransferInstruction(result.DestinationAmountSwapped, vaultOut.Address, params.DestinationAccount, accounts.authority))
	batch.Sign(params.Owner, accounts.authority)
	if err = e.execute(ctx, p, batch, sm); err != nil {
		return nil, err
	}

	if err = p.state.Metrics.recordSwap(direction, params.AmountIn, result.TradeFee, result.OwnerFee); err != nil {
		e.logger.Warn("swap metrics overflow", zap.String("pool", p.Address.String()), zap.Error(err))
	}

	receipt := e.receipt(p, model.OperationSwap, params.Owner)
	receipt.TradeFee = result.TradeFee
	receipt.OwnerFee = ownerShare
	receipt.HostFee = hostShare
	if direction == shared.TradeDirectionAtoB {
		receipt.TokenAIn = params.AmountIn
		receipt.TokenBOut = result.DestinationAmountSwapped
		receipt.ReserveA = result.NewSwapSourceAmount
		receipt.ReserveB = result.NewSwapDestinationAmount
	} else {
		receipt.TokenBIn = params.AmountIn
		receipt.TokenAOut = result.DestinationAmountSwapped
		receipt.ReserveA = result.NewSwapDestinationAmount
		receipt.ReserveB = result.NewSwapSourceAmount
	}
	receipt.PoolSupply = sm.Total()

	e.logger.Debug("swap",
		zap.String("pool", p.Address.String()),
		zap.Stringer("direction", direction),
		zap.Uint64("amountIn", params.AmountIn),
		zap.Uint64("amountOut", result.DestinationAmountSwapped),
		zap.Uint64("tradeFee", result.TradeFee),
		zap.Uint64("ownerFee", result.OwnerFee),
		zap.Uint64("hostFee", hostShare),
	)
	e.finish(ctx, p, receipt)
	return receipt, nil
}
