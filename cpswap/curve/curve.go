package curve

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/math"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

var (
	sqrtScale        = math.Pow10(shared.SqrtScaleDigits)
	sqrtScaleSquared = math.Pow10(2 * shared.SqrtScaleDigits)
)

// SwapResult is the outcome of a swap against the curve.
type SwapResult struct {
	// New reserve of the input side, trade fee included.
	NewSwapSourceAmount uint64
	// New reserve of the output side.
	NewSwapDestinationAmount uint64
	// Gross amount taken from the trader, fees included.
	SourceAmountSwapped uint64
	// Amount paid out to the trader.
	DestinationAmountSwapped uint64
	// Amount that moved along the curve.
	AmountInAfterFees uint64
	TradeFee          uint64
	OwnerFee          uint64
}

// TradingTokenResult holds the reserve amounts matching a share amount.
type TradingTokenResult struct {
	TokenAAmount uint64
	TokenBAmount uint64
}

// ConstantProduct prices trades on x*y=k.
type ConstantProduct struct{}

func (c ConstantProduct) NewPoolSupply() uint64 {
	return shared.InitialPoolSupply
}

// ValidateSupply rejects pools with an empty reserve.
func (c ConstantProduct) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	if tokenAAmount == 0 || tokenBAmount == 0 {
		return shared.ErrEmptySupply
	}
	return nil
}

// Swap computes the output for sourceAmount of the input asset. Trade fee
// stays in the input reserve; owner fee is reported but never enters reserves.
func (c ConstantProduct) Swap(sourceAmount, swapSourceAmount, swapDestinationAmount uint64, f *fees.Fees) (*SwapResult, error) {
	if sourceAmount == 0 {
		return nil, shared.ErrInvalidAmount
	}
	if swapSourceAmount == 0 || swapDestinationAmount == 0 {
		return nil, shared.ErrInsufficientReserve
	}

	tradeFee, err := f.TradingFee(sourceAmount)
	if err != nil {
		return nil, err
	}
	ownerFee, err := f.OwnerTradingFee(sourceAmount)
	if err != nil {
		return nil, err
	}
	totalFees, err := math.CheckedAdd(tradeFee, ownerFee)
	if err != nil {
		return nil, err
	}
	amountInAfterFees, err := math.CheckedSub(sourceAmount, totalFees)
	if err != nil {
		return nil, errors.Wrap(shared.ErrInvalidFee, "fees exceed swap amount")
	}
	if amountInAfterFees == 0 {
		return nil, shared.ErrSwapYieldsZero
	}

	amountOut, err := SwapOut(amountInAfterFees, swapSourceAmount, swapDestinationAmount)
	if err != nil {
		return nil, err
	}

	newSource, err := math.CheckedAdd(swapSourceAmount, amountInAfterFees)
	if err != nil {
		return nil, err
	}
	if newSource, err = math.CheckedAdd(newSource, tradeFee); err != nil {
		return nil, err
	}

	return &SwapResult{
		NewSwapSourceAmount:      newSource,
		NewSwapDestinationAmount: swapDestinationAmount - amountOut,
		SourceAmountSwapped:      sourceAmount,
		DestinationAmountSwapped: amountOut,
		AmountInAfterFees:        amountInAfterFees,
		TradeFee:                 tradeFee,
		OwnerFee:                 ownerFee,
	}, nil
}

// SwapOut returns floor(reserveOut*amountIn/(reserveIn+amountIn)).
func SwapOut(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, shared.ErrInsufficientReserve
	}
	denominator := new(uint256.Int).Add(uint256.NewInt(reserveIn), uint256.NewInt(amountIn))
	out, err := math.MulDivU256(uint256.NewInt(reserveOut), uint256.NewInt(amountIn), denominator, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	amountOut, err := math.ToU64(out)
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, shared.ErrSwapYieldsZero
	}
	return amountOut, nil
}

// PoolTokensToTradingTokens converts a share amount into reserve amounts.
// Ceiling rounding never lifts a zero amount so dust requests stay rejectable.
func (c ConstantProduct) PoolTokensToTradingTokens(
	poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint64,
	rounding shared.Rounding,
) (*TradingTokenResult, error) {
	if poolTokenSupply == 0 {
		return nil, errors.Wrap(shared.ErrDivisionByZero, "empty share supply")
	}
	a, err := poolTokensToReserve(poolTokens, poolTokenSupply, swapTokenAAmount, rounding)
	if err != nil {
		return nil, err
	}
	b, err := poolTokensToReserve(poolTokens, poolTokenSupply, swapTokenBAmount, rounding)
	if err != nil {
		return nil, err
	}
	return &TradingTokenResult{TokenAAmount: a, TokenBAmount: b}, nil
}

func poolTokensToReserve(poolTokens, supply, reserve uint64, rounding shared.Rounding) (uint64, error) {
	floor, err := math.MulDiv(poolTokens, reserve, supply, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	if rounding == shared.RoundingDown || floor == 0 {
		return floor, nil
	}
	ceil, err := math.MulDiv(poolTokens, reserve, supply, shared.RoundingUp)
	if err != nil {
		return 0, err
	}
	return ceil, nil
}

// DepositSingleTokenType returns the shares minted for depositing sourceAmount
// of one asset. Half the deposit is charged the trade fee, as if swapped.
func (c ConstantProduct) DepositSingleTokenType(
	sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint64,
	direction shared.TradeDirection,
	f *fees.Fees,
) (uint64, error) {
	if sourceAmount == 0 {
		return 0, shared.ErrInvalidAmount
	}
	tradeFee, err := f.TradingFee(halfAmount(sourceAmount))
	if err != nil {
		return 0, err
	}
	sourceAmount, err = math.CheckedSub(sourceAmount, tradeFee)
	if err != nil {
		return 0, err
	}
	reserve := sourceReserve(direction, swapTokenAAmount, swapTokenBAmount)
	return depositSingleTokenType(sourceAmount, reserve, poolSupply)
}

// WithdrawSingleTokenTypeExactOut returns the shares burned to take exactly
// destinationAmount of one asset out. Rounds up so the pool is never short.
func (c ConstantProduct) WithdrawSingleTokenTypeExactOut(
	destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint64,
	direction shared.TradeDirection,
	f *fees.Fees,
) (uint64, error) {
	if destinationAmount == 0 {
		return 0, shared.ErrInvalidAmount
	}
	tradeFee, err := f.TradingFee(halfAmount(destinationAmount))
	if err != nil {
		return 0, err
	}
	grossAmount, err := math.CheckedAdd(destinationAmount, tradeFee)
	if err != nil {
		return 0, err
	}
	reserve := sourceReserve(direction, swapTokenAAmount, swapTokenBAmount)
	return withdrawSingleTokenTypeExactOut(grossAmount, reserve, poolSupply)
}

func halfAmount(amount uint64) uint64 {
	if half := amount / 2; half > 0 {
		return half
	}
	return 1
}

func sourceReserve(direction shared.TradeDirection, a, b uint64) uint64 {
	if direction == shared.TradeDirectionAtoB {
		return a
	}
	return b
}

// shares = floor(supply * (sqrt(1 + amount/reserve) - 1))
func depositSingleTokenType(amount, reserve, supply uint64) (uint64, error) {
	if reserve == 0 || supply == 0 {
		return 0, shared.ErrEmptySupply
	}
	root, err := scaledRoot(new(uint256.Int).Add(uint256.NewInt(reserve), uint256.NewInt(amount)), reserve)
	if err != nil {
		return 0, err
	}
	delta := new(uint256.Int).Sub(root, sqrtScale)
	shares, err := math.MulDivU256(uint256.NewInt(supply), delta, sqrtScale, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	return math.ToU64(shares)
}

// shares = ceil(supply * (1 - sqrt(1 - amount/reserve)))
func withdrawSingleTokenTypeExactOut(amount, reserve, supply uint64) (uint64, error) {
	if reserve == 0 || supply == 0 {
		return 0, shared.ErrEmptySupply
	}
	if amount >= reserve {
		return 0, errors.Wrapf(shared.ErrInsufficientReserve, "withdraw %d of reserve %d", amount, reserve)
	}
	root, err := scaledRoot(uint256.NewInt(reserve-amount), reserve)
	if err != nil {
		return 0, err
	}
	delta := new(uint256.Int).Sub(sqrtScale, root)
	shares, err := math.MulDivU256(uint256.NewInt(supply), delta, sqrtScale, shared.RoundingUp)
	if err != nil {
		return 0, err
	}
	return math.ToU64(shares)
}

// scaledRoot returns floor(sqrt(numerator/reserve) * 10^SqrtScaleDigits).
func scaledRoot(numerator *uint256.Int, reserve uint64) (*uint256.Int, error) {
	ratio, err := math.MulDivU256(numerator, sqrtScaleSquared, uint256.NewInt(reserve), shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	return math.Sqrt(ratio), nil
}
