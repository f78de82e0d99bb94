package curve

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

const BasisPointMax = 10000

// SwapQuote is a priced swap with slippage bounds applied.
type SwapQuote struct {
	*SwapResult
	MinimumAmountOut uint64
	SpotPrice        decimal.Decimal
	ExecutionPrice   decimal.Decimal
	PriceImpact      decimal.Decimal
}

// QuoteSwap prices a swap of amountIn in direction without touching any pool.
// Prices are quoted as B per A in UI units.
func (c ConstantProduct) QuoteSwap(
	amountIn, tokenAAmount, tokenBAmount uint64,
	direction shared.TradeDirection,
	f *fees.Fees,
	slippageBps uint64,
	tokenADecimal, tokenBDecimal uint8,
) (*SwapQuote, error) {
	reserveIn, reserveOut := tokenAAmount, tokenBAmount
	if direction == shared.TradeDirectionBtoA {
		reserveIn, reserveOut = tokenBAmount, tokenAAmount
	}
	result, err := c.Swap(amountIn, reserveIn, reserveOut, f)
	if err != nil {
		return nil, err
	}

	spot, err := SpotPrice(tokenAAmount, tokenBAmount, tokenADecimal, tokenBDecimal)
	if err != nil {
		return nil, err
	}
	impact, execution, err := PriceImpact(amountIn, result.DestinationAmountSwapped, spot, direction, tokenADecimal, tokenBDecimal)
	if err != nil {
		return nil, err
	}

	return &SwapQuote{
		SwapResult:       result,
		MinimumAmountOut: MinAmountWithSlippage(result.DestinationAmountSwapped, slippageBps),
		SpotPrice:        spot,
		ExecutionPrice:   execution,
		PriceImpact:      impact,
	}, nil
}

// SpotPrice is the marginal price of A in B, adjusted for mint decimals.
func SpotPrice(tokenAAmount, tokenBAmount uint64, tokenADecimal, tokenBDecimal uint8) (decimal.Decimal, error) {
	if tokenAAmount == 0 || tokenBAmount == 0 {
		return decimal.Zero, shared.ErrEmptySupply
	}
	a := fromU64(tokenAAmount).Shift(-int32(tokenADecimal))
	b := fromU64(tokenBAmount).Shift(-int32(tokenBDecimal))
	return b.Div(a), nil
}

// PriceImpact returns the relative distance in percent between the execution
// price of a swap and the spot price, plus the execution price itself.
func PriceImpact(
	amountIn, amountOut uint64,
	spotPrice decimal.Decimal,
	direction shared.TradeDirection,
	tokenADecimal, tokenBDecimal uint8,
) (decimal.Decimal, decimal.Decimal, error) {
	if amountIn == 0 {
		return decimal.Zero, decimal.Zero, nil
	}
	if amountOut == 0 {
		return decimal.Zero, decimal.Zero, errors.Wrap(shared.ErrSwapYieldsZero, "amount out must be greater than 0")
	}
	if spotPrice.IsZero() {
		return decimal.Zero, decimal.Zero, errors.Wrap(shared.ErrDivisionByZero, "spot price")
	}

	in := fromU64(amountIn)
	out := fromU64(amountOut)
	var execution decimal.Decimal
	if direction == shared.TradeDirectionAtoB {
		execution = out.Shift(-int32(tokenBDecimal)).Div(in.Shift(-int32(tokenADecimal)))
	} else {
		execution = in.Shift(-int32(tokenBDecimal)).Div(out.Shift(-int32(tokenADecimal)))
	}
	impact := execution.Sub(spotPrice).Abs().Div(spotPrice).Mul(decimal.NewFromInt(100))
	return impact, execution, nil
}

// MinAmountWithSlippage lowers amount by slippageBps basis points.
func MinAmountWithSlippage(amount, slippageBps uint64) uint64 {
	if slippageBps == 0 {
		return amount
	}
	if slippageBps >= BasisPointMax {
		return 0
	}
	factor := decimal.NewFromInt(BasisPointMax).Sub(fromU64(slippageBps))
	return fromU64(amount).Mul(factor).Div(decimal.NewFromInt(BasisPointMax)).Floor().BigInt().Uint64()
}

// MaxAmountWithSlippage raises amount by slippageBps basis points.
func MaxAmountWithSlippage(amount, slippageBps uint64) uint64 {
	factor := decimal.NewFromInt(BasisPointMax).Add(fromU64(slippageBps))
	v := fromU64(amount).Mul(factor).Div(decimal.NewFromInt(BasisPointMax)).Ceil().BigInt()
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}

func fromU64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
