package fees

import (
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/math"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

// Fees is the immutable fee schedule of a pool. Every fraction is disabled
// when its denominator is 0.
type Fees struct {
	// Trade fee, stays in the pool reserves.
	TradeFeeNumerator   uint64 `json:"tradeFeeNumerator"`
	TradeFeeDenominator uint64 `json:"tradeFeeDenominator"`

	// Owner trade fee, routed to the fee receiver.
	OwnerTradeFeeNumerator   uint64 `json:"ownerTradeFeeNumerator"`
	OwnerTradeFeeDenominator uint64 `json:"ownerTradeFeeDenominator"`

	// Owner withdraw fee, taken in shares on withdrawal.
	OwnerWithdrawFeeNumerator   uint64 `json:"ownerWithdrawFeeNumerator"`
	OwnerWithdrawFeeDenominator uint64 `json:"ownerWithdrawFeeDenominator"`

	// Host fee, a fraction of the owner trade fee.
	HostFeeNumerator   uint64 `json:"hostFeeNumerator"`
	HostFeeDenominator uint64 `json:"hostFeeDenominator"`
}

// ComputeFee returns floor(amount*numerator/denominator), or 0 when the fee is disabled.
func ComputeFee(amount, numerator, denominator uint64) (uint64, error) {
	if numerator == 0 || amount == 0 {
		return 0, nil
	}
	if denominator == 0 {
		return 0, errors.Wrapf(shared.ErrDivisionByZero, "fee %d/0", numerator)
	}
	fee, err := math.MulDiv(amount, numerator, denominator, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	if fee > amount {
		return 0, errors.Wrapf(shared.ErrInvalidFee, "fee %d exceeds amount %d", fee, amount)
	}
	return fee, nil
}

// SplitOwnerFee divides ownerFee between the pool owner and an optional host.
// The truncation remainder always stays with the pool owner.
func SplitOwnerFee(ownerFee, hostNumerator, hostDenominator uint64, hasHost bool) (poolOwnerShare, hostShare uint64, err error) {
	if !hasHost {
		return ownerFee, 0, nil
	}
	hostShare, err = ComputeFee(ownerFee, hostNumerator, hostDenominator)
	if err != nil {
		return 0, 0, err
	}
	return ownerFee - hostShare, hostShare, nil
}

func (f *Fees) TradingFee(amount uint64) (uint64, error) {
	return ComputeFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator)
}

func (f *Fees) OwnerTradingFee(amount uint64) (uint64, error) {
	return ComputeFee(amount, f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator)
}

func (f *Fees) OwnerWithdrawFee(shares uint64) (uint64, error) {
	return ComputeFee(shares, f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator)
}

func (f *Fees) HostFee(ownerFee uint64) (uint64, error) {
	return ComputeFee(ownerFee, f.HostFeeNumerator, f.HostFeeDenominator)
}

// SplitOwnerFee splits ownerFee with the host fee fraction of the schedule.
func (f *Fees) SplitOwnerFee(ownerFee uint64, hasHost bool) (uint64, uint64, error) {
	return SplitOwnerFee(ownerFee, f.HostFeeNumerator, f.HostFeeDenominator, hasHost)
}

// Validate checks every fraction is either disabled or strictly below one.
func (f *Fees) Validate() error {
	if err := ValidateFeeFraction(f.TradeFeeNumerator, f.TradeFeeDenominator); err != nil {
		return errors.Wrap(err, "trade fee")
	}
	if err := ValidateFeeFraction(f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator); err != nil {
		return errors.Wrap(err, "owner trade fee")
	}
	if err := ValidateFeeFraction(f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator); err != nil {
		return errors.Wrap(err, "owner withdraw fee")
	}
	if err := ValidateFeeFraction(f.HostFeeNumerator, f.HostFeeDenominator); err != nil {
		return errors.Wrap(err, "host fee")
	}
	return nil
}

func ValidateFeeFraction(numerator, denominator uint64) error {
	if denominator == 0 && numerator == 0 {
		return nil
	}
	if numerator >= denominator {
		return errors.Wrapf(shared.ErrInvalidFee, "%d/%d", numerator, denominator)
	}
	return nil
}
