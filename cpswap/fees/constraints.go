package fees

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

// Constraints pins parts of the fee schedule and the fee receiver for every
// pool an engine initializes.
type Constraints struct {
	OwnerKey *solana.PublicKey

	OwnerTradeFeeNumerator   uint64
	OwnerTradeFeeDenominator uint64

	OwnerWithdrawFeeNumerator   uint64
	OwnerWithdrawFeeDenominator uint64
}

func (c *Constraints) ValidateFees(f *Fees) error {
	if c == nil {
		return nil
	}
	if f.OwnerTradeFeeNumerator != c.OwnerTradeFeeNumerator || f.OwnerTradeFeeDenominator != c.OwnerTradeFeeDenominator {
		return errors.Wrapf(shared.ErrInvalidFee, "owner trade fee must be %d/%d",
			c.OwnerTradeFeeNumerator, c.OwnerTradeFeeDenominator)
	}
	if f.OwnerWithdrawFeeNumerator != c.OwnerWithdrawFeeNumerator || f.OwnerWithdrawFeeDenominator != c.OwnerWithdrawFeeDenominator {
		return errors.Wrapf(shared.ErrInvalidFee, "owner withdraw fee must be %d/%d",
			c.OwnerWithdrawFeeNumerator, c.OwnerWithdrawFeeDenominator)
	}
	return nil
}

// ValidateFeeReceiver checks the owner of the fee receiving share account.
func (c *Constraints) ValidateFeeReceiver(owner solana.PublicKey) error {
	if c == nil || c.OwnerKey == nil {
		return nil
	}
	if !c.OwnerKey.Equals(owner) {
		return errors.Wrapf(shared.ErrInvalidOwner, "fee receiver owned by %s", owner)
	}
	return nil
}
