package shared

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrSlippageExceeded    = errors.New("slippage exceeded")
	ErrSwapYieldsZero      = errors.New("swap yields zero output")
	ErrPoolNotInitialized  = errors.New("pool not initialized")
	ErrAlreadyInitialized  = errors.New("pool already initialized")
	ErrInsufficientReserve = errors.New("insufficient reserve")

	ErrZeroTradingTokens    = errors.New("pool token amount converts to zero trading tokens")
	ErrEmptySupply          = errors.New("pool reserves are empty")
	ErrInvalidFee           = errors.New("invalid fee")
	ErrInvalidOwner         = errors.New("invalid owner")
	ErrInvalidAuthority     = errors.New("invalid pool authority")
	ErrIncorrectSwapAccount = errors.New("account does not belong to pool")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrSupplyMismatch       = errors.New("share supply mismatch")
)

var errorCodes = []struct {
	err  error
	code uint32
}{
	{ErrInvalidAmount, 6000},
	{ErrArithmeticOverflow, 6001},
	{ErrDivisionByZero, 6002},
	{ErrSlippageExceeded, 6003},
	{ErrSwapYieldsZero, 6004},
	{ErrPoolNotInitialized, 6005},
	{ErrAlreadyInitialized, 6006},
	{ErrInsufficientReserve, 6007},
	{ErrZeroTradingTokens, 6008},
	{ErrEmptySupply, 6009},
	{ErrInvalidFee, 6010},
	{ErrInvalidOwner, 6011},
	{ErrInvalidAuthority, 6012},
	{ErrIncorrectSwapAccount, 6013},
	{ErrInvalidAccount, 6014},
	{ErrSupplyMismatch, 6015},
}

// Code returns the stable numeric code of err, or 0 when err is not one of
// the engine errors.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return 0
}
