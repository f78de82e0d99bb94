package model

import "time"

type OperationKind string

const (
	OperationInitialize     OperationKind = "initialize"
	OperationDepositAll     OperationKind = "deposit_all"
	OperationDepositSingle  OperationKind = "deposit_single"
	OperationWithdrawAll    OperationKind = "withdraw_all"
	OperationWithdrawSingle OperationKind = "withdraw_single"
	OperationSwap           OperationKind = "swap"
)

// Receipt records the amounts moved by one committed pool operation and the
// pool balances right after it.
type Receipt struct {
	Kind  OperationKind `json:"kind"`
	Pool  string        `json:"pool"`
	Owner string        `json:"owner"`

	// In and Out are relative to the vaults.
	TokenAIn  uint64 `json:"tokenAIn,omitempty"`
	TokenBIn  uint64 `json:"tokenBIn,omitempty"`
	TokenAOut uint64 `json:"tokenAOut,omitempty"`
	TokenBOut uint64 `json:"tokenBOut,omitempty"`

	PoolTokensMinted uint64 `json:"poolTokensMinted,omitempty"`
	PoolTokensBurned uint64 `json:"poolTokensBurned,omitempty"`
	WithdrawFee      uint64 `json:"withdrawFee,omitempty"`

	TradeFee uint64 `json:"tradeFee,omitempty"`
	OwnerFee uint64 `json:"ownerFee,omitempty"`
	HostFee  uint64 `json:"hostFee,omitempty"`

	ReserveA   uint64 `json:"reserveA"`
	ReserveB   uint64 `json:"reserveB"`
	PoolSupply uint64 `json:"poolSupply"`

	Timestamp time.Time `json:"ts"`
}
