package shared

import (
	"strings"

	"github.com/pkg/errors"
)

// Enums and constants shared by math, fees, curve and the pool engine.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

func (r Rounding) String() string {
	if r == RoundingUp {
		return "up"
	}
	return "down"
}

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

func (d TradeDirection) Opposite() TradeDirection {
	if d == TradeDirectionAtoB {
		return TradeDirectionBtoA
	}
	return TradeDirectionAtoB
}

func (d TradeDirection) String() string {
	if d == TradeDirectionAtoB {
		return "AtoB"
	}
	return "BtoA"
}

// ParseTradeDirection accepts "a2b"/"atob" and "b2a"/"btoa" in any case.
func ParseTradeDirection(s string) (TradeDirection, error) {
	switch strings.ToLower(s) {
	case "a2b", "atob":
		return TradeDirectionAtoB, nil
	case "b2a", "btoa":
		return TradeDirectionBtoA, nil
	}
	return 0, errors.Errorf("unknown trade direction %q", s)
}

type PoolStatus uint8

const (
	PoolStatusUninitialized PoolStatus = 0
	PoolStatusActive        PoolStatus = 1
)

func (s PoolStatus) String() string {
	switch s {
	case PoolStatusUninitialized:
		return "uninitialized"
	case PoolStatusActive:
		return "active"
	default:
		return "unknown"
	}
}

const (
	// InitialPoolSupply is the share amount minted to the initializer.
	InitialPoolSupply uint64 = 1_000_000_000

	// SqrtScaleDigits is the fixed-point precision used by the single-sided
	// deposit and withdrawal formulas.
	SqrtScaleDigits = 12

	PoolSeed = "pool"
)
