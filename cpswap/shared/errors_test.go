package shared

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	require.Equal(t, uint32(0), Code(nil))
	require.Equal(t, uint32(0), Code(errors.New("other")))
	require.Equal(t, uint32(6003), Code(ErrSlippageExceeded))
	require.Equal(t, uint32(6003), Code(errors.Wrap(ErrSlippageExceeded, "swap")))
	require.Equal(t, uint32(6007), Code(fmt.Errorf("withdraw: %w", ErrInsufficientReserve)))
}

func TestCodesUnique(t *testing.T) {
	seen := map[uint32]bool{}
	for _, c := range errorCodes {
		require.False(t, seen[c.code], "duplicate code %d", c.code)
		seen[c.code] = true
	}
}
