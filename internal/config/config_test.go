package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "confirmed", cfg.Commitment)
	require.Equal(t, uint64(1_000_000), cfg.ReserveA)
	require.Equal(t, uint64(1_000_000), cfg.ReserveB)
	require.Equal(t, "a2b", cfg.Direction)
	require.Equal(t, fees.Fees{
		TradeFeeNumerator:        25,
		TradeFeeDenominator:      10000,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10000,
		HostFeeNumerator:         20,
		HostFeeDenominator:       100,
	}, cfg.Fees)
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("POOLCTL_RESERVE_A", "42")
	t.Setenv("POOLCTL_FEES", `{"tradeFeeNumerator":"3","tradeFeeDenominator":"1000"}`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("swaps", 0, "")
	flags.String("direction", "", "")
	require.NoError(t, flags.Parse([]string{"--swaps=5", "--direction=B2A"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Swaps)
	require.Equal(t, "b2a", cfg.Direction)
	require.Equal(t, uint64(42), cfg.ReserveA)
	require.Equal(t, fees.Fees{TradeFeeNumerator: 3, TradeFeeDenominator: 1000}, cfg.Fees)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poolctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
pool: HEnMwtqH2T6bVHGwTkbbj2WBKJs6G4TztVSeUC9w1Tb1
amount-in: 1500
fees:
  tradeFeeNumerator: 30
  tradeFeeDenominator: 10000
  ownerWithdrawFeeNumerator: 1
  ownerWithdrawFeeDenominator: 100
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "HEnMwtqH2T6bVHGwTkbbj2WBKJs6G4TztVSeUC9w1Tb1", cfg.Pool)
	require.Equal(t, uint64(1500), cfg.AmountIn)
	require.Equal(t, fees.Fees{
		TradeFeeNumerator:           30,
		TradeFeeDenominator:         10000,
		OwnerWithdrawFeeNumerator:   1,
		OwnerWithdrawFeeDenominator: 100,
	}, cfg.Fees)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	t.Setenv("POOLCTL_FEES", `{"tradeFeeNumerator":10,"tradeFeeDenominator":10}`)
	_, err = Load("", nil)
	require.Error(t, err)

	t.Setenv("POOLCTL_FEES", `{"tradeFeeNumerator":`)
	_, err = Load("", nil)
	require.Error(t, err)
}
