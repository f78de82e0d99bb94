package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
)

// DefaultFees is the schedule used when no fees are configured.
const DefaultFees = `{
	"tradeFeeNumerator": 25,
	"tradeFeeDenominator": 10000,
	"ownerTradeFeeNumerator": 5,
	"ownerTradeFeeDenominator": 10000,
	"ownerWithdrawFeeNumerator": 0,
	"ownerWithdrawFeeDenominator": 0,
	"hostFeeNumerator": 20,
	"hostFeeDenominator": 100
}`

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	LogLevel string

	RPCURL     string
	Commitment string
	ProgramID  string

	Fees fees.Fees

	// Persistence, both optional.
	PostgresDSN string
	Journal     string

	// simulate
	ReserveA   uint64
	ReserveB   uint64
	SwapAmount uint64
	Swaps      int

	// quote
	Pool        string
	AmountIn    uint64
	Direction   string
	SlippageBps uint64

	// pools
	Mint string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("rpc", "https://api.devnet.solana.com")
	v.SetDefault("commitment", "confirmed")
	v.SetDefault("fees", DefaultFees)
	v.SetDefault("reserve-a", uint64(1_000_000))
	v.SetDefault("reserve-b", uint64(1_000_000))
	v.SetDefault("swap-amount", uint64(100_000))
	v.SetDefault("swaps", 2)
	v.SetDefault("direction", "a2b")
	v.SetDefault("slippage-bps", uint64(100))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, errors.Wrap(err, "bind flags")
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "read config")
			}
		}
	}

	fs, err := getFees(v, "fees")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:    v.GetString("log-level"),
		RPCURL:      v.GetString("rpc"),
		Commitment:  v.GetString("commitment"),
		ProgramID:   v.GetString("program-id"),
		Fees:        fs,
		PostgresDSN: v.GetString("pg-dsn"),
		Journal:     v.GetString("journal"),
		ReserveA:    v.GetUint64("reserve-a"),
		ReserveB:    v.GetUint64("reserve-b"),
		SwapAmount:  v.GetUint64("swap-amount"),
		Swaps:       v.GetInt("swaps"),
		Pool:        v.GetString("pool"),
		AmountIn:    v.GetUint64("amount-in"),
		Direction:   strings.ToLower(v.GetString("direction")),
		SlippageBps: v.GetUint64("slippage-bps"),
		Mint:        v.GetString("mint"),
	}

	return cfg, nil
}

// getFees accepts the schedule either as a JSON string (flag, env) or as a
// nested table in the config file.
func getFees(v *viper.Viper, key string) (fees.Fees, error) {
	var (
		fs  fees.Fees
		err error
	)
	switch typed := v.Get(key).(type) {
	case string:
		fs, err = fees.ParseJSON([]byte(typed))
	case map[string]interface{}:
		// viper lowercases nested keys, mapstructure matches field names
		// case-insensitively.
		err = v.UnmarshalKey(key, &fs)
	default:
		err = errors.Errorf("unsupported value %v", typed)
	}
	if err != nil {
		return fees.Fees{}, errors.Wrap(err, "fees")
	}
	if err := fs.Validate(); err != nil {
		return fees.Fees{}, errors.Wrap(err, "fees")
	}
	return fs, nil
}
