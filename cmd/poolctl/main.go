package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krazyTry/liquidity-pool-go/cpswap"
	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/cpswap/store"
	"github.com/krazyTry/liquidity-pool-go/cpswap/store/postgres"
	"github.com/krazyTry/liquidity-pool-go/internal/config"
	"github.com/krazyTry/liquidity-pool-go/internal/sim"
	poolrpc "github.com/krazyTry/liquidity-pool-go/solana"
	"github.com/krazyTry/liquidity-pool-go/u128"
)

func main() {
	root := &cobra.Command{
		Use:          "poolctl",
		Short:        "Constant product pool engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a pool through every operation on an in-memory ledger",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().Uint64("reserve-a", 1_000_000, "initial token A reserve")
	simulateCmd.Flags().Uint64("reserve-b", 1_000_000, "initial token B reserve")
	simulateCmd.Flags().Uint64("swap-amount", 100_000, "input amount of every swap")
	simulateCmd.Flags().Int("swaps", 2, "number of swaps, alternating direction")
	simulateCmd.Flags().String("fees", "", "fee schedule as JSON")
	simulateCmd.Flags().String("program-id", "", "program id the pool authority is derived from")
	simulateCmd.Flags().String("journal", "", "optional receipts JSONL path")
	simulateCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for pools and receipts")
	simulateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against a pool read from the cluster",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("rpc", "", "Solana RPC URL")
	quoteCmd.Flags().String("commitment", "confirmed", "commitment level")
	quoteCmd.Flags().String("program-id", "", "pool program id")
	quoteCmd.Flags().String("pool", "", "pool address")
	quoteCmd.Flags().Uint64("amount-in", 0, "raw input amount")
	quoteCmd.Flags().String("direction", "a2b", "trade direction (a2b, b2a)")
	quoteCmd.Flags().Uint64("slippage-bps", 100, "slippage tolerance in basis points")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools of the program, optionally filtered by mint",
		RunE:  runPools,
	}

	poolsCmd.Flags().String("rpc", "", "Solana RPC URL")
	poolsCmd.Flags().String("commitment", "confirmed", "commitment level")
	poolsCmd.Flags().String("program-id", "", "pool program id")
	poolsCmd.Flags().String("mint", "", "only pools holding this mint")
	poolsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(poolsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func load(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func programID(cfg config.Config) (solana.PublicKey, error) {
	if cfg.ProgramID == "" {
		return cpswap.ProgramID, nil
	}
	id, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	return id, errors.Wrap(err, "program id")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	program, err := programID(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []cpswap.Option{cpswap.WithLogger(logger)}
	if cfg.PostgresDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return errors.Wrap(err, "connect postgres")
		}
		defer pg.Close()
		if err = pg.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, cpswap.WithStore(pg), cpswap.WithJournal(pg))
	}
	if cfg.Journal != "" {
		opts = append(opts, cpswap.WithJournal(store.NewJsonlJournal(cfg.Journal)))
	}

	logger.Info("simulate start",
		zap.Uint64("reserve_a", cfg.ReserveA),
		zap.Uint64("reserve_b", cfg.ReserveB),
		zap.Uint64("swap_amount", cfg.SwapAmount),
		zap.Int("swaps", cfg.Swaps),
		zap.Bool("postgres", cfg.PostgresDSN != ""),
		zap.String("journal", cfg.Journal),
	)

	res, err := sim.Run(ctx, sim.Params{
		ProgramID:  program,
		Fees:       cfg.Fees,
		ReserveA:   cfg.ReserveA,
		ReserveB:   cfg.ReserveB,
		SwapAmount: cfg.SwapAmount,
		Swaps:      cfg.Swaps,
	}, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range res.Receipts {
		printReceipt(out, r)
	}
	fmt.Fprintf(out, "pool %s\n", res.Pool.Address)
	fmt.Fprintf(out, "  reserve A   %s\n", uiAmount(res.Reserves.TokenA, res.DecimalsA))
	fmt.Fprintf(out, "  reserve B   %s\n", uiAmount(res.Reserves.TokenB, res.DecimalsB))
	fmt.Fprintf(out, "  supply      %d\n", res.Reserves.PoolSupply)
	fmt.Fprintf(out, "  owner fee A %s\n", uiAmount(res.OwnerFeeA, res.DecimalsA))
	fmt.Fprintf(out, "  owner fee B %s\n", uiAmount(res.OwnerFeeB, res.DecimalsB))
	return nil
}

func printReceipt(w io.Writer, r *model.Receipt) {
	fmt.Fprintf(w, "%-16s in=%d/%d out=%d/%d minted=%d burned=%d withdraw_fee=%d fees=%d/%d/%d reserves=%d/%d supply=%d\n",
		r.Kind,
		r.TokenAIn, r.TokenBIn,
		r.TokenAOut, r.TokenBOut,
		r.PoolTokensMinted, r.PoolTokensBurned, r.WithdrawFee,
		r.TradeFee, r.OwnerFee, r.HostFee,
		r.ReserveA, r.ReserveB, r.PoolSupply,
	)
}

func uiAmount(amount uint64, decimals uint8) string {
	return poolrpc.TokenAmount{Amount: amount, Decimals: decimals}.UIAmount().String()
}

func newReader(cfg config.Config) (*poolrpc.RPCReader, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("rpc url is required")
	}
	return poolrpc.NewRPCReader(rpc.New(cfg.RPCURL), rpc.CommitmentType(cfg.Commitment)), nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	program, err := programID(cfg)
	if err != nil {
		return err
	}
	if cfg.Pool == "" {
		return errors.New("pool address is required")
	}
	address, err := solana.PublicKeyFromBase58(cfg.Pool)
	if err != nil {
		return errors.Wrap(err, "pool address")
	}
	direction, err := shared.ParseTradeDirection(cfg.Direction)
	if err != nil {
		return err
	}
	reader, err := newReader(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := reader.GetPool(ctx, program, address)
	if err != nil {
		return err
	}
	engine := cpswap.NewEngine(custody.ReadOnly(reader), cpswap.WithProgramID(program), cpswap.WithLogger(logger))
	quote, err := engine.QuoteSwap(ctx, pool, cfg.AmountIn, direction, cfg.SlippageBps)
	if err != nil {
		return err
	}

	logger.Debug("quote",
		zap.String("pool", address.String()),
		zap.Stringer("direction", direction),
		zap.Uint64("amount_in", cfg.AmountIn),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pool            %s\n", address)
	fmt.Fprintf(out, "direction       %s\n", direction)
	fmt.Fprintf(out, "amount in       %d\n", quote.SourceAmountSwapped)
	fmt.Fprintf(out, "amount out      %d\n", quote.DestinationAmountSwapped)
	fmt.Fprintf(out, "minimum out     %d\n", quote.MinimumAmountOut)
	fmt.Fprintf(out, "trade fee       %d\n", quote.TradeFee)
	fmt.Fprintf(out, "owner fee       %d\n", quote.OwnerFee)
	fmt.Fprintf(out, "spot price      %s\n", quote.SpotPrice)
	fmt.Fprintf(out, "execution price %s\n", quote.ExecutionPrice)
	fmt.Fprintf(out, "price impact    %s%%\n", quote.PriceImpact.StringFixed(4))
	return nil
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	program, err := programID(cfg)
	if err != nil {
		return err
	}
	var mint solana.PublicKey
	if cfg.Mint != "" {
		if mint, err = solana.PublicKeyFromBase58(cfg.Mint); err != nil {
			return errors.Wrap(err, "mint")
		}
	}
	reader, err := newReader(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pools, err := reader.FindPools(ctx, program, mint)
	if err != nil {
		return err
	}
	logger.Info("pools found", zap.Int("count", len(pools)), zap.String("mint", cfg.Mint))

	out := cmd.OutOrStdout()
	for _, p := range pools {
		state := p.State()
		fmt.Fprintf(out, "%s %s A=%s B=%s swaps=%d volume=%s/%s\n",
			p.Address, state.Status, state.TokenAMint, state.TokenBMint, state.Metrics.SwapCount,
			u128.String(state.Metrics.VolumeA), u128.String(state.Metrics.VolumeB))
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
