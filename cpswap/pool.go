package cpswap

import (
	"bytes"
	"crypto/sha256"
	"sync"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/fees"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/u128"
)

var poolDiscriminator = discriminator("SwapPair")

func discriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out[:]
}

// PoolState is the persisted pool account.
type PoolState struct {
	Status shared.PoolStatus

	TokenAMint solana.PublicKey
	TokenBMint solana.PublicKey

	// Vaults holding the reserves, owned by the pool authority.
	TokenAAccount solana.PublicKey
	TokenBAccount solana.PublicKey

	PoolMint solana.PublicKey
	// Share account of the fee receiver.
	PoolFeeAccount solana.PublicKey

	Fees    fees.Fees
	Metrics PoolMetrics
}

// PoolMetrics are cumulative counters updated by swaps.
type PoolMetrics struct {
	SwapCount uint64

	VolumeA   binary.Uint128
	VolumeB   binary.Uint128
	TradeFeeA binary.Uint128
	TradeFeeB binary.Uint128
	OwnerFeeA binary.Uint128
	OwnerFeeB binary.Uint128
}

func newPoolMetrics() PoolMetrics {
	return PoolMetrics{
		VolumeA:   u128.FromUint64(0),
		VolumeB:   u128.FromUint64(0),
		TradeFeeA: u128.FromUint64(0),
		TradeFeeB: u128.FromUint64(0),
		OwnerFeeA: u128.FromUint64(0),
		OwnerFeeB: u128.FromUint64(0),
	}
}

func (m *PoolMetrics) recordSwap(direction shared.TradeDirection, amountIn, tradeFee, ownerFee uint64) error {
	volume, trade, owner := &m.VolumeA, &m.TradeFeeA, &m.OwnerFeeA
	if direction == shared.TradeDirectionBtoA {
		volume, trade, owner = &m.VolumeB, &m.TradeFeeB, &m.OwnerFeeB
	}
	prev := *m
	var err error
	if *volume, err = u128.AddUint64(*volume, amountIn); err != nil {
		*m = prev
		return err
	}
	if *trade, err = u128.AddUint64(*trade, tradeFee); err != nil {
		*m = prev
		return err
	}
	if *owner, err = u128.AddUint64(*owner, ownerFee); err != nil {
		*m = prev
		return err
	}
	m.SwapCount++
	return nil
}

// PoolConfig names the accounts a pool is built from.
type PoolConfig struct {
	Address        solana.PublicKey
	TokenAMint     solana.PublicKey
	TokenBMint     solana.PublicKey
	TokenAAccount  solana.PublicKey
	TokenBAccount  solana.PublicKey
	PoolMint       solana.PublicKey
	PoolFeeAccount solana.PublicKey
}

// Pool is one asset pair. Engine operations hold the engine's lock for the
// pool address and then the pool's own lock.
type Pool struct {
	Address solana.PublicKey

	mu    sync.Mutex
	state PoolState
}

// NewPool allocates an uninitialized pool.
func NewPool(cfg PoolConfig) *Pool {
	return &Pool{
		Address: cfg.Address,
		state: PoolState{
			Status:         shared.PoolStatusUninitialized,
			TokenAMint:     cfg.TokenAMint,
			TokenBMint:     cfg.TokenBMint,
			TokenAAccount:  cfg.TokenAAccount,
			TokenBAccount:  cfg.TokenBAccount,
			PoolMint:       cfg.PoolMint,
			PoolFeeAccount: cfg.PoolFeeAccount,
			Metrics:        newPoolMetrics(),
		},
	}
}

// State returns a copy of the pool account.
func (p *Pool) State() PoolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pool) Status() shared.PoolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Status
}

func (p *Pool) Marshal() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return encodePoolState(&p.state)
}

func encodePoolState(state *PoolState) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(poolDiscriminator)
	if err := binary.NewBorshEncoder(buf).Encode(state); err != nil {
		return nil, errors.Wrap(err, "encode pool")
	}
	return buf.Bytes(), nil
}

// DecodePool rebuilds a pool from its account data.
func DecodePool(address solana.PublicKey, data []byte) (*Pool, error) {
	if len(data) < len(poolDiscriminator) || !bytes.Equal(data[:len(poolDiscriminator)], poolDiscriminator) {
		return nil, errors.Wrapf(shared.ErrInvalidAccount, "pool %s: bad discriminator", address)
	}
	state := PoolState{}
	if err := binary.NewBorshDecoder(data[len(poolDiscriminator):]).Decode(&state); err != nil {
		return nil, errors.Wrapf(err, "decode pool %s", address)
	}
	return &Pool{Address: address, state: state}, nil
}
