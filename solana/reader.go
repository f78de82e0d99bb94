package solana

import (
	"context"
	"math/big"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/liquidity-pool-go/cpswap"
	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
)

// Offsets of the mints inside an encoded pool account: discriminator, status.
const (
	poolTokenAMintOffset = 8 + 1
	poolTokenBMintOffset = poolTokenAMintOffset + solana.PublicKeyLength
)

// RPCReader reads token accounts, mints and pools from a cluster.
type RPCReader struct {
	rpcClient  *rpc.Client
	commitment rpc.CommitmentType
}

var _ custody.Reader = (*RPCReader)(nil)

func NewRPCReader(rpcClient *rpc.Client, commitment rpc.CommitmentType) *RPCReader {
	if commitment == "" {
		commitment = rpc.CommitmentFinalized
	}
	return &RPCReader{rpcClient: rpcClient, commitment: commitment}
}

func (r *RPCReader) accountData(ctx context.Context, address solana.PublicKey, owner solana.PublicKey) ([]byte, error) {
	out, err := GetAccountInfo(ctx, r.rpcClient, address, r.commitment)
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, errors.Wrapf(custody.ErrAccountNotFound, "account %s", address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", address)
	}
	if out == nil || out.Value == nil {
		return nil, errors.Wrapf(custody.ErrAccountNotFound, "account %s", address)
	}
	if !out.Value.Owner.Equals(owner) {
		return nil, errors.Errorf("account %s is owned by %s, expected %s", address, out.Value.Owner, owner)
	}
	return out.Value.Data.GetBinary(), nil
}

func (r *RPCReader) GetAccount(ctx context.Context, address solana.PublicKey) (*custody.Account, error) {
	data, err := r.accountData(ctx, address, token.ProgramID)
	if err != nil {
		return nil, err
	}
	return custody.DecodeAccount(address, data)
}

func (r *RPCReader) GetMint(ctx context.Context, address solana.PublicKey) (*custody.Mint, error) {
	data, err := r.accountData(ctx, address, token.ProgramID)
	if err != nil {
		return nil, err
	}
	return custody.DecodeMint(address, data)
}

// GetAccounts reads several token accounts in one request. Missing accounts
// are left nil.
func (r *RPCReader) GetAccounts(ctx context.Context, addresses ...solana.PublicKey) ([]*custody.Account, error) {
	outs, err := GetMultipleAccountInfo(ctx, r.rpcClient, addresses, r.commitment)
	if err != nil {
		return nil, err
	}
	list := make([]*custody.Account, len(addresses))
	for i, out := range outs.Value {
		if out == nil || i >= len(addresses) {
			continue
		}
		if !out.Owner.Equals(token.ProgramID) {
			return nil, errors.Errorf("account %s is owned by %s, expected %s", addresses[i], out.Owner, token.ProgramID)
		}
		account, err := custody.DecodeAccount(addresses[i], out.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrapf(err, "decode account %s", addresses[i])
		}
		list[i] = account
	}
	return list, nil
}

// GetPool reads a pool account written by programID.
func (r *RPCReader) GetPool(ctx context.Context, programID, address solana.PublicKey) (*cpswap.Pool, error) {
	data, err := r.accountData(ctx, address, programID)
	if err != nil {
		return nil, err
	}
	return cpswap.DecodePool(address, data)
}

// FindPools lists the pools of programID that hold mint on either side. A
// zero mint lists every pool.
func (r *RPCReader) FindPools(ctx context.Context, programID, mint solana.PublicKey) ([]*cpswap.Pool, error) {
	if mint.IsZero() {
		return r.findPools(ctx, programID, mint, 0)
	}
	pools, err := r.findPools(ctx, programID, mint, poolTokenAMintOffset)
	if err != nil {
		return nil, err
	}
	more, err := r.findPools(ctx, programID, mint, poolTokenBMintOffset)
	if err != nil {
		return nil, err
	}
	return append(pools, more...), nil
}

func (r *RPCReader) findPools(ctx context.Context, programID, mint solana.PublicKey, offset uint64) ([]*cpswap.Pool, error) {
	outs, err := r.rpcClient.GetProgramAccountsWithOpts(ctx, programID, GenProgramAccountFilter("SwapPair", mint, offset, r.commitment))
	if err != nil {
		return nil, errors.Wrap(err, "get program accounts")
	}
	pools := make([]*cpswap.Pool, 0, len(outs))
	for _, out := range outs {
		if out == nil || out.Account == nil {
			continue
		}
		pool, err := cpswap.DecodePool(out.Pubkey, out.Account.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// TokenAmount is a raw token balance with its mint decimals.
type TokenAmount struct {
	Amount   uint64
	Decimals uint8
}

func (a TokenAmount) UIAmount() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(a.Amount), -int32(a.Decimals))
}

// TokenBalance reads a token account balance from its jsonParsed form.
func (r *RPCReader) TokenBalance(ctx context.Context, address solana.PublicKey) (*TokenAmount, error) {
	out, err := r.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: r.commitment,
		Encoding:   solana.EncodingJSONParsed,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, errors.Wrapf(custody.ErrAccountNotFound, "account %s", address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", address)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, errors.Wrapf(custody.ErrAccountNotFound, "account %s", address)
	}
	return ParseTokenAmount(out.Value.Data.GetRawJSON())
}

// ParseTokenAmount extracts parsed.info.tokenAmount from a jsonParsed token
// account.
func ParseTokenAmount(raw []byte) (*TokenAmount, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("invalid token account json")
	}
	results := gjson.GetManyBytes(raw, "parsed.info.tokenAmount.amount", "parsed.info.tokenAmount.decimals")
	if !results[0].Exists() || !results[1].Exists() {
		return nil, errors.New("token amount missing from parsed account")
	}
	amount, err := strconv.ParseUint(results[0].String(), 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "token amount")
	}
	decimals, err := strconv.ParseUint(results[1].String(), 10, 8)
	if err != nil {
		return nil, errors.Wrap(err, "token decimals")
	}
	return &TokenAmount{Amount: amount, Decimals: uint8(decimals)}, nil
}
