package custody

import (
	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

type Account struct {
	Address solana.PublicKey
	// Mint associated with the account
	Mint solana.PublicKey

	// Owner of the account
	Owner solana.PublicKey

	// Number of tokens the account holds
	Amount uint64

	// Authority that can transfer tokens from the account
	Delegate *solana.PublicKey

	// Optional authority to close the account
	CloseAuthority *solana.PublicKey

	IsFrozen bool
}

type Mint struct {
	Address solana.PublicKey

	Supply   uint64
	Decimals uint8

	MintAuthority   *solana.PublicKey
	FreezeAuthority *solana.PublicKey
}

// DecodeAccount decodes an SPL token account.
func DecodeAccount(address solana.PublicKey, data []byte) (*Account, error) {
	raw := new(token.Account)
	if err := raw.UnmarshalWithDecoder(binary.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return &Account{
		Address:        address,
		Mint:           raw.Mint,
		Owner:          raw.Owner,
		Amount:         raw.Amount,
		Delegate:       raw.Delegate,
		CloseAuthority: raw.CloseAuthority,
		IsFrozen:       raw.State == token.Frozen,
	}, nil
}

// DecodeMint decodes an SPL token mint.
func DecodeMint(address solana.PublicKey, data []byte) (*Mint, error) {
	raw := new(token.Mint)
	if err := raw.UnmarshalWithDecoder(binary.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return &Mint{
		Address:         address,
		Supply:          raw.Supply,
		Decimals:        raw.Decimals,
		MintAuthority:   raw.MintAuthority,
		FreezeAuthority: raw.FreezeAuthority,
	}, nil
}

func (a *Account) clone() *Account {
	out := *a
	return &out
}

func (m *Mint) clone() *Mint {
	out := *m
	return &out
}
