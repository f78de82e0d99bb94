package custody

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrOwnerMismatch          = errors.New("owner does not match")
	ErrMintMismatch           = errors.New("mint does not match")
	ErrMissingSignature       = errors.New("missing required signature")
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrZeroAmount             = errors.New("zero amount movement")
	ErrAccountFrozen          = errors.New("account is frozen")
)

// Reader exposes the ledger state the engine prices against.
type Reader interface {
	GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error)
	GetMint(ctx context.Context, address solana.PublicKey) (*Mint, error)
}

// Batch is one atomic set of token movements with the authorities that
// approved them.
type Batch struct {
	Signers      []solana.PublicKey
	Instructions []solana.Instruction
}

func (b *Batch) Add(ixs ...solana.Instruction) {
	b.Instructions = append(b.Instructions, ixs...)
}

func (b *Batch) Sign(signers ...solana.PublicKey) {
	for _, s := range signers {
		if !b.SignedBy(s) {
			b.Signers = append(b.Signers, s)
		}
	}
}

func (b *Batch) SignedBy(key solana.PublicKey) bool {
	for _, s := range b.Signers {
		if s.Equals(key) {
			return true
		}
	}
	return false
}

// Port moves tokens on behalf of pools. Execute applies the whole batch or
// nothing at all.
type Port interface {
	Reader
	Execute(ctx context.Context, batch *Batch) error
}

var ErrReadOnly = errors.New("custody port is read only")

type readOnly struct {
	Reader
}

// ReadOnly turns a Reader into a Port that rejects every batch. It lets the
// engine quote against a live cluster.
func ReadOnly(r Reader) Port {
	return readOnly{r}
}

func (readOnly) Execute(ctx context.Context, batch *Batch) error {
	return ErrReadOnly
}
