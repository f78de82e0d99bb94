package custody

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

type OpKind uint8

const (
	OpTransfer OpKind = iota
	OpMintTo
	OpBurn
)

func (k OpKind) String() string {
	switch k {
	case OpTransfer:
		return "transfer"
	case OpMintTo:
		return "mint_to"
	case OpBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// Op is a decoded token movement.
type Op struct {
	Kind   OpKind
	Amount uint64
	// Source token account for transfers and burns.
	Source solana.PublicKey
	// Destination token account for transfers and mints.
	Destination solana.PublicKey
	// Mint for mints and burns.
	Mint solana.PublicKey
	// Authority that must sign the movement.
	Authority solana.PublicKey
}

func TransferInstruction(amount uint64, source, destination, owner solana.PublicKey) solana.Instruction {
	return token.NewTransferInstruction(
		amount,
		source,
		destination,
		owner,
		[]solana.PublicKey{},
	).Build()
}

func MintToInstruction(amount uint64, mint, destination, authority solana.PublicKey) solana.Instruction {
	return token.NewMintToInstruction(
		amount,
		mint,
		destination,
		authority,
		[]solana.PublicKey{},
	).Build()
}

func BurnInstruction(amount uint64, account, mint, owner solana.PublicKey) solana.Instruction {
	return token.NewBurnInstruction(
		amount,
		account,
		mint,
		owner,
		[]solana.PublicKey{},
	).Build()
}

// DecodeOp turns an SPL token instruction into an Op. Only transfer, mint_to
// and burn are accepted.
func DecodeOp(ix solana.Instruction) (*Op, error) {
	if !ix.ProgramID().Equals(token.ProgramID) {
		return nil, errors.Wrapf(ErrUnsupportedInstruction, "program %s", ix.ProgramID())
	}

	inst, ok := ix.(*token.Instruction)
	if !ok {
		data, err := ix.Data()
		if err != nil {
			return nil, err
		}
		if inst, err = token.DecodeInstruction(ix.Accounts(), data); err != nil {
			return nil, errors.Wrap(ErrUnsupportedInstruction, err.Error())
		}
	}

	switch impl := inst.Impl.(type) {
	case token.Transfer:
		return &Op{
			Kind:        OpTransfer,
			Amount:      amountOf(impl.Amount),
			Source:      impl.GetSourceAccount().PublicKey,
			Destination: impl.GetDestinationAccount().PublicKey,
			Authority:   impl.GetOwnerAccount().PublicKey,
		}, nil
	case token.MintTo:
		return &Op{
			Kind:        OpMintTo,
			Amount:      amountOf(impl.Amount),
			Mint:        impl.GetMintAccount().PublicKey,
			Destination: impl.GetDestinationAccount().PublicKey,
			Authority:   impl.GetAuthorityAccount().PublicKey,
		}, nil
	case token.Burn:
		return &Op{
			Kind:      OpBurn,
			Amount:    amountOf(impl.Amount),
			Source:    impl.GetSourceAccount().PublicKey,
			Mint:      impl.GetMintAccount().PublicKey,
			Authority: impl.GetOwnerAccount().PublicKey,
		}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedInstruction, "%T", inst.Impl)
	}
}

// Validate checks every instruction decodes and moves a nonzero amount.
func Validate(ixs []solana.Instruction) ([]*Op, error) {
	ops := make([]*Op, 0, len(ixs))
	for i, ix := range ixs {
		op, err := DecodeOp(ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		if op.Amount == 0 {
			return nil, errors.Wrapf(ErrZeroAmount, "instruction %d %s", i, op.Kind)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func amountOf(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}
