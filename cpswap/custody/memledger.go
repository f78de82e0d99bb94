package custody

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// MemoryLedger is an in-process token ledger implementing Port.
type MemoryLedger struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey]*Account
	mints    map[solana.PublicKey]*Mint
}

var _ Port = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[solana.PublicKey]*Account),
		mints:    make(map[solana.PublicKey]*Mint),
	}
}

func (l *MemoryLedger) CreateMint(address solana.PublicKey, decimals uint8, mintAuthority, freezeAuthority *solana.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.mints[address]; ok {
		return errors.Errorf("mint %s already exists", address)
	}
	l.mints[address] = &Mint{
		Address:         address,
		Decimals:        decimals,
		MintAuthority:   mintAuthority,
		FreezeAuthority: freezeAuthority,
	}
	return nil
}

func (l *MemoryLedger) CreateAccount(address, mint, owner solana.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[address]; ok {
		return errors.Errorf("account %s already exists", address)
	}
	if _, ok := l.mints[mint]; !ok {
		return errors.Wrapf(ErrAccountNotFound, "mint %s", mint)
	}
	l.accounts[address] = &Account{Address: address, Mint: mint, Owner: owner}
	return nil
}

// Airdrop credits amount to an account and grows its mint supply without
// any authority check.
func (l *MemoryLedger) Airdrop(address solana.PublicKey, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[address]
	if !ok {
		return errors.Wrapf(ErrAccountNotFound, "account %s", address)
	}
	mint := l.mints[acc.Mint]
	if acc.Amount+amount < acc.Amount || mint.Supply+amount < mint.Supply {
		return errors.New("airdrop overflows")
	}
	acc.Amount += amount
	mint.Supply += amount
	return nil
}

// SetDelegate and SetCloseAuthority mutate account authorities directly.
func (l *MemoryLedger) SetDelegate(address solana.PublicKey, delegate *solana.PublicKey) error {
	return l.updateAccount(address, func(a *Account) { a.Delegate = delegate })
}

func (l *MemoryLedger) SetCloseAuthority(address solana.PublicKey, closeAuthority *solana.PublicKey) error {
	return l.updateAccount(address, func(a *Account) { a.CloseAuthority = closeAuthority })
}

func (l *MemoryLedger) SetFrozen(address solana.PublicKey, frozen bool) error {
	return l.updateAccount(address, func(a *Account) { a.IsFrozen = frozen })
}

func (l *MemoryLedger) updateAccount(address solana.PublicKey, fn func(*Account)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[address]
	if !ok {
		return errors.Wrapf(ErrAccountNotFound, "account %s", address)
	}
	fn(acc)
	return nil
}

func (l *MemoryLedger) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[address]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", address)
	}
	return acc.clone(), nil
}

func (l *MemoryLedger) GetMint(ctx context.Context, address solana.PublicKey) (*Mint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	mint, ok := l.mints[address]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "mint %s", address)
	}
	return mint.clone(), nil
}

// Execute stages every movement on copies and commits only when the whole
// batch applies cleanly.
func (l *MemoryLedger) Execute(ctx context.Context, batch *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ops, err := Validate(batch.Instructions)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	st := &stage{
		ledger:   l,
		accounts: make(map[solana.PublicKey]*Account),
		mints:    make(map[solana.PublicKey]*Mint),
	}
	for i, op := range ops {
		if !batch.SignedBy(op.Authority) {
			return errors.Wrapf(ErrMissingSignature, "instruction %d %s by %s", i, op.Kind, op.Authority)
		}
		if err := st.apply(op); err != nil {
			return errors.Wrapf(err, "instruction %d %s", i, op.Kind)
		}
	}

	for k, v := range st.accounts {
		l.accounts[k] = v
	}
	for k, v := range st.mints {
		l.mints[k] = v
	}
	return nil
}

type stage struct {
	ledger   *MemoryLedger
	accounts map[solana.PublicKey]*Account
	mints    map[solana.PublicKey]*Mint
}

func (s *stage) account(address solana.PublicKey) (*Account, error) {
	if acc, ok := s.accounts[address]; ok {
		return acc, nil
	}
	acc, ok := s.ledger.accounts[address]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", address)
	}
	if acc.IsFrozen {
		return nil, errors.Wrapf(ErrAccountFrozen, "account %s", address)
	}
	acc = acc.clone()
	s.accounts[address] = acc
	return acc, nil
}

func (s *stage) mint(address solana.PublicKey) (*Mint, error) {
	if mint, ok := s.mints[address]; ok {
		return mint, nil
	}
	mint, ok := s.ledger.mints[address]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "mint %s", address)
	}
	mint = mint.clone()
	s.mints[address] = mint
	return mint, nil
}

func (s *stage) apply(op *Op) error {
	switch op.Kind {
	case OpTransfer:
		src, err := s.account(op.Source)
		if err != nil {
			return err
		}
		dst, err := s.account(op.Destination)
		if err != nil {
			return err
		}
		if !src.Mint.Equals(dst.Mint) {
			return errors.Wrapf(ErrMintMismatch, "%s -> %s", src.Mint, dst.Mint)
		}
		if !src.Owner.Equals(op.Authority) {
			return errors.Wrapf(ErrOwnerMismatch, "account %s owned by %s", src.Address, src.Owner)
		}
		if src.Amount < op.Amount {
			return errors.Wrapf(ErrInsufficientFunds, "account %s holds %d, needs %d", src.Address, src.Amount, op.Amount)
		}
		if dst.Amount+op.Amount < dst.Amount {
			return errors.Errorf("account %s balance overflows", dst.Address)
		}
		// same account transfers are a no-op
		src.Amount -= op.Amount
		dst.Amount += op.Amount
	case OpMintTo:
		mint, err := s.mint(op.Mint)
		if err != nil {
			return err
		}
		dst, err := s.account(op.Destination)
		if err != nil {
			return err
		}
		if !dst.Mint.Equals(mint.Address) {
			return errors.Wrapf(ErrMintMismatch, "account %s holds %s", dst.Address, dst.Mint)
		}
		if mint.MintAuthority == nil || !mint.MintAuthority.Equals(op.Authority) {
			return errors.Wrapf(ErrOwnerMismatch, "mint authority of %s", mint.Address)
		}
		if mint.Supply+op.Amount < mint.Supply || dst.Amount+op.Amount < dst.Amount {
			return errors.Errorf("mint %s supply overflows", mint.Address)
		}
		mint.Supply += op.Amount
		dst.Amount += op.Amount
	case OpBurn:
		mint, err := s.mint(op.Mint)
		if err != nil {
			return err
		}
		src, err := s.account(op.Source)
		if err != nil {
			return err
		}
		if !src.Mint.Equals(mint.Address) {
			return errors.Wrapf(ErrMintMismatch, "account %s holds %s", src.Address, src.Mint)
		}
		if !src.Owner.Equals(op.Authority) {
			return errors.Wrapf(ErrOwnerMismatch, "account %s owned by %s", src.Address, src.Owner)
		}
		if src.Amount < op.Amount {
			return errors.Wrapf(ErrInsufficientFunds, "account %s holds %d, burns %d", src.Address, src.Amount, op.Amount)
		}
		src.Amount -= op.Amount
		mint.Supply -= op.Amount
	default:
		return errors.Wrapf(ErrUnsupportedInstruction, "%s", op.Kind)
	}
	return nil
}
