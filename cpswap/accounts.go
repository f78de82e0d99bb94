package cpswap

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/liquidity-pool-go/cpswap/custody"
	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
	"github.com/krazyTry/liquidity-pool-go/cpswap/supply"
)

type poolAccounts struct {
	authority solana.PublicKey
	vaultA    *custody.Account
	vaultB    *custody.Account
	mint      *custody.Mint
}

func (a *poolAccounts) vault(direction shared.TradeDirection) *custody.Account {
	if direction == shared.TradeDirectionBtoA {
		return a.vaultB
	}
	return a.vaultA
}

// checkUser rejects the pool authority acting as a user and any user account
// that is one of the pool vaults.
func (a *poolAccounts) checkUser(owner solana.PublicKey, addresses ...solana.PublicKey) error {
	if owner.Equals(a.authority) {
		return errors.Wrapf(shared.ErrInvalidOwner, "owner %s is the pool authority", owner)
	}
	for _, address := range addresses {
		if address.Equals(a.vaultA.Address) || address.Equals(a.vaultB.Address) {
			return errors.Wrapf(shared.ErrInvalidAccount, "account %s is a pool vault", address)
		}
	}
	return nil
}

func (e *Engine) readActivePool(ctx context.Context, p *Pool) (*poolAccounts, error) {
	if p.state.Status != shared.PoolStatusActive {
		return nil, errors.Wrapf(shared.ErrPoolNotInitialized, "pool %s", p.Address)
	}
	accounts, err := e.readPoolAccounts(ctx, &p.state)
	if err != nil {
		return nil, err
	}
	if accounts.mint.Supply == 0 || accounts.vaultA.Amount == 0 || accounts.vaultB.Amount == 0 {
		return nil, errors.Wrapf(shared.ErrEmptySupply, "pool %s is drained", p.Address)
	}
	return accounts, nil
}

// readPoolAccounts loads the vaults and share mint and checks they are
// controlled by the pool authority alone.
func (e *Engine) readPoolAccounts(ctx context.Context, state *PoolState) (*poolAccounts, error) {
	authority, _, err := DerivePoolAuthority(state.TokenAMint, state.TokenBMint, e.programID)
	if err != nil {
		return nil, errors.Wrap(shared.ErrInvalidAuthority, err.Error())
	}

	vaultA, err := e.readVault(ctx, state.TokenAAccount, state.TokenAMint, state.PoolMint, authority)
	if err != nil {
		return nil, err
	}
	vaultB, err := e.readVault(ctx, state.TokenBAccount, state.TokenBMint, state.PoolMint, authority)
	if err != nil {
		return nil, err
	}
	if vaultA.Address.Equals(vaultB.Address) || vaultA.Mint.Equals(vaultB.Mint) {
		return nil, errors.Wrap(shared.ErrIncorrectSwapAccount, "vaults must hold different assets")
	}

	mint, err := e.port.GetMint(ctx, state.PoolMint)
	if err != nil {
		return nil, err
	}
	if mint.MintAuthority == nil || !mint.MintAuthority.Equals(authority) {
		return nil, errors.Wrapf(shared.ErrInvalidAuthority, "share mint %s", mint.Address)
	}
	if mint.FreezeAuthority != nil {
		return nil, errors.Wrapf(shared.ErrInvalidAccount, "share mint %s has a freeze authority", mint.Address)
	}

	return &poolAccounts{authority: authority, vaultA: vaultA, vaultB: vaultB, mint: mint}, nil
}

func (e *Engine) readVault(ctx context.Context, address, mint, poolMint, authority solana.PublicKey) (*custody.Account, error) {
	vault, err := e.port.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !vault.Owner.Equals(authority) {
		return nil, errors.Wrapf(shared.ErrInvalidOwner, "vault %s owner %s", address, vault.Owner)
	}
	if vault.Delegate != nil || vault.CloseAuthority != nil {
		return nil, errors.Wrapf(shared.ErrInvalidAccount, "vault %s has a delegate or close authority", address)
	}
	if vault.Mint.Equals(poolMint) || !vault.Mint.Equals(mint) {
		return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "vault %s mint %s", address, vault.Mint)
	}
	return vault, nil
}

// tradingAccount loads a user token account of one of the pool assets. A
// zero mint skips the mint check.
func (e *Engine) tradingAccount(ctx context.Context, address, owner, mint solana.PublicKey) (*custody.Account, error) {
	account, err := e.port.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !account.Owner.Equals(owner) {
		return nil, errors.Wrapf(shared.ErrInvalidOwner, "account %s owner %s", address, account.Owner)
	}
	if account.Delegate != nil || account.CloseAuthority != nil {
		return nil, errors.Wrapf(shared.ErrInvalidAccount, "account %s has a delegate or close authority", address)
	}
	if !mint.IsZero() && !account.Mint.Equals(mint) {
		return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "account %s mint %s", address, account.Mint)
	}
	return account, nil
}

func (e *Engine) shareAccount(ctx context.Context, address, owner, poolMint solana.PublicKey) (*custody.Account, error) {
	account, err := e.port.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !account.Owner.Equals(owner) {
		return nil, errors.Wrapf(shared.ErrInvalidOwner, "share account %s owner %s", address, account.Owner)
	}
	if !account.Mint.Equals(poolMint) {
		return nil, errors.Wrapf(shared.ErrIncorrectSwapAccount, "share account %s mint %s", address, account.Mint)
	}
	return account, nil
}

// ownerFeeAccount checks the account receiving the owner trade fee belongs to
// the fee receiver and holds the input asset.
func (e *Engine) ownerFeeAccount(ctx context.Context, state *PoolState, address *solana.PublicKey, inputMint solana.PublicKey) error {
	if address == nil {
		return errors.Wrap(shared.ErrInvalidAccount, "owner fee account required")
	}
	feeAccount, err := e.port.GetAccount(ctx, state.PoolFeeAccount)
	if err != nil {
		return err
	}
	account, err := e.port.GetAccount(ctx, *address)
	if err != nil {
		return err
	}
	if !account.Owner.Equals(feeAccount.Owner) {
		return errors.Wrapf(shared.ErrInvalidOwner, "owner fee account %s owner %s", account.Address, account.Owner)
	}
	if !account.Mint.Equals(inputMint) {
		return errors.Wrapf(shared.ErrIncorrectSwapAccount, "owner fee account %s mint %s", account.Address, account.Mint)
	}
	return nil
}

func directionOf(state *PoolState, mint solana.PublicKey) (shared.TradeDirection, error) {
	switch {
	case mint.Equals(state.TokenAMint):
		return shared.TradeDirectionAtoB, nil
	case mint.Equals(state.TokenBMint):
		return shared.TradeDirectionBtoA, nil
	default:
		return 0, errors.Wrapf(shared.ErrIncorrectSwapAccount, "mint %s is not in the pool", mint)
	}
}

// withdrawFee is the share amount taken on withdrawal. The fee account itself
// withdraws for free.
func (e *Engine) withdrawFee(state *PoolState, source solana.PublicKey, poolTokens uint64) (uint64, error) {
	if source.Equals(state.PoolFeeAccount) {
		return 0, nil
	}
	return state.Fees.OwnerWithdrawFee(poolTokens)
}

// execute commits the batch through the port and checks the ledger supply
// matches what the operation expected.
func (e *Engine) execute(ctx context.Context, p *Pool, batch *custody.Batch, sm *supply.Manager) error {
	if err := e.port.Execute(ctx, batch); err != nil {
		return errors.Wrapf(err, "pool %s", p.Address)
	}
	mint, err := e.port.GetMint(ctx, p.state.PoolMint)
	if err != nil {
		e.logger.Error("read share mint after commit", zap.String("pool", p.Address.String()), zap.Error(err))
		return nil
	}
	if err = sm.Verify(mint.Supply); err != nil {
		e.logger.Error("share supply drift", zap.String("pool", p.Address.String()), zap.Error(err))
	}
	return nil
}

func (e *Engine) receipt(p *Pool, kind model.OperationKind, owner solana.PublicKey) *model.Receipt {
	return &model.Receipt{
		Kind:      kind,
		Pool:      p.Address.String(),
		Owner:     owner.String(),
		Timestamp: e.now().UTC(),
	}
}

// finish persists the pool and journals the receipt. The custody batch is
// already committed, so failures here are logged and not returned.
func (e *Engine) finish(ctx context.Context, p *Pool, receipt *model.Receipt) {
	if e.store != nil {
		data, err := encodePoolState(&p.state)
		if err == nil {
			err = e.store.PutPool(ctx, p.Address.String(), data)
		}
		if err != nil {
			e.logger.Error("persist pool", zap.String("pool", p.Address.String()), zap.Error(err))
		}
	}
	if e.journal != nil {
		if err := e.journal.PutReceipts(ctx, []model.Receipt{*receipt}); err != nil {
			e.logger.Error("journal receipt", zap.String("pool", p.Address.String()), zap.Error(err))
		}
	}
}
