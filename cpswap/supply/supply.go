package supply

import (
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/math"
	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

// Manager tracks the pending share supply of a pool while an operation is
// being planned. The supply read from custody is the starting point; Mint
// and Burn stage changes that Verify checks after the custody batch lands.
type Manager struct {
	initial uint64
	total   uint64
	minted  uint64
	burned  uint64
}

func NewManager(current uint64) *Manager {
	return &Manager{initial: current, total: current}
}

func (m *Manager) Total() uint64 {
	return m.total
}

func (m *Manager) Initial() uint64 {
	return m.initial
}

func (m *Manager) IsEmpty() bool {
	return m.total == 0
}

func (m *Manager) Mint(amount uint64) error {
	if amount == 0 {
		return errors.Wrap(shared.ErrInvalidAmount, "mint zero shares")
	}
	total, err := math.CheckedAdd(m.total, amount)
	if err != nil {
		return err
	}
	minted, err := math.CheckedAdd(m.minted, amount)
	if err != nil {
		return err
	}
	m.total, m.minted = total, minted
	return nil
}

func (m *Manager) Burn(amount uint64) error {
	if amount == 0 {
		return errors.Wrap(shared.ErrInvalidAmount, "burn zero shares")
	}
	total, err := math.CheckedSub(m.total, amount)
	if err != nil {
		return errors.Wrapf(err, "burn %d of supply %d", amount, m.total)
	}
	burned, err := math.CheckedAdd(m.burned, amount)
	if err != nil {
		return err
	}
	m.total, m.burned = total, burned
	return nil
}

// Minted and Burned report the staged totals.
func (m *Manager) Minted() uint64 { return m.minted }
func (m *Manager) Burned() uint64 { return m.burned }

// Verify compares the expected supply with the supply observed on the ledger.
func (m *Manager) Verify(observed uint64) error {
	if observed != m.total {
		return errors.Wrapf(shared.ErrSupplyMismatch, "expected %d, ledger reports %d", m.total, observed)
	}
	return nil
}
