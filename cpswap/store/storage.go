package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
)

var ErrNotFound = errors.New("pool not found")

// PoolStore persists encoded pool accounts keyed by pool address.
type PoolStore interface {
	PutPool(ctx context.Context, address string, data []byte) error
	GetPool(ctx context.Context, address string) ([]byte, error)
}

// Journal is a sink for operation receipts.
type Journal interface {
	PutReceipts(ctx context.Context, receipts []model.Receipt) error
}

// MemoryStore keeps pool accounts in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	pools map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pools: make(map[string][]byte)}
}

func (s *MemoryStore) PutPool(ctx context.Context, address string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[address] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) GetPool(ctx context.Context, address string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.pools[address]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, address)
	}
	return append([]byte(nil), data...), nil
}
