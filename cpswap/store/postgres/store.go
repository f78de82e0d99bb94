package postgres

import (
	"context"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
	"github.com/krazyTry/liquidity-pool-go/cpswap/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_address TEXT PRIMARY KEY,
	data         BYTEA NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pool_receipts (
	id                 BIGSERIAL PRIMARY KEY,
	pool_address       TEXT NOT NULL,
	kind               TEXT NOT NULL,
	owner              TEXT NOT NULL,
	token_a_in         NUMERIC NOT NULL,
	token_b_in         NUMERIC NOT NULL,
	token_a_out        NUMERIC NOT NULL,
	token_b_out        NUMERIC NOT NULL,
	pool_tokens_minted NUMERIC NOT NULL,
	pool_tokens_burned NUMERIC NOT NULL,
	withdraw_fee       NUMERIC NOT NULL,
	trade_fee          NUMERIC NOT NULL,
	owner_fee          NUMERIC NOT NULL,
	host_fee           NUMERIC NOT NULL,
	reserve_a          NUMERIC NOT NULL,
	reserve_b          NUMERIC NOT NULL,
	pool_supply        NUMERIC NOT NULL,
	ts                 TIMESTAMPTZ NOT NULL
);`

// Store provides Postgres persistence for pool accounts and receipts.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ store.PoolStore = (*Store)(nil)
	_ store.Journal   = (*Store)(nil)
)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables used by the store.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return errors.Wrap(err, "migrate")
}

func (s *Store) PutPool(ctx context.Context, address string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (pool_address, data, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (pool_address)
		DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()
	`, address, data)
	return errors.Wrapf(err, "upsert pool %s", address)
}

func (s *Store) GetPool(ctx context.Context, address string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM pools WHERE pool_address = $1`, address).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrap(store.ErrNotFound, address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select pool %s", address)
	}
	return data, nil
}

// PutReceipts inserts receipts in one batch.
func (s *Store) PutReceipts(ctx context.Context, receipts []model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range receipts {
		batch.Queue(`
			INSERT INTO pool_receipts (
				pool_address, kind, owner, token_a_in, token_b_in, token_a_out, token_b_out,
				pool_tokens_minted, pool_tokens_burned, withdraw_fee, trade_fee, owner_fee, host_fee,
				reserve_a, reserve_b, pool_supply, ts
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		`,
			r.Pool,
			string(r.Kind),
			r.Owner,
			numeric(r.TokenAIn),
			numeric(r.TokenBIn),
			numeric(r.TokenAOut),
			numeric(r.TokenBOut),
			numeric(r.PoolTokensMinted),
			numeric(r.PoolTokensBurned),
			numeric(r.WithdrawFee),
			numeric(r.TradeFee),
			numeric(r.OwnerFee),
			numeric(r.HostFee),
			numeric(r.ReserveA),
			numeric(r.ReserveB),
			numeric(r.PoolSupply),
			r.Timestamp,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range receipts {
		if _, err := br.Exec(); err != nil {
			return errors.Wrap(err, "insert receipt")
		}
	}
	return nil
}

func numeric(v uint64) pgtype.Numeric {
	return pgtype.Numeric{Int: new(big.Int).SetUint64(v), Valid: true}
}
