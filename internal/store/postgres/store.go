package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tickIndex/internal/model"
	"tickIndex/internal/store"
	"tickIndex/internal/tickbitmap"
)

// Store provides Postgres persistence for tick bitmap records. The two
// 128-bit bitmap halves are stored as 16-byte BYTEA columns, byte for byte.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
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

// EnsureSchema creates the tick_bitmaps table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tick_bitmaps (
			token0 BYTEA NOT NULL,
			token1 BYTEA NOT NULL,
			fee BIGINT NOT NULL,
			word_key SMALLINT NOT NULL,
			bitmap_lo BYTEA NOT NULL,
			bitmap_hi BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (token0, token1, fee, word_key)
		)
	`)
	return err
}

// Get returns the stored record, or the all-zero record when no row exists.
func (s *Store) Get(ctx context.Context, key store.RecordKey) (tickbitmap.Record, error) {
	rec := tickbitmap.NewRecord(key.Pool, key.Word)

	var lo, hi []byte
	row := s.pool.QueryRow(ctx, `
		SELECT bitmap_lo, bitmap_hi FROM tick_bitmaps
		WHERE token0=$1 AND token1=$2 AND fee=$3 AND word_key=$4
	`, key.Pool.Token0.Bytes(), key.Pool.Token1.Bytes(), int64(key.Pool.Fee), int16(key.Word))
	if err := row.Scan(&lo, &hi); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, nil
		}
		return tickbitmap.Record{}, err
	}

	if err := rec.Bitmap.SetHalfBytes(lo, hi); err != nil {
		return tickbitmap.Record{}, err
	}
	return rec, nil
}

// Put upserts the record, deleting the row when its bitmap is zero.
func (s *Store) Put(ctx context.Context, rec tickbitmap.Record) error {
	if rec.Bitmap.IsZero() {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM tick_bitmaps
			WHERE token0=$1 AND token1=$2 AND fee=$3 AND word_key=$4
		`, rec.Pool.Token0.Bytes(), rec.Pool.Token1.Bytes(), int64(rec.Pool.Fee), int16(rec.Word))
		return err
	}

	lo, hi := rec.Bitmap.HalfBytes()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tick_bitmaps (
			token0, token1, fee, word_key, bitmap_lo, bitmap_hi, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (token0, token1, fee, word_key)
		DO UPDATE SET
			bitmap_lo = EXCLUDED.bitmap_lo,
			bitmap_hi = EXCLUDED.bitmap_hi,
			updated_at = now()
	`, rec.Pool.Token0.Bytes(), rec.Pool.Token1.Bytes(), int64(rec.Pool.Fee), int16(rec.Word), lo[:], hi[:])
	return err
}

// List returns the pool's populated records ordered by word key.
func (s *Store) List(ctx context.Context, pool model.PoolKey) ([]tickbitmap.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT word_key, bitmap_lo, bitmap_hi FROM tick_bitmaps
		WHERE token0=$1 AND token1=$2 AND fee=$3
		ORDER BY word_key
	`, pool.Token0.Bytes(), pool.Token1.Bytes(), int64(pool.Fee))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tickbitmap.Record
	for rows.Next() {
		var wordKey int16
		var lo, hi []byte
		if err := rows.Scan(&wordKey, &lo, &hi); err != nil {
			return nil, err
		}
		rec := tickbitmap.NewRecord(pool, tickbitmap.WordKey(wordKey))
		if err := rec.Bitmap.SetHalfBytes(lo, hi); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
