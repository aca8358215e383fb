package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projector-backend/internal/model"
)

// TokenRepository persists refresh token records. Rows are only ever inserted
// or deleted, never updated; rotation relies on DeleteByID reporting whether
// this caller was the one that removed the row.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Insert(ctx context.Context, tokenHash string, tokenID string, workerID int64, expiresAt time.Time) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO refresh_tokens (token_hash, jti, worker_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		tokenHash, tokenID, workerID, expiresAt, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert refresh token: %w", err)
	}
	return id, nil
}

func (r *TokenRepository) FindByTokenID(ctx context.Context, tokenID string) (model.RefreshTokenRecord, error) {
	var rec model.RefreshTokenRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, token_hash, jti, worker_id, expires_at, created_at
		 FROM refresh_tokens WHERE jti = $1`, tokenID).
		Scan(&rec.ID, &rec.TokenHash, &rec.TokenID, &rec.WorkerID, &rec.ExpiresAt, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshTokenRecord{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshTokenRecord{}, fmt.Errorf("find refresh token: %w", err)
	}
	return rec, nil
}

// DeleteByID removes one record and reports whether a row was actually
// deleted. Two concurrent rotations of the same token both reach this call;
// Postgres guarantees only one sees a row, so the other learns it lost.
func (r *TokenRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAllByTokenID is idempotent; deleting an unknown jti is a no-op.
func (r *TokenRepository) DeleteAllByTokenID(ctx context.Context, tokenID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE jti = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens by jti: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteAllForWorker(ctx context.Context, workerID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE worker_id = $1`, workerID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens for worker: %w", err)
	}
	return nil
}

func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
