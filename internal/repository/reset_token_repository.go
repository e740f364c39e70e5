package repository

import (
	"context"
	"database/sql"
	"time"
)

// ResetTokenRepo persists/validates password-reset tokens (single
// 'token_hash' column; only the SHA-256 of the raw token is stored).
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store inserts a reset token hash row with its one-hour expiry. Any
// previous unused tokens for the user are invalidated first so only the
// most recent link works.
func (r *ResetTokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE password_resets SET used_at=NOW() WHERE user_id=? AND used_at IS NULL",
		userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Consume returns the owning userID if an unused, unexpired token with
// the given hash exists, and marks it used in the same step so the token
// is single use. sql.ErrNoRows is returned for unknown, expired or
// already-consumed tokens alike.
func (r *ResetTokenRepo) Consume(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM password_resets WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&id, &userID, &expiresAt, &usedAt)
	if err != nil {
		return 0, err
	}
	if usedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_resets SET used_at=NOW() WHERE id=? AND used_at IS NULL", id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Lost the race against a concurrent consume of the same token.
		return 0, sql.ErrNoRows
	}
	return userID, nil
}
