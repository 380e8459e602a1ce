package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// BlacklistRepo is the revocation ledger: an append-only set of revoked
// refresh tokens keyed by SHA-256 hash. The unique key on token_hash is
// what closes the concurrent-refresh race — two writers inserting the same
// hash cannot both succeed, and the loser sees ErrDuplicateToken.
type BlacklistRepo struct{ DB *sql.DB }

func NewBlacklistRepo(db *sql.DB) *BlacklistRepo { return &BlacklistRepo{DB: db} }

// Revoke inserts a blacklist row for the token hash. Returns
// ErrDuplicateToken when the hash is already present.
func (r *BlacklistRepo) Revoke(ctx context.Context, tokenHash string, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO blacklisted_tokens (token_hash, user_id) VALUES (?,?)",
		tokenHash, userID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrDuplicateToken
	}
	return err
}

// IsRevoked reports whether the token hash is present in the ledger.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM blacklisted_tokens WHERE token_hash=? LIMIT 1", tokenHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PruneOlderThan deletes ledger rows created before the cutoff and returns
// how many were removed. A row older than the refresh-token lifetime guards
// a token that could no longer verify anyway, so dropping it cannot
// revalidate anything.
func (r *BlacklistRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM blacklisted_tokens WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
