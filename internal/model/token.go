package model

import "time"

// BlacklistedToken models a row in the `blacklisted_tokens` table. A row is
// written when a refresh token is revoked, either by logout or by rotation
// during refresh. The plain token is not stored; only its SHA‑256 hash,
// which carries a unique key so the same token can be revoked at most once.
// Rows reference their owning user with ON DELETE CASCADE.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the revoked token.
//  TokenHash – SHA‑256 hex digest of the revoked refresh token.
//  CreatedAt – when the token was revoked.
type BlacklistedToken struct {
    ID        uint64    // blacklisted_tokens.id
    UserID    uint64    // blacklisted_tokens.user_id
    TokenHash string    // blacklisted_tokens.token_hash
    CreatedAt time.Time // blacklisted_tokens.created_at
}
