package repository

import (
    "context"
    "log"
    "time"

    "github.com/redis/go-redis/v9"
)

// CachedLedger layers a Redis read cache over the database-backed
// revocation ledger. Refresh and logout hit the ledger on every request;
// caching recently revoked hashes keeps those checks off the database.
//
// The database stays authoritative: Revoke writes MySQL first and only then
// populates the cache, and a cache miss always falls through to the
// database. Entries carry a TTL equal to the refresh-token lifetime, after
// which the underlying token could not verify anyway. When the Redis client
// is nil (connection failed at startup) every call is a passthrough.
type CachedLedger struct {
    db  *BlacklistRepo
    rdb *redis.Client
    ttl time.Duration
}

// NewCachedLedger wraps a BlacklistRepo. rdb may be nil, in which case the
// cache is disabled and the repo serves every lookup.
func NewCachedLedger(db *BlacklistRepo, rdb *redis.Client, refreshTTL time.Duration) *CachedLedger {
    return &CachedLedger{db: db, rdb: rdb, ttl: refreshTTL}
}

func cacheKey(tokenHash string) string { return "revoked:" + tokenHash }

// Revoke writes the ledger row, then marks the hash in Redis. Cache errors
// are logged and swallowed: a failed cache write only costs a future
// database lookup.
func (l *CachedLedger) Revoke(ctx context.Context, tokenHash string, userID uint64) error {
    if err := l.db.Revoke(ctx, tokenHash, userID); err != nil {
        return err
    }
    if l.rdb != nil {
        if err := l.rdb.Set(ctx, cacheKey(tokenHash), "1", l.ttl).Err(); err != nil {
            log.Printf("ledger-cache: set failed: %v", err)
        }
    }
    return nil
}

// IsRevoked consults Redis first and falls back to the database on a miss
// or on any cache error.
func (l *CachedLedger) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
    if l.rdb != nil {
        n, err := l.rdb.Exists(ctx, cacheKey(tokenHash)).Result()
        if err == nil && n > 0 {
            return true, nil
        }
        if err != nil {
            log.Printf("ledger-cache: exists failed: %v", err)
        }
    }
    return l.db.IsRevoked(ctx, tokenHash)
}

// PruneOlderThan delegates to the database ledger. Cached entries expire on
// their own TTL and need no explicit sweep.
func (l *CachedLedger) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
    return l.db.PruneOlderThan(ctx, cutoff)
}
