package utils

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for revoked token storage
    "encoding/hex"  // hex encoding of random bytes and digests
)

// RandomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data. Email tokens use n=4, producing the
// 8‑character codes sent to users; n bytes always yield 2n hex characters.
func RandomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA‑256 hash of a token string as a hex string.
// The revocation ledger stores only this digest: membership checks stay
// exact‑string while the unique key in the database keeps a fixed width
// regardless of how long the encoded token grows.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
