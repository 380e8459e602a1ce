// Package token implements the signed bearer-token codec. A Codec issues
// and verifies HS256 JWTs carrying a user id and time bounds. It knows
// nothing about storage or revocation: whether a structurally valid token
// has been blacklisted is the caller's concern.
package token

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Kind selects which configured lifetime an issued token gets.
type Kind int

const (
    // Access tokens are short-lived (seconds scale) and authorize
    // individual requests. They are never individually revocable.
    Access Kind = iota
    // Refresh tokens are long-lived (days scale), single-use, and are
    // exchanged for a fresh pair; the old one is revoked on use.
    Refresh
)

var (
    // ErrTokenExpired is returned when a token's exp claim is in the past.
    ErrTokenExpired = errors.New("token expired")
    // ErrTokenMalformed is returned for any other decode failure: bad
    // structure, bad signature, or an unexpected signing algorithm.
    ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the payload carried by both token kinds.
type Claims struct {
    UserID uint64 `json:"user_id"`
    jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide secret fixed at
// construction time. It is safe for concurrent use; nothing is mutated
// after NewCodec returns.
type Codec struct {
    secret     []byte
    accessTTL  time.Duration
    refreshTTL time.Duration
}

// NewCodec builds a Codec from the configured signing secret and the two
// token lifetimes. The secret and algorithm are configuration, not hidden
// globals: callers construct exactly one Codec at startup and share it.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
    return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// TTL returns the configured lifetime for a token kind.
func (c *Codec) TTL(kind Kind) time.Duration {
    if kind == Refresh {
        return c.refreshTTL
    }
    return c.accessTTL
}

// Issue builds claims {user_id, iat=now, exp=now+ttl(kind)}, signs them
// with HS256 and returns the encoded string together with its expiry.
func (c *Codec) Issue(userID uint64, kind Kind) (string, time.Time, error) {
    now := time.Now().UTC()
    exp := now.Add(c.TTL(kind))
    claims := Claims{
        UserID: userID,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(c.secret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// Verify decodes a token string and checks signature and expiry. Expired
// tokens fail with ErrTokenExpired regardless of signature validity of the
// rest of the envelope; everything else that fails to parse is
// ErrTokenMalformed. Verify never consults the revocation ledger.
func (c *Codec) Verify(raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC; an attacker must
        // not be able to pick the verification algorithm.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenMalformed
        }
        return c.secret, nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return nil, ErrTokenExpired
        }
        return nil, ErrTokenMalformed
    }
    if !tok.Valid {
        return nil, ErrTokenMalformed
    }
    return claims, nil
}
