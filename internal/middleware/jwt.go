package middleware // middleware provides shared request processing for handlers

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/classroom-auth/internal/model"
    "github.com/iliyamo/classroom-auth/internal/service"
    "github.com/iliyamo/classroom-auth/internal/token"
)

// UserResolver turns a verified token's user id into a user record.
// Implemented by the auth service; kept as an interface so the middleware
// can be exercised in tests without a database.
type UserResolver interface {
    GetUser(ctx context.Context, id uint64) (model.User, error)
}

// BearerToken extracts the raw token from an Authorization header value.
// It fails with service.ErrMalformedHeader when the header is missing,
// does not use the Bearer scheme, or carries no token after the prefix.
func BearerToken(header string) (string, error) {
    if !strings.HasPrefix(header, "Bearer ") {
        return "", service.ErrMalformedHeader
    }
    raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
    if raw == "" {
        return "", service.ErrMalformedHeader
    }
    return raw, nil
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// resolves the user it names and injects the record into the request
// context. Handlers behind it read the user via c.Get("user") and the id
// via c.Get("user_id").
//
// Requests fail with 401 when the header is absent or malformed, when the
// token is expired or structurally invalid, and when the decoded user id no
// longer resolves to a user. The revocation ledger is deliberately not
// consulted here: access tokens self-expire on a seconds scale and are
// never individually revocable; only refresh-token operations check the
// ledger.
func JWTAuth(codec *token.Codec, users UserResolver) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, err := BearerToken(c.Request().Header.Get("Authorization"))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            claims, err := codec.Verify(raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            u, err := users.GetUser(c.Request().Context(), claims.UserID)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
            }

            c.Set("user", u)
            c.Set("user_id", u.ID)
            c.Set("role", u.Role)
            return next(c)
        }
    }
}
