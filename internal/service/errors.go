package service

import "errors"

// Sentinel errors surfaced by the session manager. Token structure errors
// (expired, malformed) come from the token package and pass through
// unchanged; the errors below cover everything the codec cannot know.
var (
    // ErrInvalidCredentials covers both unknown email and wrong password.
    // The two cases are deliberately indistinguishable to the caller.
    ErrInvalidCredentials = errors.New("invalid credentials")

    // ErrInactiveAccount is returned when credentials check out but the
    // account has not completed email activation.
    ErrInactiveAccount = errors.New("account is not active")

    // ErrTokenRevoked is returned when a refresh token is present in the
    // revocation ledger, including the losing side of a rotation race.
    ErrTokenRevoked = errors.New("token revoked")

    // ErrTokenNotFound is returned when no user holds the presented email
    // token.
    ErrTokenNotFound = errors.New("token not found")

    // ErrUserNotFound is returned when a verified token's user id no longer
    // resolves to a user record.
    ErrUserNotFound = errors.New("user not found")

    // ErrMalformedHeader is returned when an Authorization header is
    // missing, lacks the Bearer scheme, or carries no token.
    ErrMalformedHeader = errors.New("malformed authorization header")
)

// ValidationError reports malformed or policy-violating input with a
// message safe to show to the client.
type ValidationError struct {
    Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(msg string) error { return &ValidationError{Message: msg} }
