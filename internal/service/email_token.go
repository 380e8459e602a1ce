package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/repository"
	"github.com/iliyamo/classroom-auth/internal/token"
	"github.com/iliyamo/classroom-auth/internal/utils"
)

// Email tokens are short-lived one-time codes persisted on the user row.
// The same mechanism serves account activation and password reset; only the
// side effect on successful consumption differs.

type emailTokenPurpose int

const (
	purposeActivation emailTokenPurpose = iota
	purposePasswordReset
)

// emailTokenBytes yields 8 hex characters per token.
const emailTokenBytes = 4

// issueEmailToken generates a fresh one-time token, persists it with its
// expiry window and hands it to the notifier. Notifier failure is logged
// and swallowed: the token is already stored, and failing the enclosing
// operation would leave the user with an account they never learn how to
// activate.
func (s *AuthService) issueEmailToken(ctx context.Context, u model.User, purpose emailTokenPurpose) error {
	tok, err := utils.RandomHex(emailTokenBytes)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.users.SetEmailToken(ctx, u.ID, tok, now, now.Add(s.emailTokenTTL)); err != nil {
		return err
	}

	var notifyErr error
	switch purpose {
	case purposeActivation:
		notifyErr = s.notifier.SendActivation(ctx, u.Email, u.Username, tok)
	case purposePasswordReset:
		notifyErr = s.notifier.SendPasswordReset(ctx, u.Email, u.Username, tok)
	}
	if notifyErr != nil {
		log.Printf("email-token: dispatch failed for user %d: %v", u.ID, notifyErr)
	}
	return nil
}

// consumeEmailToken resolves the user holding the token and checks its
// window. The caller performs its side effect and then clears the token
// columns, making every token single-use.
func (s *AuthService) consumeEmailToken(ctx context.Context, emailToken string) (model.User, error) {
	u, err := s.users.GetByEmailToken(ctx, emailToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrTokenNotFound
		}
		return model.User{}, err
	}
	if !u.EmailTokenValid(emailToken, time.Now().UTC()) {
		return model.User{}, token.ErrTokenExpired
	}
	return u, nil
}

// Activate consumes an activation token and flips the account to active.
func (s *AuthService) Activate(ctx context.Context, emailToken string) error {
	u, err := s.consumeEmailToken(ctx, emailToken)
	if err != nil {
		return err
	}
	if err := s.users.Activate(ctx, u.ID); err != nil {
		return err
	}
	return s.users.ClearEmailToken(ctx, u.ID)
}

// ForgotPassword issues a password-reset token when the email belongs to a
// user. Unknown emails succeed silently so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.issueEmailToken(ctx, u, purposePasswordReset)
}

// ResetPassword consumes a reset token and replaces the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, emailToken, password, confirmPassword string) error {
	if len(password) < 8 {
		return validationErr("password should be at least 8 characters long")
	}
	if password != confirmPassword {
		return validationErr("passwords do not match")
	}
	u, err := s.consumeEmailToken(ctx, emailToken)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.users.ClearEmailToken(ctx, u.ID)
}
