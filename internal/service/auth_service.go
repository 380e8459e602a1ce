// Package service implements the session manager: the state machine tying
// the token codec, the revocation ledger and the user store together for
// login, refresh, logout, registration and the email-token flows.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/repository"
	"github.com/iliyamo/classroom-auth/internal/token"
	"github.com/iliyamo/classroom-auth/internal/utils"
)

// UserStore is the persistence surface the session manager needs. It is
// implemented by repository.UserRepo; tests supply in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, email, username, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmailToken(ctx context.Context, token string) (model.User, error)
	SetEmailToken(ctx context.Context, userID uint64, token string, createdAt, expiresAt time.Time) error
	ClearEmailToken(ctx context.Context, userID uint64) error
	Activate(ctx context.Context, userID uint64) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	UpdateProfile(ctx context.Context, userID uint64, username, profilePic *string) (model.User, error)
}

// RevocationLedger is the blacklist consulted and appended to by refresh
// and logout. Implemented by repository.BlacklistRepo and its cached
// wrapper. Revoke must enforce uniqueness at the storage layer and report
// a duplicate as repository.ErrDuplicateToken.
type RevocationLedger interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	Revoke(ctx context.Context, tokenHash string, userID uint64) error
}

// Notifier delivers one-time email tokens out of band. Delivery is
// fire-and-forget: the session manager logs failures but never rolls back
// the state transition that produced the token.
type Notifier interface {
	SendActivation(ctx context.Context, email, username, emailToken string) error
	SendPasswordReset(ctx context.Context, email, username, emailToken string) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// AuthService orchestrates the token lifecycle. All fields are read-only
// after construction; every method is safe for concurrent use.
type AuthService struct {
	users         UserStore
	ledger        RevocationLedger
	codec         *token.Codec
	notifier      Notifier
	emailTokenTTL time.Duration
	bcryptCost    int
}

func New(users UserStore, ledger RevocationLedger, codec *token.Codec, notifier Notifier, emailTokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:         users,
		ledger:        ledger,
		codec:         codec,
		notifier:      notifier,
		emailTokenTTL: emailTokenTTL,
		bcryptCost:    bcryptCost,
	}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	Role            string
}

// Register validates the input, creates an inactive user and dispatches an
// activation token to the supplied email address. The account cannot log
// in until the token is consumed via Activate.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" {
		return model.User{}, validationErr("email is required")
	}
	if username == "" {
		return model.User{}, validationErr("username is required")
	}
	if len(in.Password) < 8 {
		return model.User{}, validationErr("password should be at least 8 characters long")
	}
	if in.Password != in.ConfirmPassword {
		return model.User{}, validationErr("passwords do not match")
	}
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role != model.RoleStudent && role != model.RoleTutor {
		role = model.RoleStudent
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	id, err := s.users.Create(ctx, email, username, hash, role)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := s.issueEmailToken(ctx, u, purposeActivation); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login verifies credentials and returns a fresh access+refresh pair. An
// unknown email and a wrong password produce the same error so the response
// does not reveal which check failed. Inactive accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return TokenPair{}, ErrInactiveAccount
	}
	return s.issuePair(u.ID)
}

// Refresh exchanges a valid refresh token for a new pair, revoking the
// presented token in the same step. The ledger's unique insert is the
// atomic decider: of two concurrent refreshes with the same token exactly
// one wins; the other gets ErrTokenRevoked.
//
// State machine per refresh token: issued → revoked (by refresh or by
// logout). A revoked token never authorizes anything again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := utils.HashToken(refreshToken)

	revoked, err := s.ledger.IsRevoked(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if revoked {
		return TokenPair{}, ErrTokenRevoked
	}

	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, err
	}

	// Rotate: the old token must be dead before the new pair exists.
	if err := s.ledger.Revoke(ctx, hash, u.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return TokenPair{}, ErrTokenRevoked
		}
		return TokenPair{}, err
	}
	return s.issuePair(u.ID)
}

// Logout revokes the presented token unconditionally. Revoking a token
// that is already revoked yields ErrTokenRevoked, which callers treat as
// already-logged-out rather than as a failure.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		return err
	}
	if err := s.ledger.Revoke(ctx, utils.HashToken(raw), claims.UserID); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return ErrTokenRevoked
		}
		return err
	}
	return nil
}

// GetUser resolves a user id to its record, for the authentication
// middleware and the profile endpoints.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies the optional username/profile_pic changes for the
// authenticated user and returns the updated record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, username, profilePic *string) (model.User, error) {
	if username != nil && strings.TrimSpace(*username) == "" {
		return model.User{}, validationErr("username must not be empty")
	}
	return s.users.UpdateProfile(ctx, userID, username, profilePic)
}

func (s *AuthService) issuePair(userID uint64) (TokenPair, error) {
	access, accessExp, err := s.codec.Issue(userID, token.Access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.codec.Issue(userID, token.Refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}
