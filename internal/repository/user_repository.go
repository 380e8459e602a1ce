package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/classroom-auth/internal/model"
)

// UserRepo persists user records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,role,profile_pic,is_active,email_token,token_created_at,token_expiration,created_at,updated_at"

// Create inserts an inactive user and returns its ID. The caller hashes the
// password; this layer never sees plaintext credentials.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, role, is_active) VALUES (?,?,?,?,FALSE)",
		email, username, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByEmailToken fetches the user currently holding the given email token.
// Expiry is not checked here; the service compares token_expiration itself
// so it can distinguish not-found from expired.
func (r *UserRepo) GetByEmailToken(ctx context.Context, token string) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email_token=? AND email_token IS NOT NULL LIMIT 1", token)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.ProfilePic,
		&u.IsActive, &u.EmailToken, &u.TokenCreatedAt, &u.TokenExpiration,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// SetEmailToken stores a fresh one-time token with its timestamps. All
// three columns move together so the token/expiration invariant holds.
func (r *UserRepo) SetEmailToken(ctx context.Context, userID uint64, token string, createdAt, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_token=?, token_created_at=?, token_expiration=? WHERE id=?",
		token, createdAt, expiresAt, userID)
	return err
}

// ClearEmailToken nulls the token columns after a successful consumption,
// making the token single-use.
func (r *UserRepo) ClearEmailToken(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_token=NULL, token_created_at=NULL, token_expiration=NULL WHERE id=?",
		userID)
	return err
}

// Activate flips is_active so the account can log in.
func (r *UserRepo) Activate(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=TRUE WHERE id=?", userID)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, userID)
	return err
}

// UpdateProfile applies the optional profile fields and returns the updated
// row. Nil pointers leave the corresponding column untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, username, profilePic *string) (model.User, error) {
	if username != nil {
		if _, err := r.DB.ExecContext(ctx, "UPDATE users SET username=? WHERE id=?", *username, userID); err != nil {
			return model.User{}, err
		}
	}
	if profilePic != nil {
		if _, err := r.DB.ExecContext(ctx, "UPDATE users SET profile_pic=? WHERE id=?", *profilePic, userID); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, userID)
}
