package model

import "time"

// Role values stored in users.role. The service knows exactly two kinds of
// account; registration defaults to RoleStudent when the client sends
// nothing recognizable.
const (
    RoleStudent = "STUDENT"
    RoleTutor   = "TUTOR"
)

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json tags
// are omitted because these structs are used internally by the repository
// layer; handlers define separate response types with appropriate tags.
//
// Accounts start inactive: IsActive stays false until the user proves
// control of the email address with the one-time token emailed on
// registration. The same token columns back the password-reset flow.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Email           – unique email address (stored lower-cased).
//  Username        – display name.
//  PasswordHash    – bcrypt hashed password.
//  Role            – STUDENT or TUTOR.
//  ProfilePic      – optional profile picture reference (nullable).
//  IsActive        – whether the account may log in.
//  EmailToken      – current one-time email token (nullable).
//  TokenCreatedAt  – when the email token was generated (nullable).
//  TokenExpiration – when the email token stops being valid (nullable).
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
//
// Invariant: EmailToken, TokenCreatedAt and TokenExpiration are set and
// cleared together; a non-nil token always carries a non-nil expiration.
type User struct {
    ID              uint64     // users.id
    Email           string     // users.email
    Username        string     // users.username
    PasswordHash    string     // users.password_hash
    Role            string     // users.role
    ProfilePic      *string    // users.profile_pic (nullable)
    IsActive        bool       // users.is_active
    EmailToken      *string    // users.email_token (nullable)
    TokenCreatedAt  *time.Time // users.token_created_at (nullable)
    TokenExpiration *time.Time // users.token_expiration (nullable)
    CreatedAt       time.Time  // users.created_at
    UpdatedAt       time.Time  // users.updated_at
}

// EmailTokenValid reports whether the stored email token matches the
// presented value and has not yet expired at the given instant. A user
// without a token never matches.
func (u *User) EmailTokenValid(token string, now time.Time) bool {
    if u.EmailToken == nil || u.TokenExpiration == nil {
        return false
    }
    return *u.EmailToken == token && now.Before(*u.TokenExpiration)
}
