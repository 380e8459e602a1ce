package utils // helpers for password hashing and opaque token generation

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a plain password using the given
// cost. The cost comes from configuration so test environments can run with
// a cheaper factor than production.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash against a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
