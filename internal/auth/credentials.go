package auth

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/okarhu/locboard/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// pqUniqueViolation is the class 23 error code for duplicate keys.
const pqUniqueViolation = "23505"

// Credentials owns registration and credential verification for user records.
// Passwords are stored as bcrypt hashes; bcrypt draws a fresh 16-byte salt
// from crypto/rand per hash and embeds it in the hash string, so verification
// is self-contained and constant-time.
type Credentials struct {
	Users *repo.UserRepo
}

func NewCredentials(users *repo.UserRepo) *Credentials {
	return &Credentials{Users: users}
}

// Register creates a user. Returns false without mutating anything when the
// username is already taken. A concurrent registration that slips past the
// existence check lands on the primary key and is folded into the same false.
func (c *Credentials) Register(ctx context.Context, username, password, email, nickname string) (bool, error) {
	taken, err := c.Users.Exists(ctx, username)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	if err := c.Users.Create(ctx, username, string(hash), email, nickname); err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == pqUniqueViolation {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Verify checks a plaintext password against the stored hash. Unknown
// usernames and mismatches both return false; store failures are returned
// separately so the caller can tell a bad credential from a broken store.
func (c *Credentials) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := c.Users.GetByUsername(ctx, username)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// ResolveNickname returns the display name recorded at registration, or the
// empty string when the username is unknown.
func (c *Credentials) ResolveNickname(ctx context.Context, username string) (string, error) {
	return c.Users.Nickname(ctx, username)
}
