package repo

import (
	"context"
	"database/sql"

	"github.com/okarhu/locboard/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, email, nickname string) error {
	query := `
		INSERT INTO users (username, password_hash, email, nickname)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.DB.ExecContext(ctx, query, username, passwordHash, email, nickname)
	return err
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password_hash, email, nickname
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.PasswordHash, &user.Email, &user.Nickname)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Exists
// ==========================
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).
		Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ==========================
// Nickname (empty when unknown)
// ==========================
func (r *UserRepo) Nickname(ctx context.Context, username string) (string, error) {
	var nickname string
	err := r.DB.QueryRowContext(ctx,
		`SELECT nickname FROM users WHERE username = $1`, username).
		Scan(&nickname)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return nickname, nil
}
