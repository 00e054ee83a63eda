package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/okarhu/locboard/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentials_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice", sqlmock.AnyArg(), "alice@example.com", "ali").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := NewCredentials(repo.NewUserRepo(db))
	ok, err := c.Register(context.Background(), "alice", "hunter2", "alice@example.com", "ali")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !ok {
		t.Error("Register: got false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCredentials_Register_UsernameTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Existence check says taken: no INSERT may follow.
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	c := NewCredentials(repo.NewUserRepo(db))
	ok, err := c.Register(context.Background(), "alice", "hunter2", "alice@example.com", "ali")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if ok {
		t.Error("Register with taken username: got true, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCredentials_Verify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "hunter2", true},
		{"wrong password", "hunter3", false},
		{"empty password", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`SELECT username, password_hash, email, nickname`).
				WithArgs("alice").
				WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "email", "nickname"}).
					AddRow("alice", string(hash), "alice@example.com", "ali"))

			c := NewCredentials(repo.NewUserRepo(db))
			ok, err := c.Verify(context.Background(), "alice", tc.password)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if ok != tc.want {
				t.Errorf("Verify: got %v, want %v", ok, tc.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestCredentials_Verify_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT username, password_hash, email, nickname`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	c := NewCredentials(repo.NewUserRepo(db))
	ok, err := c.Verify(context.Background(), "nobody", "whatever")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("Verify for unknown user: got true, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCredentials_ResolveNickname(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT nickname FROM users`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"nickname"}).AddRow("ali"))

	c := NewCredentials(repo.NewUserRepo(db))
	nickname, err := c.ResolveNickname(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ResolveNickname: %v", err)
	}
	if nickname != "ali" {
		t.Errorf("ResolveNickname: got %q, want %q", nickname, "ali")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
