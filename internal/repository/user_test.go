package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/devfolio/devfolio-go/internal/model"
)

var userColumns = []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}

func TestUserCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "admin@example.com", "hash", "admin", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	user := &model.User{Email: "admin@example.com", PasswordHash: "hash", Role: "admin"}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'admin@example.com' for key 'users.email'"))

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &model.User{Email: "admin@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("cuvd1abc123", "admin@example.com", "hash", "admin", now, now))

	repo := NewUserRepository(db)
	user, err := repo.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() unexpected error: %v", err)
	}
	if user.ID != "cuvd1abc123" {
		t.Errorf("GetByEmail() ID = %q, want %q", user.ID, "cuvd1abc123")
	}
	if user.Role != "admin" {
		t.Errorf("GetByEmail() Role = %q, want admin", user.Role)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	repo := NewUserRepository(db)
	_, err = repo.GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserUpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("new-hash", sqlmock.AnyArg(), "cuvd1abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	if err := repo.UpdatePassword(context.Background(), "cuvd1abc123", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword() unexpected error: %v", err)
	}
}

func TestUserUpdatePasswordNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	err = repo.UpdatePassword(context.Background(), "missing", "new-hash")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewUserRepository(db)
	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	if isDuplicateEntryError(nil) {
		t.Error("nil error should not be a duplicate entry error")
	}
	if isDuplicateEntryError(ErrUserNotFound) {
		t.Error("ErrUserNotFound should not be a duplicate entry error")
	}
	if !isDuplicateEntryError(errors.New("Error 1062: Duplicate entry 'x' for key 'y'")) {
		t.Error("MySQL 1062 error should be a duplicate entry error")
	}
}
