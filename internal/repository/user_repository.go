package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/medazero01-art/scuderiarentals/internal/model"
	"github.com/medazero01-art/scuderiarentals/internal/utils"
)

// UserRepo provides persistence for the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,phone_number,password_hash,role,created_at,updated_at"

// Create hashes the password and inserts a new user with the default
// "user" role.  The three unique identity columns are probed in a fixed
// order so that the first conflict wins: username, then email, then phone
// number.  A duplicate-key error from a concurrent insert is mapped to the
// same sentinels as a fallback.
func (r *UserRepo) Create(ctx context.Context, username, password, email, phone string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	checks := []struct {
		query string
		arg   string
		err   error
	}{
		{"SELECT EXISTS(SELECT 1 FROM users WHERE username=?)", username, ErrUsernameExists},
		{"SELECT EXISTS(SELECT 1 FROM users WHERE email=?)", email, ErrEmailExists},
		{"SELECT EXISTS(SELECT 1 FROM users WHERE phone_number=?)", phone, ErrPhoneExists},
	}
	for _, chk := range checks {
		var taken bool
		if err := r.DB.QueryRowContext(ctx, chk.query, chk.arg).Scan(&taken); err != nil {
			return 0, err
		}
		if taken {
			return 0, chk.err
		}
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, phone_number, password_hash, role) VALUES (?,?,?,?,?)",
		username, email, phone, hash, model.RoleUser)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, dupKeyError(err.Error())
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// dupKeyError maps a MySQL 1062 message to the sentinel for the violated
// unique index.  Index names follow migrations/schema.sql.
func dupKeyError(msg string) error {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "email"):
		return ErrEmailExists
	case strings.Contains(msg, "phone"):
		return ErrPhoneExists
	default:
		return ErrUsernameExists
	}
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
