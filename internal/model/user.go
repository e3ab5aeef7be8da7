package model

import "time"

// Roles stored in the users.role column.  Every account starts as RoleUser;
// RoleAdmin unlocks inventory mutation and reservation management.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Identity fields (username, email, phone number) are unique and
// immutable once created.  The password is never stored in plain form;
// only its bcrypt hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PhoneNumber  – unique phone number (10–15 digits).
//  PasswordHash – bcrypt hashed password.
//  Role         – "user" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PhoneNumber  string    // users.phone_number
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// UserView is the public projection of a user that may be embedded in API
// responses.  It never carries the password hash.
type UserView struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// View projects a User into its public shape.
func (u User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

// DeletedUser returns the tombstone substituted when a reservation still
// references a user record that no longer exists.
func DeletedUser() UserView {
	return UserView{Username: "Deleted"}
}
