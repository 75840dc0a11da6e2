// internal/domain/user.go
package domain

import "time"

// User represents an account holder.
type User struct {
	ID                    int64     `db:"id" json:"id"`             // Primary key, BIGSERIAL in DB
	Username              string    `db:"username" json:"username"` // Unique username
	Email                 string    `db:"email" json:"email"`       // Unique email
	Password              string    `db:"password_hash" json:"-"`   // bcrypt hash, never serialized
	Enabled               bool      `db:"enabled" json:"enabled"`
	AccountNonExpired     bool      `db:"account_non_expired" json:"accountNonExpired"`
	AccountNonLocked      bool      `db:"account_non_locked" json:"accountNonLocked"`
	CredentialsNonExpired bool      `db:"credentials_non_expired" json:"credentialsNonExpired"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"` // Timestamp of registration
}

// Registration is a candidate account carrying a plaintext password.
type Registration struct {
	Username string
	Email    string
	Password string
}

// NewUser creates a User from a registration whose password has already been hashed.
// All account flags start enabled.
func NewUser(username, email, passwordHash string, createdAt time.Time) *User {
	return &User{
		Username:              username,
		Email:                 email,
		Password:              passwordHash,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		CreatedAt:             createdAt.UTC(),
	}
}

// Sanitized returns a copy of u with the password hash removed.
func (u User) Sanitized() *User {
	u.Password = ""
	return &u
}
