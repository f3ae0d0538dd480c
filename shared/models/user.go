package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account. The password hash never leaves
// the server.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is the read-only view of a user cached by the session store for
// the lifetime of a play session.
type Identity struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// IdentityOf builds the session-cached identity view of a user.
func IdentityOf(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{UserID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
