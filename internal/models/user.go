package models

import "time"

// InternalUser is a login account stored in the internal database.
// PasswordHash is a bcrypt hash and never serialized to API responses.
type InternalUser struct {
	UserID       string    `json:"user_id" badgerhold:"key"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// UserKeyValue is a per-user (or system) key-value config entry stored in
// the internal database.
type UserKeyValue struct {
	UserID   string    `json:"user_id"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}
