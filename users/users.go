package users

import "time"

// User is a single record in the directory. Email is the logical unique key
// (case-sensitive, as stored); ID is unique and immutable once assigned.
// PasswordDigest is serialized for persistence only - layers above the
// directory must never surface it.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"password_digest"`
	CreatedAt      time.Time `json:"created_at"`
}
