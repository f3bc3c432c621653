package model

import "time"

// User is a registered account. PasswordHash never holds the plaintext password.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Completed    int       `json:"completed" db:"completed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
