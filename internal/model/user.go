package model

import "time"

// User is a registered customer.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// RegisterRequest is the payload of POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6,max=50,maxbytes=72"`
}

// LoginRequest is the payload of POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	User      UserSummary
	Token     string
	ExpiresAt time.Time
}
