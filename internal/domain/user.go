package domain

import (
	"errors"
	"time"
)

var (
	// ErrUIDAlreadyExists indicates that the user with the given uid already exists.
	ErrUIDAlreadyExists = errors.New("uid already exists")
	// ErrEmailAlreadyExists indicates that the user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
	// ErrUnauthenticated indicates a request without a resolvable caller.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// User holds user data of the identity adapter.
type User struct {
	UID               string    `json:"uid"`
	HashedPassword    string    `json:"hashed_password"`
	DisplayName       string    `json:"display_name"`
	Email             string    `json:"email"`
	PasswordChangedAt time.Time `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	UID            string `json:"uid"`
	HashedPassword string `json:"hashed_password"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Caller is the authenticated user of a request.
type Caller struct {
	UID         string
	DisplayName string
}
