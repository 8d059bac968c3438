// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrBookNotFound indicates that the book is not found or not owned by the caller.
	ErrBookNotFound = errors.New("book not found")
	// ErrEmptyBookName indicates that the book name is blank.
	ErrEmptyBookName = errors.New("name required")
	// ErrBookNameTooLong indicates that the book name exceeds MaxBookNameLen.
	ErrBookNameTooLong = errors.New("name too long")
	// ErrForbidden indicates that the caller's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
)

// MaxBookNameLen is the maximum book name length in characters.
const MaxBookNameLen = 190

// Role is the access level of a user inside a book.
type Role string

// Roles a membership can hold.
const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Book is a shared budget.
type Book struct {
	ID        int64     `json:"id"`
	OwnerUID  string    `json:"owner_uid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BookWithRole is a book as seen by one of its members.
type BookWithRole struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	OwnerUID string `json:"owner_uid"`
	Role     Role   `json:"role"`
}
