package domain

import (
	"errors"
	"time"
)

var (
	// ErrMembershipNotFound indicates that the user is not a member of the book.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrMembershipExists indicates that the user is already a member of the book.
	ErrMembershipExists = errors.New("membership already exists")
	// ErrCannotRemoveOwner indicates an attempt to remove the book owner.
	ErrCannotRemoveOwner = errors.New("cannot remove owner")
	// ErrEmptyInvitee indicates that the invited user is blank.
	ErrEmptyInvitee = errors.New("user required")
)

// Membership links a user to a book with a role.
type Membership struct {
	BookID    int64
	UserUID   string
	Role      Role
	CreatedAt *time.Time
}

// Member is a membership enriched with the user's display name.
//
// CreatedAt is nil for the synthetic owner entry of a book without membership rows.
type Member struct {
	UserUID     string     `json:"user_uid"`
	Role        Role       `json:"role"`
	CreatedAt   *time.Time `json:"created_at"`
	DisplayName string     `json:"display_name"`
}
