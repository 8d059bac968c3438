// Package tokenpkg issues and verifies access tokens for the session surface.
package tokenpkg

import (
	"fmt"
	"time"
)

// Supported token kinds.
const (
	KindPaseto = "paseto"
	KindJWT    = "jwt"
)

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific user id and duration.
	CreateToken(uid string, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// NewMaker returns the Maker for kind built with symmetricKey.
func NewMaker(kind, symmetricKey string) (Maker, error) {
	switch kind {
	case KindPaseto, "":
		return NewPasetoMaker(symmetricKey)
	case KindJWT:
		return NewJWTMaker(symmetricKey)
	default:
		return nil, fmt.Errorf("unsupported token kind %q", kind)
	}
}
