// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// User is the identity record for one account. PasswordHash is opaque outside the PasswordHasher.
type User struct {
	ID           uuid.UUID // Assigned by the repository on create.
	Email        string    // Stored case-folded; unique across all users.
	FirstName    string
	LastName     string
	PasswordHash string // Never the plaintext.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name the way task listings display an owner.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail produces the canonical form used for storage and lookups,
// which makes the unique index on email case-insensitive. A Caser is stateful,
// so each call gets its own.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
