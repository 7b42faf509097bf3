package entity

import "time"

// AuthToken is the transient result of a successful login or registration.
// It is never persisted; validity lives entirely in the signed AccessToken.
type AuthToken struct {
	AccessToken  string
	RefreshToken string // random, not stored, cannot be redeemed yet
	ExpiresAt    time.Time
}
