package service

import (
	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenService issues and checks bearer tokens. Tokens are stateless: nothing is stored
// server-side, so there is no revocation.
type TokenService interface {
	// Issue signs an access token for user and pairs it with a random refresh token.
	Issue(user *entity.User) (*entity.AuthToken, error)

	// Validate checks signature, issuer, audience and expiry with zero clock skew.
	// It does not say why a token was rejected.
	Validate(token string) bool

	// SubjectOf extracts the user id from a token that structurally parses.
	// It does NOT verify the signature or expiry; call Validate first.
	SubjectOf(token string) (uuid.UUID, bool)
}
