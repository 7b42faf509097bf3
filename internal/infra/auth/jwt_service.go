package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/service"
	"taskhub/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenBytes = 64

// accessClaims is the JWT payload. sub and userId both carry the user id.
type accessClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option customizes the token service.
type Option func(*jwtService)

// WithClock replaces time.Now for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) {
		s.now = now
	}
}

// NewJWTService is the constructor for jwtService.
// A missing secret, issuer or audience is an error so the process refuses to start.
func NewJWTService(cfg *config.Config, opts ...Option) (service.TokenService, error) {
	if err := cfg.JWT.Validate(); err != nil {
		return nil, err
	}

	s := &jwtService{
		secret:   []byte(cfg.JWT.SecretKey),
		issuer:   cfg.JWT.Issuer,
		audience: cfg.JWT.Audience,
		ttl:      cfg.JWT.TTL(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue signs an HS256 access token for user and generates an unpersisted refresh token.
func (s *jwtService) Issue(user *entity.User) (*entity.AuthToken, error) {
	if user == nil {
		return nil, errors.New("issue token: nil user")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := accessClaims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	return &entity.AuthToken{
		AccessToken:  signed,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Validate reports whether token is signed with our key and has the expected issuer,
// audience and an unexpired exp claim.
func (s *jwtService) Validate(token string) bool {
	_, err := s.parse(token)

	return err == nil
}

// SubjectOf reads sub without verification. Callers must Validate first.
func (s *jwtService) SubjectOf(token string) (uuid.UUID, bool) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

func (s *jwtService) parse(token string) (*accessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &accessClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, err
	}

	return claims, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate refresh token")
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}
