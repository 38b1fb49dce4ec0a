package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/model"
)

var _ model.TokenCodec = (*JWT)(nil)

// JWT implements TokenCodec backed by HMAC-SHA256 signed JSON Web Tokens.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWT codec.
type Option func(*JWT)

// WithClock sets the time source used to check expiry.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a token codec signing with secret. Tokens stay valid for ttl
// after issuance.
func NewJWT(secret []byte, ttl time.Duration, opts ...Option) *JWT {
	j := &JWT{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// TTL returns the token lifetime.
func (j *JWT) TTL() time.Duration {
	return j.ttl
}

// Issue signs a token for userID with iat=issuedAt and exp=issuedAt+ttl.
func (j *JWT) Issue(userID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the token claims.
func (j *JWT) Verify(tokenString string) (model.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
			}
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, model.ErrTokenExpired
		}
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return model.TokenClaims{}, fmt.Errorf("%w: bad subject", model.ErrTokenInvalid)
	}
	if claims.IssuedAt == nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing iat", model.ErrTokenInvalid)
	}

	return model.TokenClaims{
		UserID:    userID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
