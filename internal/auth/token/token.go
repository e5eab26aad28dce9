package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
	"github.com/Paul1o1/rendojobs-frontend/internal/user"
)

var ErrInvalidToken = errors.New("token: invalid or expired")

// TTL is the fixed validity window for issued session tokens.
const TTL = 7 * 24 * time.Hour

// Claims binds the session token to a user. JSON keys match the
// payload shape the frontend already consumes.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"id"`
	TelegramID string `json:"telegram_id"`
	Name       string `json:"name"`
}

// Issuer signs and verifies session tokens. Stateless: there is no
// session table, validity is signature plus expiry alone.
type Issuer struct {
	secret []byte
	clock  clock.Clock
}

func NewIssuer(secret string, clk clock.Clock) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		clock:  clk,
	}
}

// Issue creates a signed token for the user, valid for TTL from now.
func (i *Issuer) Issue(u *user.User) (string, error) {
	now := i.clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		UserID:     u.ID,
		TelegramID: u.TelegramID,
		Name:       u.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// PeekExpiry extracts a token's expiry WITHOUT verifying its signature.
// Clients use it to discard a stored token that has plainly expired;
// it must never be used to grant access.
func PeekExpiry(tokenString string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}
