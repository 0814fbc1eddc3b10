package admin

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPIN is returned when the submitted PIN does not match.
var ErrInvalidPIN = errors.New("invalid pin")

const tokenTTL = 12 * time.Hour

// Service exchanges the admin PIN for a short-lived admin token and
// validates those tokens on admin routes.
type Service struct {
	pinHash []byte
	secret  []byte
}

// NewService takes the bcrypt hash of the admin PIN and the signing secret.
func NewService(pinHash, secret []byte) *Service {
	return &Service{pinHash: pinHash, secret: secret}
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// VerifyPIN compares the PIN against the configured hash and issues a token.
func (s *Service) VerifyPIN(pin string) (string, error) {
	if len(s.pinHash) == 0 {
		return "", errors.New("admin pin not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return "", ErrInvalidPIN
	}
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: "admin",
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

// ValidateToken checks an admin token's signature, expiry, and role.
func (s *Service) ValidateToken(token string) error {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || c.Role != "admin" {
		return errors.New("invalid admin token")
	}
	return nil
}
