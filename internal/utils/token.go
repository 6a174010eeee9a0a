// Package utils provides helper functions for operator token creation.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorToken is a signed JWT granting access to the run-control
// endpoints, along with its expiry.
type OperatorToken struct {
	Token string
	Exp   time.Time
}

// NewOperatorToken builds and signs an HS256 JWT for an operator.  The
// claims carry a fixed OPERATOR role plus the standard exp and iat; the
// subject names who requested the token so runs can be attributed in
// logs.
func NewOperatorToken(secret, subject string, ttl time.Duration) (OperatorToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "OPERATOR",
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return OperatorToken{}, err
	}
	return OperatorToken{Token: signed, Exp: exp}, nil
}
