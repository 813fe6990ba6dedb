// Package auth implements the token service and the ownership check.
//
// Tokens are stateless HS256 JWTs carrying the username as the subject.
// Validity is fully determined by signature and expiry at verification time;
// there is no revocation list, so a leaked token stays valid until it
// expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ndenisov/imgvault/internal/common"
)

// Claims is the signed claim set: registered claims only, with the username
// in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the given username, expiring after
// validityDuration.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateAndExtract verifies the token's signature and expiry and returns
// the embedded subject. Validation and extraction are a single call so that
// a subject can never be read from an unverified token.
//
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure yields common.ErrInvalidToken. Parser internals are not exposed to
// callers.
func ValidateAndExtract(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
