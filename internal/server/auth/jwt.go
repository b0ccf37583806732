// Package auth issues and verifies the signed edit capability for hosted
// shares, and hashes share passwords. Holding a valid edit token for a
// share id is what grants write access; an editable flag asserted by the
// client is never trusted.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/geolists/internal/common"
)

// Claims carries the standard claims plus the share the capability is
// scoped to.
type Claims struct {
	jwt.RegisteredClaims
	ShareID string
}

// GenerateEditToken signs an HS256 edit capability for shareID.
func GenerateEditToken(shareID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ShareID: shareID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetShareIDFromToken verifies the token signature and expiry and returns
// the share id it is scoped to.
func GetShareIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidEditToken
	}

	if !token.Valid {
		return "", common.ErrInvalidEditToken
	}

	return claims.ShareID, nil
}
