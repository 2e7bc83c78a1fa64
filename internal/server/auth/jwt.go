package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the session identifier, which
// is the user's id in decimal form.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken issues an HS256 access token for userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString and returns the session
// identifier it carries. Expired tokens yield common.ErrTokenExpired, any
// other failure common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
