package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// IssueToken mints a signed session token for the account. The token is
// self-contained: nothing about it is stored server-side at issuance.
func IssueToken(accountID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken checks the signature, then the expiry, and returns the embedded
// account id. Every failure wraps ErrTokenRejected so callers reject
// uniformly; the detail after the sentinel is for logs only.
func VerifyToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if !token.Valid {
		return "", fmt.Errorf("%w: token not valid", ErrTokenRejected)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims type", ErrTokenRejected)
	}
	accountID, ok := claims["account_id"].(string)
	if !ok || accountID == "" {
		return "", fmt.Errorf("%w: account_id missing from claims", ErrTokenRejected)
	}

	return accountID, nil
}
