package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// operatorSubject is the claim subject for the single local operator; the
// API has no user accounts.
const operatorSubject = "operator"

// TokenService wraps JWT creation and validation for API sessions.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// CreateSession creates a session token with the default TTL.
func (t *TokenService) CreateSession() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": operatorSubject,
		"iat": now.Unix(),
		"exp": now.Add(t.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates a session token.
func (t *TokenService) Verify(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.ErrTokenMalformed
	}
	if sub, _ := claims["sub"].(string); sub != operatorSubject {
		return jwt.ErrTokenInvalidSubject
	}
	return nil
}
