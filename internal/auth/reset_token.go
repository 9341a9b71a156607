package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "quill/internal/errors"
)

const resetPurpose = "password_reset"

// ResetClaims carries the identity a password reset token authorizes.
type ResetClaims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokenSigner issues and verifies time-limited password reset tokens.
// Tokens are stateless: validity is decided entirely by signature and
// expiry, so a token remains usable until it expires even after a
// successful reset.
type ResetTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokenSigner creates a signer with the given secret and token TTL.
func NewResetTokenSigner(secret string, ttl time.Duration) *ResetTokenSigner {
	return &ResetTokenSigner{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token authorizing a password reset for the user.
func (s *ResetTokenSigner) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := &ResetClaims{
		UserID:  userID,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded user ID.
// Tampered, expired or foreign-purpose tokens yield ErrInvalidToken.
func (s *ResetTokenSigner) Verify(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Purpose != resetPurpose {
		return 0, apperrors.ErrInvalidToken
	}
	return claims.UserID, nil
}
