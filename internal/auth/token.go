package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the user a bearer token was issued to.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	// Stamp ties the token to the password hash it was issued under.
	Stamp string `json:"pwd"`
	jwt.RegisteredClaims
}

// PasswordStamp derives a short fingerprint of a password hash. Changing the
// password changes the stamp and invalidates tokens issued before.
func PasswordStamp(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// Current reports whether the token was issued under passwordHash.
func (c *Claims) Current(passwordHash string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Stamp), []byte(PasswordStamp(passwordHash))) == 1
}

// TokenManager issues and validates HS256 bearer tokens for API clients.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	issuer        string
}

func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		issuer:        "pairhouse",
	}
}

func (m *TokenManager) Generate(userID, email, passwordHash string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.tokenDuration)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Stamp:  PasswordStamp(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
