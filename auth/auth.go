// Package auth provides types and functions used for JWT generation and validation.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Claims is the set of claims, standard and custom additions, that are used in JWTs that authorize actions.
type Claims struct {
	jwt.StandardClaims
	Device     string `json:"dev"`
	ActionHash string `json:"acsha"`
}

// Sum256 returns the SHA256 hash of the given action path as a hex string.
func Sum256(action string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(action)))
}

// NewToken returns an HS256-signed JWT that authorizes device to perform action for ttl.
func NewToken(secret []byte, device, action string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("auth: empty secret")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Device:     device,
		ActionHash: Sum256(action),
	})
	return token.SignedString(secret)
}

// Verify checks that tokenString is a valid JWT signed with secret that
// authorizes device to perform action.
func Verify(secret []byte, tokenString, device, action string) error {
	if len(secret) == 0 {
		return errors.New("auth: empty secret")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing algorithm.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("auth: failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return errors.New("auth: invalid JWT")
	}

	// Make sure all custom claims were given.
	if claims.Device == "" {
		return errors.New("auth: device claim not present or empty")
	}
	if claims.ActionHash == "" {
		return errors.New("auth: action hash claim not present or empty")
	}

	if claims.Device != device {
		return fmt.Errorf("auth: devices do not match. Request: %q, JWT: %q", device, claims.Device)
	}
	if sha := Sum256(action); sha != claims.ActionHash {
		return fmt.Errorf("auth: action hashes do not match. Request: %q, JWT: %q", sha, claims.ActionHash)
	}

	return nil
}
