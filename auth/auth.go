// Package auth implements the admin API's bearer-token authentication: a
// header-bearer scheme suited to a CLI-issued operator token rather than a
// browser session.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer       = "popshop-admin"
	DefaultTTL   = 72 * time.Hour
	secretEnvVar = "POPSHOP_ADMIN_SECRET"
)

// AdminClaims is the JWT payload issued by `popshop token`.
type AdminClaims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Secret resolves the HMAC signing key: the POPSHOP_ADMIN_SECRET
// environment variable if set, else a key derived from the config file's
// absolute path, so a token minted for one deployment doesn't silently
// validate against an unrelated one that happens to share no state.
func Secret(configPath string) []byte {
	if s := os.Getenv(secretEnvVar); s != "" {
		return []byte(s)
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		configPath = abs
	}
	sum := sha256.Sum256([]byte("popshop-admin-salt-v1:" + configPath))
	return []byte(hex.EncodeToString(sum[:]))
}

// IssueToken signs a new admin token for subject, valid for ttl. A
// non-positive ttl is replaced by DefaultTTL.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := AdminClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and verifies tokenString, rejecting anything not
// signed with HMAC (preventing the classic "alg: none" downgrade attack)
// and any expired token.
func ValidateToken(secret []byte, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid admin token")
	}
	return claims, nil
}
