package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the RBAC policy.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var ErrMissingKey = errors.New("JWT_KEY not set")

type JWTClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // Role is needed for RBAC in protected endpoints
	jwt.RegisteredClaims
}

// GetJWTKey returns the signing key from JWT_KEY.
func GetJWTKey() []byte {
	return []byte(os.Getenv("JWT_KEY"))
}

func GenerateJWT(name, email, role string, duration time.Duration) (string, error) {
	key := GetJWTKey()
	if len(key) == 0 {
		return "", ErrMissingKey
	}
	claims := &JWTClaims{
		Name:  name,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseJWT validates tokenString and returns its claims.
func ParseJWT(tokenString string) (*JWTClaims, error) {
	key := GetJWTKey()
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
