package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Učitaj tajni ključ iz okruženja
var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// Claims koje izdaje users-service; nose kompletan principal.
type Claims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Team    string `json:"team"`
	Company string `json:"company"`
	jwt.RegisteredClaims
}

func ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token has expired")
	}
	return claims, nil
}
