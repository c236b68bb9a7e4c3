package utils

import (
	"fmt"
	"os"
	"time"

	"task-tracker/backend/users-service/models"

	"github.com/golang-jwt/jwt/v5"
)

// Učitaj tajni ključ iz okruženja
var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// Claims nose kompletan principal: identitet, ulogu, tim i kompaniju, tako da
// tasks-service ne mora da zove users-service pri svakom zahtevu.
type Claims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Team    string `json:"team"`
	Company string `json:"company"`
	jwt.RegisteredClaims
}

func GenerateToken(user *models.User, companyName string) (string, error) {
	claims := &Claims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		Role:    string(user.Role),
		Team:    user.Team,
		Company: companyName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
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
