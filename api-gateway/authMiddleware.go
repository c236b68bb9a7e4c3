package main

import (
	"net/http"
	"strings"

	"task-tracker/api-gateway/utils"
)

func authMiddleware(next http.Handler, allowedRoles []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Ekstrakcija tokena
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		if claims.Role == "" {
			http.Error(w, "Missing role in token", http.StatusUnauthorized)
			return
		}

		if !contains(allowedRoles, claims.Role) {
			http.Error(w, "Access forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
