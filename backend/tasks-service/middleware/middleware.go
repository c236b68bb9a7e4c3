package middleware

import (
	"context"
	"net/http"
	"strings"

	"task-tracker/backend/tasks-service/logging"
	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/tasks-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const principalKey contextKey = "principal"

// JWTAuthMiddleware validira token, gradi Principal iz claims-a i stavlja ga u
// context zahteva. Neispravan token je Unauthorized, ne Forbidden.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			http.Error(w, "Invalid user id in token", http.StatusUnauthorized)
			return
		}

		principal := models.Principal{
			UserID:  userID,
			Email:   claims.Email,
			Role:    models.Role(claims.Role),
			Team:    claims.Team,
			Company: claims.Company,
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext vraća principal upisan u middleware-u.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(models.Principal)
	return principal, ok
}
