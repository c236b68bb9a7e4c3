package handlers

import (
	"encoding/json"
	"net/http"

	"task-tracker/backend/users-service/middleware"
	"task-tracker/backend/users-service/models"
	"task-tracker/backend/users-service/services"
	apperrors "task-tracker/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	Company          string `json:"company"`
	Team             string `json:"team"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Team            string `json:"team"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Token           string `json:"token"`
}

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

func authResponse(user *models.User, token string) AuthResponse {
	return AuthResponse{
		ID:              user.ID.Hex(),
		Name:            user.Name,
		Email:           user.Email,
		Role:            string(user.Role),
		Team:            user.Team,
		ProfileImageURL: user.ProfileImageURL,
		Token:           token,
	}
}

// Register kreira nalog i vezuje korisnika za tim unutar kompanije.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Company == "" || req.Team == "" {
		http.Error(w, "name, email, password, company and team are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.RegisterUser(r.Context(), services.RegisterUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
		Company:         req.Company,
		Team:            req.Team,
		InviteToken:     req.AdminInviteToken,
	})
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse(user, token))
}

// Login prijavljuje korisnika i vraća JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse(user, token))
}

// GetProfile vraća profil prijavljenog korisnika.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id in token", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfile menja ime, email ili lozinku prijavljenog korisnika.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id in token", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.UpdateUserProfile(r.Context(), userID, services.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse(user, token))
}
