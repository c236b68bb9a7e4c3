package handlers

import (
	"encoding/json"
	"net/http"

	"task-tracker/backend/users-service/services"
	apperrors "task-tracker/backend/utils"
)

type CompanyHandler struct {
	UserService *services.UserService
}

func NewCompanyHandler(userService *services.UserService) *CompanyHandler {
	return &CompanyHandler{UserService: userService}
}

type RegisterCompanyRequest struct {
	Name string `json:"name"`
}

// RegisterCompany kreira novu kompaniju. Timovi nastaju tek registracijom admina.
func (h *CompanyHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	var req RegisterCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Company name is required", http.StatusBadRequest)
		return
	}

	company, err := h.UserService.RegisterCompany(r.Context(), req.Name)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(company)
}
