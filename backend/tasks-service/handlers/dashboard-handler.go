package handlers

import (
	"encoding/json"
	"net/http"

	"task-tracker/backend/tasks-service/middleware"
	"task-tracker/backend/tasks-service/services"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetTeamDashboard vraća statistike za ceo tim pozivaoca.
func (h *DashboardHandler) GetTeamDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := h.service.GetTeamDashboard(r.Context(), principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// GetUserDashboard vraća statistike za zadatke dodeljene pozivaocu.
func (h *DashboardHandler) GetUserDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := h.service.GetUserDashboard(r.Context(), principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
