package handlers

import (
	"encoding/json"
	"net/http"

	"task-tracker/backend/users-service/services"
	apperrors "task-tracker/backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// GetTeamMembers vraća članove tima čiji je vođa korisnik iz putanje.
// Poziva ga tasks-service prilikom validacije dodele zadatka.
func (h *UserHandler) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leadID, err := primitive.ObjectIDFromHex(vars["leadId"])
	if err != nil {
		http.Error(w, "Invalid lead id", http.StatusBadRequest)
		return
	}

	members, err := h.UserService.GetTeamMembers(r.Context(), leadID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}
