package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task-tracker/backend/tasks-service/middleware"
	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/tasks-service/services"
	"task-tracker/backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// writeServiceError mapira grešku servisa na HTTP status; InvalidAssignment
// dodatno vraća listu spornih korisnika u telu.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalidAssignment *utils.InvalidAssignmentError
	if errors.As(err, &invalidAssignment) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        "One or more assigned users are not members of your team",
			"invalidMembers": invalidAssignment.InvalidMembers,
		})
		return
	}
	http.Error(w, err.Error(), utils.StatusForError(err))
}

func taskIDFromRequest(r *http.Request) (primitive.ObjectID, error) {
	vars := mux.Vars(r)
	return primitive.ObjectIDFromHex(vars["id"])
}

type taskRequest struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Priority      *models.TaskPriority   `json:"priority"`
	DueDate       *time.Time             `json:"dueDate"`
	AssignedTo    []string               `json:"assignedTo"`
	Attachments   []string               `json:"attachments"`
	TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
}

func parseAssignedTo(ids []string) ([]primitive.ObjectID, error) {
	if ids == nil {
		return nil, nil
	}
	parsed := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, objectID)
	}
	return parsed, nil
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	assignedTo, err := parseAssignedTo(req.AssignedTo)
	if err != nil {
		http.Error(w, "assignedTo must be an array of user IDs", http.StatusBadRequest)
		return
	}

	input := services.CreateTaskInput{
		AssignedTo:    assignedTo,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}

	task, err := h.service.CreateTask(r.Context(), principal, r.Header.Get("Authorization"), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	assignedTo, err := parseAssignedTo(req.AssignedTo)
	if err != nil {
		http.Error(w, "assignedTo must be an array of user IDs", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), principal, r.Header.Get("Authorization"), taskID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    assignedTo,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTask(r.Context(), principal, taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Task deleted successfully"})
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	statusFilter := models.TaskStatus(r.URL.Query().Get("status"))

	list, err := h.service.GetTasks(r.Context(), principal, statusFilter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"task": task})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), principal, taskID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req struct {
		TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTaskChecklist(r.Context(), principal, taskID, req.TodoChecklist)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}
