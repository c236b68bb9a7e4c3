package services

import (
	"context"
	"fmt"
	"time"

	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/tasks-service/repositories"
	"task-tracker/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore je apstrakcija nad Mongo repozitorijumom zadataka.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error)
}

// TeamMembersProvider dobavlja članove tima vođe iz users-servisa. Ubrizgava se
// da bi se validacija dodele mogla testirati bez mreže.
type TeamMembersProvider interface {
	TeamMembers(ctx context.Context, leadID primitive.ObjectID, authToken string) ([]models.TeamMember, error)
}

type TaskService struct {
	store       TaskStore
	teamMembers TeamMembersProvider
}

func NewTaskService(store TaskStore, teamMembers TeamMembersProvider) *TaskService {
	return &TaskService{
		store:       store,
		teamMembers: teamMembers,
	}
}

func requireAdmin(principal models.Principal) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("admin role required: %w", utils.ErrForbidden)
	}
	return nil
}

// canMutateTask dozvoljava izmenu statusa/checkliste samo izvršiocu ili adminu.
func canMutateTask(principal models.Principal, task *models.Task) error {
	if principal.IsAdmin() || task.IsAssignedTo(principal.UserID) {
		return nil
	}
	return fmt.Errorf("not authorized to update this task: %w", utils.ErrForbidden)
}

// validateAssignees proverava da su svi prosleđeni korisnici članovi tima
// pozivaoca. Pad poziva ka users-servisu prekida mutaciju kao ServiceUnavailable
// umesto da se validacija tiho preskoči.
func (s *TaskService) validateAssignees(ctx context.Context, principal models.Principal, authToken string, assignedTo []primitive.ObjectID) error {
	if len(assignedTo) == 0 {
		return fmt.Errorf("assignedTo must contain at least one user id: %w", utils.ErrBadRequest)
	}

	members, err := s.teamMembers.TeamMembers(ctx, principal.UserID, authToken)
	if err != nil {
		return err
	}

	memberIDs := make(map[string]bool, len(members))
	for _, member := range members {
		memberIDs[member.ID] = true
	}

	var invalid []string
	for _, id := range assignedTo {
		if !memberIDs[id.Hex()] {
			invalid = append(invalid, id.Hex())
		}
	}
	if len(invalid) > 0 {
		return &utils.InvalidAssignmentError{InvalidMembers: invalid}
	}
	return nil
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       time.Time
	AssignedTo    []primitive.ObjectID
	Attachments   []string
	TodoChecklist []models.ChecklistItem
}

// CreateTask kreira zadatak u timu admina. Kompanija i tim se denormalizuju sa
// pozivaoca, a checklista odmah određuje početni napredak i status.
func (s *TaskService) CreateTask(ctx context.Context, principal models.Principal, authToken string, input CreateTaskInput) (*models.Task, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required: %w", utils.ErrBadRequest)
	}
	if input.Priority != "" && !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("invalid priority %q: %w", input.Priority, utils.ErrBadRequest)
	}

	if err := s.validateAssignees(ctx, principal, authToken, input.AssignedTo); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now()
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   principal.UserID,
		Attachments: input.Attachments,
		Company:     principal.Company,
		Team:        principal.Team,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ApplyChecklist(task, input.TodoChecklist)

	id, err := s.store.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id
	return task, nil
}

// UpdateTaskInput nosi delimičnu izmenu: nil polja ostaju nepromenjena.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *models.TaskPriority
	DueDate       *time.Time
	AssignedTo    []primitive.ObjectID
	Attachments   []string
	TodoChecklist []models.ChecklistItem
}

// UpdateTask menja polja zadatka. Nova dodela se validira isto kao pri
// kreiranju, a nova checklista ponovo izvodi napredak i status.
func (s *TaskService) UpdateTask(ctx context.Context, principal models.Principal, authToken string, taskID primitive.ObjectID, input UpdateTaskInput) (*models.Task, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		if err := s.validateAssignees(ctx, principal, authToken, input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("invalid priority %q: %w", *input.Priority, utils.ErrBadRequest)
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Attachments != nil {
		task.Attachments = input.Attachments
	}
	if input.TodoChecklist != nil {
		ApplyChecklist(task, input.TodoChecklist)
	}
	task.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, principal models.Principal, taskID primitive.ObjectID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.store.Delete(ctx, taskID)
}

// GetTaskByID vraća zadatak bez provere tima ili uloge; lista je jedina
// površina ograničena na tim (vidi DESIGN.md).
func (s *TaskService) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return s.store.GetByID(ctx, id)
}

type TasksSummary struct {
	All             int `json:"all"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

type TaskList struct {
	Tasks        []models.TaskWithCount `json:"tasks"`
	TasksSummary TasksSummary           `json:"tasksSummary"`
}

// GetTasks lista zadatke tima pozivaoca: admin vidi sve zadatke tima, član samo
// one koji su mu dodeljeni. Lista i zbirni brojevi se računaju iz istog snimka.
func (s *TaskService) GetTasks(ctx context.Context, principal models.Principal, statusFilter models.TaskStatus) (*TaskList, error) {
	if statusFilter != "" && !models.ValidStatus(statusFilter) {
		return nil, fmt.Errorf("invalid status %q: %w", statusFilter, utils.ErrBadRequest)
	}

	filter := repositories.TaskFilter{Team: principal.Team}
	if !principal.IsAdmin() {
		userID := principal.UserID
		filter.AssignedTo = &userID
	}

	tasks, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := &TaskList{Tasks: []models.TaskWithCount{}}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusPending:
			list.TasksSummary.PendingTasks++
		case models.StatusInProgress:
			list.TasksSummary.InProgressTasks++
		case models.StatusCompleted:
			list.TasksSummary.CompletedTasks++
		}
		list.TasksSummary.All++

		if statusFilter != "" && task.Status != statusFilter {
			continue
		}
		list.Tasks = append(list.Tasks, models.TaskWithCount{
			Task:               task,
			CompletedTodoCount: CompletedCount(task.TodoChecklist),
		})
	}
	return list, nil
}

// UpdateTaskStatus postavlja status direktno; dozvoljeno izvršiocu ili adminu.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, utils.ErrBadRequest)
	}

	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := canMutateTask(principal, task); err != nil {
		return nil, err
	}

	ApplyStatusOverride(task, status)
	task.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskChecklist zamenjuje celu checklistu; napredak i status se izvode
// iz nje. Dozvoljeno izvršiocu ili adminu.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, items []models.ChecklistItem) (*models.Task, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := canMutateTask(principal, task); err != nil {
		return nil, err
	}

	ApplyChecklist(task, items)
	task.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
