package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/tasks-service/repositories"
	"task-tracker/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTaskStore je in-memory implementacija TaskStore za testove.
type fakeTaskStore struct {
	tasks map[primitive.ObjectID]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *fakeTaskStore) Insert(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	task.ID = id
	s.tasks[id] = *task
	return id, nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	copied := task
	return &copied, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return utils.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.tasks[id]; !ok {
		return utils.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) Find(_ context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	var result []models.Task
	for _, task := range s.tasks {
		if filter.Team != "" && task.Team != filter.Team {
			continue
		}
		if filter.AssignedTo != nil && !task.IsAssignedTo(*filter.AssignedTo) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

// fakeTeamProvider vraća unapred zadate članove tima ili grešku.
type fakeTeamProvider struct {
	members []models.TeamMember
	err     error
	calls   int
}

func (p *fakeTeamProvider) TeamMembers(_ context.Context, _ primitive.ObjectID, _ string) ([]models.TeamMember, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.members, nil
}

var (
	aliceID = primitive.NewObjectID()
	bobID   = primitive.NewObjectID()
	carolID = primitive.NewObjectID()
)

func adminPrincipal() models.Principal {
	return models.Principal{UserID: aliceID, Role: models.RoleAdmin, Team: "Core", Company: "Acme"}
}

func memberPrincipal(id primitive.ObjectID) models.Principal {
	return models.Principal{UserID: id, Role: models.RoleMember, Team: "Core", Company: "Acme"}
}

func coreTeamProvider() *fakeTeamProvider {
	return &fakeTeamProvider{members: []models.TeamMember{
		{ID: aliceID.Hex(), Name: "Alice"},
		{ID: bobID.Hex(), Name: "Bob"},
	}}
}

func TestCreateTaskDenormalizesCompanyAndTeam(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	task, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:         "Ship release",
		Priority:      models.PriorityHigh,
		DueDate:       time.Now().Add(48 * time.Hour),
		AssignedTo:    []primitive.ObjectID{bobID},
		TodoChecklist: checklist(1, 4),
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", task.Company)
	assert.Equal(t, "Core", task.Team)
	assert.Equal(t, aliceID, task.CreatedBy)
	// Checklista odmah određuje početni napredak i status.
	assert.Equal(t, 25, task.Progress)
	assert.Equal(t, models.StatusInProgress, task.Status)

	stored, err := store.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, stored.Title)
}

func TestCreateTaskRequiresAdmin(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	_, err := service.CreateTask(context.Background(), memberPrincipal(bobID), "token", CreateTaskInput{
		Title:      "Nope",
		AssignedTo: []primitive.ObjectID{bobID},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrForbidden))
	assert.Empty(t, store.tasks)
}

func TestCreateTaskRequiresAssignees(t *testing.T) {
	provider := coreTeamProvider()
	service := NewTaskService(newFakeTaskStore(), provider)

	_, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{Title: "Empty"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
	// Validacija pada pre poziva ka users-servisu.
	assert.Equal(t, 0, provider.calls)
}

func TestCreateTaskRejectsNonTeamAssignees(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	_, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:      "Cross-team",
		AssignedTo: []primitive.ObjectID{bobID, carolID},
	})
	require.Error(t, err)

	var invalidAssignment *utils.InvalidAssignmentError
	require.True(t, errors.As(err, &invalidAssignment))
	assert.Equal(t, []string{carolID.Hex()}, invalidAssignment.InvalidMembers)
	// Zadatak se ne sme upisati.
	assert.Empty(t, store.tasks)
}

func TestCreateTaskMembershipLookupFailure(t *testing.T) {
	store := newFakeTaskStore()
	provider := &fakeTeamProvider{err: utils.ErrServiceUnavailable}
	service := NewTaskService(store, provider)

	_, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:      "Unlucky",
		AssignedTo: []primitive.ObjectID{bobID},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrServiceUnavailable))
	assert.Empty(t, store.tasks)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	task, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:       "Original",
		Description: "keep me",
		Priority:    models.PriorityLow,
		AssignedTo:  []primitive.ObjectID{bobID},
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	updated, err := service.UpdateTask(context.Background(), adminPrincipal(), "token", task.ID, UpdateTaskInput{
		Title: &newTitle,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	// Izostavljena polja ostaju nepromenjena.
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Equal(t, []primitive.ObjectID{bobID}, updated.AssignedTo)
}

func TestUpdateTaskRevalidatesAssignees(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	task, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:      "Reassign",
		AssignedTo: []primitive.ObjectID{bobID},
	})
	require.NoError(t, err)

	_, err = service.UpdateTask(context.Background(), adminPrincipal(), "token", task.ID, UpdateTaskInput{
		AssignedTo: []primitive.ObjectID{carolID},
	})
	require.Error(t, err)

	var invalidAssignment *utils.InvalidAssignmentError
	assert.True(t, errors.As(err, &invalidAssignment))
}

func TestDeleteTask(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())

	task, err := service.CreateTask(context.Background(), adminPrincipal(), "token", CreateTaskInput{
		Title:      "Doomed",
		AssignedTo: []primitive.ObjectID{bobID},
	})
	require.NoError(t, err)

	err = service.DeleteTask(context.Background(), memberPrincipal(bobID), task.ID)
	assert.True(t, errors.Is(err, utils.ErrForbidden))

	require.NoError(t, service.DeleteTask(context.Background(), adminPrincipal(), task.ID))

	err = service.DeleteTask(context.Background(), adminPrincipal(), task.ID)
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}

func TestGetTasksScoping(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())
	ctx := context.Background()

	_, err := service.CreateTask(ctx, adminPrincipal(), "token", CreateTaskInput{
		Title:         "For Bob",
		AssignedTo:    []primitive.ObjectID{bobID},
		TodoChecklist: checklist(2, 4),
	})
	require.NoError(t, err)

	_, err = service.CreateTask(ctx, adminPrincipal(), "token", CreateTaskInput{
		Title:      "For Alice",
		AssignedTo: []primitive.ObjectID{aliceID},
	})
	require.NoError(t, err)

	adminList, err := service.GetTasks(ctx, adminPrincipal(), "")
	require.NoError(t, err)
	assert.Len(t, adminList.Tasks, 2)
	assert.Equal(t, 2, adminList.TasksSummary.All)
	assert.Equal(t, 1, adminList.TasksSummary.PendingTasks)
	assert.Equal(t, 1, adminList.TasksSummary.InProgressTasks)

	memberList, err := service.GetTasks(ctx, memberPrincipal(bobID), "")
	require.NoError(t, err)
	require.Len(t, memberList.Tasks, 1)
	assert.Equal(t, "For Bob", memberList.Tasks[0].Title)
	// completedTodoCount se računa pri čitanju iz checkliste.
	assert.Equal(t, 2, memberList.Tasks[0].CompletedTodoCount)

	filtered, err := service.GetTasks(ctx, adminPrincipal(), models.StatusInProgress)
	require.NoError(t, err)
	require.Len(t, filtered.Tasks, 1)
	assert.Equal(t, "For Bob", filtered.Tasks[0].Title)
	// Zbirni brojevi pokrivaju ceo vidljivi skup, ne samo filtrirani.
	assert.Equal(t, 2, filtered.TasksSummary.All)
}

func TestUpdateTaskStatusGuard(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())
	ctx := context.Background()

	task, err := service.CreateTask(ctx, adminPrincipal(), "token", CreateTaskInput{
		Title:         "Guarded",
		AssignedTo:    []primitive.ObjectID{bobID},
		TodoChecklist: checklist(0, 2),
	})
	require.NoError(t, err)

	// Carol nije izvršilac pa ne može da menja status.
	_, err = service.UpdateTaskStatus(ctx, memberPrincipal(carolID), task.ID, models.StatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrForbidden))

	updated, err := service.UpdateTaskStatus(ctx, memberPrincipal(bobID), task.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, 2, CompletedCount(updated.TodoChecklist))

	_, err = service.UpdateTaskStatus(ctx, adminPrincipal(), task.ID, "Done")
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
}

func TestUpdateTaskChecklistGuardAndDerivation(t *testing.T) {
	store := newFakeTaskStore()
	service := NewTaskService(store, coreTeamProvider())
	ctx := context.Background()

	task, err := service.CreateTask(ctx, adminPrincipal(), "token", CreateTaskInput{
		Title:         "Checklist",
		AssignedTo:    []primitive.ObjectID{bobID},
		TodoChecklist: checklist(1, 4),
	})
	require.NoError(t, err)

	_, err = service.UpdateTaskChecklist(ctx, memberPrincipal(carolID), task.ID, checklist(4, 4))
	assert.True(t, errors.Is(err, utils.ErrForbidden))

	updated, err := service.UpdateTaskChecklist(ctx, memberPrincipal(bobID), task.ID, checklist(4, 4))
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Ponovna zamena istom checklistom daje isti rezultat.
	again, err := service.UpdateTaskChecklist(ctx, memberPrincipal(bobID), task.ID, checklist(4, 4))
	require.NoError(t, err)
	assert.Equal(t, updated.Progress, again.Progress)
	assert.Equal(t, updated.Status, again.Status)
}
