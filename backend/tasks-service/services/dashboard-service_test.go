package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"task-tracker/backend/tasks-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedTask(store *fakeTaskStore, task models.Task) models.Task {
	task.ID = primitive.NewObjectID()
	store.tasks[task.ID] = task
	return task
}

func TestTeamDashboardEmptyTeamZeroFills(t *testing.T) {
	store := newFakeTaskStore()
	service := NewDashboardService(store)

	data, err := service.GetTeamDashboard(context.Background(), adminPrincipal())
	require.NoError(t, err)

	assert.Equal(t, 0, data.Statistics.TotalTasks)
	// Raspodele uvek sadrže sve ključeve, i one sa nulom.
	assert.Equal(t, map[string]int{"Pending": 0, "InProgress": 0, "Completed": 0, "All": 0}, data.Charts.TaskDistribution)
	assert.Equal(t, map[string]int{"Low": 0, "Medium": 0, "High": 0}, data.Charts.TaskPriorityLevels)
	assert.Empty(t, data.RecentTasks)
}

func TestTeamDashboardStatistics(t *testing.T) {
	store := newFakeTaskStore()
	service := NewDashboardService(store)
	now := time.Now()

	seedTask(store, models.Task{Team: "Core", Status: models.StatusPending, Priority: models.PriorityLow, DueDate: now.Add(-24 * time.Hour), CreatedAt: now})
	seedTask(store, models.Task{Team: "Core", Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: now.Add(24 * time.Hour), CreatedAt: now})
	seedTask(store, models.Task{Team: "Core", Status: models.StatusCompleted, Priority: models.PriorityHigh, DueDate: now.Add(-24 * time.Hour), CreatedAt: now})
	// Zadatak drugog tima ne sme da uđe u statistiku.
	seedTask(store, models.Task{Team: "Platform", Status: models.StatusPending, Priority: models.PriorityLow, DueDate: now, CreatedAt: now})

	data, err := service.GetTeamDashboard(context.Background(), adminPrincipal())
	require.NoError(t, err)

	assert.Equal(t, 3, data.Statistics.TotalTasks)
	assert.Equal(t, 1, data.Statistics.PendingTasks)
	assert.Equal(t, 1, data.Statistics.CompletedTasks)
	// Završen zadatak ne može biti probijen, makar mu je rok prošao.
	assert.Equal(t, 1, data.Statistics.OverdueTasks)

	assert.Equal(t, map[string]int{"Pending": 1, "InProgress": 1, "Completed": 1, "All": 3}, data.Charts.TaskDistribution)
	assert.Equal(t, map[string]int{"Low": 1, "Medium": 0, "High": 2}, data.Charts.TaskPriorityLevels)

	sum := data.Charts.TaskDistribution["Pending"] + data.Charts.TaskDistribution["InProgress"] + data.Charts.TaskDistribution["Completed"]
	assert.Equal(t, data.Statistics.TotalTasks, sum)
}

func TestUserDashboardScopesToAssignee(t *testing.T) {
	store := newFakeTaskStore()
	service := NewDashboardService(store)
	now := time.Now()

	seedTask(store, models.Task{Team: "Core", Status: models.StatusPending, Priority: models.PriorityLow, AssignedTo: []primitive.ObjectID{bobID}, DueDate: now.Add(time.Hour), CreatedAt: now})
	seedTask(store, models.Task{Team: "Core", Status: models.StatusCompleted, Priority: models.PriorityHigh, AssignedTo: []primitive.ObjectID{aliceID}, DueDate: now.Add(time.Hour), CreatedAt: now})

	data, err := service.GetUserDashboard(context.Background(), memberPrincipal(bobID))
	require.NoError(t, err)

	assert.Equal(t, 1, data.Statistics.TotalTasks)
	assert.Equal(t, 1, data.Charts.TaskDistribution["Pending"])
	assert.Equal(t, 0, data.Charts.TaskDistribution["Completed"])
	assert.Equal(t, 1, data.Charts.TaskDistribution["All"])
}

func TestDashboardRecentTasks(t *testing.T) {
	store := newFakeTaskStore()
	service := NewDashboardService(store)
	base := time.Now().Add(-24 * time.Hour)

	for i := 0; i < 12; i++ {
		seedTask(store, models.Task{
			Team:      "Core",
			Title:     fmt.Sprintf("task-%d", i),
			Status:    models.StatusPending,
			Priority:  models.PriorityMedium,
			DueDate:   base.Add(48 * time.Hour),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	data, err := service.GetTeamDashboard(context.Background(), adminPrincipal())
	require.NoError(t, err)

	// Najviše 10 zadataka, najnoviji prvi.
	require.Len(t, data.RecentTasks, 10)
	assert.Equal(t, "task-11", data.RecentTasks[0].Title)
	assert.Equal(t, "task-2", data.RecentTasks[9].Title)
	for i := 1; i < len(data.RecentTasks); i++ {
		assert.False(t, data.RecentTasks[i].CreatedAt.After(data.RecentTasks[i-1].CreatedAt))
	}
}

// Scenario iz registracionog toka: jedan zadatak tima, završen kroz checklistu.
func TestTeamDashboardSingleCompletedTask(t *testing.T) {
	store := newFakeTaskStore()
	taskService := NewTaskService(store, coreTeamProvider())
	dashboardService := NewDashboardService(store)
	ctx := context.Background()

	task, err := taskService.CreateTask(ctx, adminPrincipal(), "token", CreateTaskInput{
		Title:         "Onboarding",
		DueDate:       time.Now().Add(72 * time.Hour),
		AssignedTo:    []primitive.ObjectID{bobID},
		TodoChecklist: checklist(1, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 25, task.Progress)
	assert.Equal(t, models.StatusInProgress, task.Status)

	_, err = taskService.UpdateTaskChecklist(ctx, memberPrincipal(bobID), task.ID, checklist(4, 4))
	require.NoError(t, err)

	data, err := dashboardService.GetTeamDashboard(ctx, adminPrincipal())
	require.NoError(t, err)

	assert.Equal(t, 1, data.Statistics.TotalTasks)
	assert.Equal(t, 1, data.Statistics.CompletedTasks)
	assert.Equal(t, map[string]int{"Pending": 0, "InProgress": 0, "Completed": 1, "All": 1}, data.Charts.TaskDistribution)
}
