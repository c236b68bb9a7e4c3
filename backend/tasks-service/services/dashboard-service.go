package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/tasks-service/repositories"
)

// DashboardService je čista read strana: čita zadatke, nikad ih ne menja.
type DashboardService struct {
	store TaskStore
	now   func() time.Time
}

func NewDashboardService(store TaskStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// GetTeamDashboard agregira sve zadatke tima pozivaoca.
func (s *DashboardService) GetTeamDashboard(ctx context.Context, principal models.Principal) (*models.DashboardData, error) {
	tasks, err := s.store.Find(ctx, repositories.TaskFilter{Team: principal.Team})
	if err != nil {
		return nil, err
	}
	return buildDashboard(tasks, s.now()), nil
}

// GetUserDashboard agregira zadatke tima dodeljene pozivaocu.
func (s *DashboardService) GetUserDashboard(ctx context.Context, principal models.Principal) (*models.DashboardData, error) {
	userID := principal.UserID
	tasks, err := s.store.Find(ctx, repositories.TaskFilter{Team: principal.Team, AssignedTo: &userID})
	if err != nil {
		return nil, err
	}
	return buildDashboard(tasks, s.now()), nil
}

var taskStatuses = []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
var taskPriorities = []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

// buildDashboard računa sve statistike iz jednog snimka zadataka, tako da se
// brojači i raspodele međusobno slažu. Raspodele se grade nad fiksnim skupom
// oznaka i uvek sadrže sve ključeve, i one sa nulom.
func buildDashboard(tasks []models.Task, now time.Time) *models.DashboardData {
	data := &models.DashboardData{
		Charts: models.DashboardCharts{
			TaskDistribution:   make(map[string]int, len(taskStatuses)+1),
			TaskPriorityLevels: make(map[string]int, len(taskPriorities)),
		},
		RecentTasks: []models.RecentTask{},
	}

	for _, status := range taskStatuses {
		data.Charts.TaskDistribution[distributionKey(string(status))] = 0
	}
	for _, priority := range taskPriorities {
		data.Charts.TaskPriorityLevels[string(priority)] = 0
	}

	for _, task := range tasks {
		data.Statistics.TotalTasks++
		switch task.Status {
		case models.StatusPending:
			data.Statistics.PendingTasks++
		case models.StatusCompleted:
			data.Statistics.CompletedTasks++
		}
		if task.Status != models.StatusCompleted && task.DueDate.Before(now) {
			data.Statistics.OverdueTasks++
		}

		data.Charts.TaskDistribution[distributionKey(string(task.Status))]++
		data.Charts.TaskPriorityLevels[string(task.Priority)]++
	}
	data.Charts.TaskDistribution["All"] = data.Statistics.TotalTasks

	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for i, task := range sorted {
		if i == 10 {
			break
		}
		data.RecentTasks = append(data.RecentTasks, models.RecentTask{
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		})
	}
	return data
}

// distributionKey normalizuje oznaku statusa uklanjanjem razmaka
// ("In Progress" -> "InProgress").
func distributionKey(status string) string {
	return strings.ReplaceAll(status, " ", "")
}
