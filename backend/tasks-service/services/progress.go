package services

import (
	"math"

	"task-tracker/backend/tasks-service/models"
)

// CompletedCount broji završene stavke checkliste.
func CompletedCount(items []models.ChecklistItem) int {
	count := 0
	for _, item := range items {
		if item.Completed {
			count++
		}
	}
	return count
}

// ProgressFor računa napredak kao round(100 * završeno / ukupno); prazna
// checklista daje 0.
func ProgressFor(items []models.ChecklistItem) int {
	total := len(items)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(CompletedCount(items)) / float64(total) * 100))
}

// StatusForProgress izvodi status iz napretka: 100 -> Completed,
// 0 < p < 100 -> In Progress, 0 -> Pending.
func StatusForProgress(progress int) models.TaskStatus {
	switch {
	case progress == 100:
		return models.StatusCompleted
	case progress > 0:
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}

// ApplyChecklist zamenjuje checklistu i bezuslovno izvodi napredak i status iz
// nje, gazeći eventualni ručno postavljen status.
func ApplyChecklist(task *models.Task, items []models.ChecklistItem) {
	task.TodoChecklist = items
	task.Progress = ProgressFor(items)
	task.Status = StatusForProgress(task.Progress)
}

// ApplyStatusOverride postavlja status direktno: Completed zatvara sve stavke
// checkliste i podiže napredak na 100, svaki drugi status spušta napredak na 0
// a stavke ostavlja netaknute.
func ApplyStatusOverride(task *models.Task, status models.TaskStatus) {
	task.Status = status

	if status == models.StatusCompleted {
		for i := range task.TodoChecklist {
			task.TodoChecklist[i].Completed = true
		}
		task.Progress = 100
	} else {
		task.Progress = 0
	}
}
