package services

import (
	"testing"

	"task-tracker/backend/tasks-service/models"

	"github.com/stretchr/testify/assert"
)

func checklist(completed, total int) []models.ChecklistItem {
	items := make([]models.ChecklistItem, 0, total)
	for i := 0; i < total; i++ {
		items = append(items, models.ChecklistItem{Text: "item", Completed: i < completed})
	}
	return items
}

func TestProgressFor(t *testing.T) {
	assert.Equal(t, 0, ProgressFor(nil))
	assert.Equal(t, 0, ProgressFor([]models.ChecklistItem{}))
	assert.Equal(t, 25, ProgressFor(checklist(1, 4)))
	assert.Equal(t, 33, ProgressFor(checklist(1, 3)))
	assert.Equal(t, 67, ProgressFor(checklist(2, 3)))
	assert.Equal(t, 100, ProgressFor(checklist(4, 4)))
	assert.Equal(t, 0, ProgressFor(checklist(0, 5)))
}

func TestStatusForProgress(t *testing.T) {
	assert.Equal(t, models.StatusPending, StatusForProgress(0))
	assert.Equal(t, models.StatusInProgress, StatusForProgress(1))
	assert.Equal(t, models.StatusInProgress, StatusForProgress(99))
	assert.Equal(t, models.StatusCompleted, StatusForProgress(100))
}

func TestApplyChecklistDerivesProgressAndStatus(t *testing.T) {
	task := &models.Task{Status: models.StatusPending}

	ApplyChecklist(task, checklist(1, 4))
	assert.Equal(t, 25, task.Progress)
	assert.Equal(t, models.StatusInProgress, task.Status)

	ApplyChecklist(task, checklist(4, 4))
	assert.Equal(t, 100, task.Progress)
	assert.Equal(t, models.StatusCompleted, task.Status)

	ApplyChecklist(task, checklist(0, 4))
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, models.StatusPending, task.Status)

	// Prazna checklista vraća zadatak na Pending.
	ApplyChecklist(task, nil)
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestApplyChecklistOverridesManualStatus(t *testing.T) {
	task := &models.Task{}
	ApplyStatusOverride(task, models.StatusCompleted)
	assert.Equal(t, models.StatusCompleted, task.Status)

	// Zamena checkliste bezuslovno gazi ručno postavljen status.
	ApplyChecklist(task, checklist(1, 2))
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, 50, task.Progress)
}

func TestApplyChecklistIsIdempotent(t *testing.T) {
	task := &models.Task{}
	items := checklist(2, 4)

	ApplyChecklist(task, items)
	firstProgress, firstStatus := task.Progress, task.Status

	ApplyChecklist(task, items)
	assert.Equal(t, firstProgress, task.Progress)
	assert.Equal(t, firstStatus, task.Status)
}

func TestApplyStatusOverrideCompletedClosesChecklist(t *testing.T) {
	task := &models.Task{TodoChecklist: checklist(1, 3)}

	ApplyStatusOverride(task, models.StatusCompleted)

	assert.Equal(t, 100, task.Progress)
	for _, item := range task.TodoChecklist {
		assert.True(t, item.Completed)
	}
}

func TestApplyStatusOverrideNonCompletedResetsProgress(t *testing.T) {
	task := &models.Task{TodoChecklist: checklist(2, 3), Progress: 67}

	ApplyStatusOverride(task, models.StatusInProgress)

	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, 0, task.Progress)
	// Stavke checkliste ostaju netaknute.
	assert.Equal(t, 2, CompletedCount(task.TodoChecklist))
}
