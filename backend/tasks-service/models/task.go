package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// ValidStatus proverava da li je status jedan od dozvoljenih.
func ValidStatus(status TaskStatus) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func ValidPriority(priority TaskPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ChecklistItem je stavka checkliste; redosled stavki određuje pozivalac.
type ChecklistItem struct {
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description" json:"description"`
	Priority      TaskPriority         `bson:"priority" json:"priority"`
	Status        TaskStatus           `bson:"status" json:"status"`
	DueDate       time.Time            `bson:"dueDate" json:"dueDate"`
	Progress      int                  `bson:"progress" json:"progress"`
	TodoChecklist []ChecklistItem      `bson:"todoChecklist" json:"todoChecklist"`
	AssignedTo    []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Attachments   []string             `bson:"attachments" json:"attachments"`
	Company       string               `bson:"company" json:"company"`
	Team          string               `bson:"team" json:"team"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsAssignedTo proverava da li je korisnik među dodeljenim izvršiocima.
func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskWithCount je projekcija zadatka za listanje, sa brojem završenih stavki
// checkliste izračunatim pri čitanju.
type TaskWithCount struct {
	Task
	CompletedTodoCount int `json:"completedTodoCount"`
}
