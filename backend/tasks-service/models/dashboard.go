package models

import "time"

// DashboardData je agregat za kontrolnu tablu: brojači, raspodele po statusu
// i prioritetu (uvek sa svim ključevima, i nulama) i poslednji zadaci.
type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}

type DashboardStatistics struct {
	TotalTasks     int `json:"totalTasks"`
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution   map[string]int `json:"taskDistribution"`
	TaskPriorityLevels map[string]int `json:"taskPriorityLevels"`
}

// RecentTask je projekcija zadatka za listu poslednjih zadataka.
type RecentTask struct {
	Title     string       `json:"title"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	DueDate   time.Time    `json:"dueDate"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TeamMember je projekcija korisnika koju vraća users-service.
type TeamMember struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
