package models

import "time"

// Task statuses with defined meaning. Any other non-empty status is accepted
// on update and carried through untouched.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a single tracked unit of work.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		t.CompletedAt = &completed
	}
	return t
}

// IsCompleted reports whether the task is in the completed status.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// TaskPatch carries the mutable fields of a partial update. A nil field is
// left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// Apply merges the patch into t and returns the result. Identity and
// timestamps are never touched.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// CompletionStats summarises tasks by status.
type CompletionStats struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	PendingTasks         int     `json:"pending_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ProductivityMetrics summarises throughput and time-to-complete.
type ProductivityMetrics struct {
	Period                string   `json:"period"`
	TasksCreated          int      `json:"tasks_created"`
	TasksCompleted        int      `json:"tasks_completed"`
	CompletionRate        float64  `json:"completion_rate"`
	AverageCompletionTime *float64 `json:"average_completion_time"`
	TimeUnit              string   `json:"time_unit"`
}
