package models

import "time"

// Task belongs to exactly one project and optionally to a parent task.
// Priority is NULL when unset. AssignedBy/AssignedFor are optional user
// references validated at creation time.
type Task struct {
	ID               int64          `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	ProjectID        int64          `json:"project_id" db:"project_id"`
	ParentID         *int64         `json:"parent_id,omitempty" db:"parent_id"`
	Priority         *PriorityLevel `json:"priority,omitempty" db:"priority"`
	Schedule         *time.Time     `json:"schedule,omitempty" db:"schedule"`
	ScheduleNote     string         `json:"schedule_note,omitempty" db:"schedule_note"`
	Reminder         bool           `json:"reminder" db:"reminder"`
	ReminderSchedule *time.Time     `json:"reminder_schedule,omitempty" db:"reminder_schedule"`
	AssignedBy       *int64         `json:"assigned_by,omitempty" db:"assigned_by"`
	AssignedFor      *int64         `json:"assigned_for,omitempty" db:"assigned_for"`
	Deleted          bool           `json:"deleted" db:"deleted"`
	CreatedBy        int64          `json:"created_by" db:"created_by"`
	UpdatedBy        int64          `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// TaskCategory selects a schedule-based slice of the task list.
type TaskCategory byte

const (
	CategoryAll TaskCategory = iota
	CategoryToday
	CategoryUpcoming
)
