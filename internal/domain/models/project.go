package models

import "time"

// Project is a node in the self-referential project tree. Deleted projects
// stay in the store with the flag flipped; queries filter them out.
type Project struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	ParentID    *int64     `json:"parent_id,omitempty" db:"parent_id"`
	Deleted     bool       `json:"deleted" db:"deleted"`
	CreatedBy   int64      `json:"created_by" db:"created_by"`
	UpdatedBy   int64      `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Participation is one membership edge: a user holding one role on one
// project. The same (user, project) pair may appear once per role.
type Participation struct {
	UserID    int64       `json:"user_id" db:"user_id"`
	ProjectID int64       `json:"project_id" db:"project_id"`
	RoleID    ProjectRole `json:"role_id" db:"role_id"`
}
