package roles

import "taskboard/internal/domain/models"

// RoleInfo is the catalog entry for one project role.
type RoleInfo struct {
	ID          models.ProjectRole `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
}

// PriorityInfo is the catalog entry for one task priority level.
type PriorityInfo struct {
	ID          models.PriorityLevel `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
}

// catalog is the on-disk shape of the embedded YAML files.
type catalog struct {
	Roles      []RoleInfo     `yaml:"roles"`
	Priorities []PriorityInfo `yaml:"priorities"`
}
