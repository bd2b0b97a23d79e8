package roles

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"taskboard/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry is the in-process catalog behind the ProjectRole and
// PriorityLevel lookups. Display metadata lives in embedded YAML so the
// enums in the domain package stay free of presentation concerns.
type Registry struct {
	roles      map[models.ProjectRole]RoleInfo
	priorities map[models.PriorityLevel]PriorityInfo
	mu         sync.RWMutex
}

// NewRegistry creates a new catalog registry and loads the embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		roles:      make(map[models.ProjectRole]RoleInfo),
		priorities: make(map[models.PriorityLevel]PriorityInfo),
	}

	if err := r.loadFile("roles"); err != nil {
		return nil, fmt.Errorf("failed to load role catalog: %w", err)
	}

	if err := r.loadFile("priorities"); err != nil {
		return nil, fmt.Errorf("failed to load priority catalog: %w", err)
	}

	return r, nil
}

// loadFile loads one embedded catalog YAML file
func (r *Registry) loadFile(name string) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range c.Roles {
		r.roles[role.ID] = role
	}
	for _, p := range c.Priorities {
		r.priorities[p.ID] = p
	}

	return nil
}

// Role returns the catalog entry for a role id. Unknown ids fall back to
// the enum's own name so responses never lose the id.
func (r *Registry) Role(id models.ProjectRole) RoleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if info, ok := r.roles[id]; ok {
		return info
	}
	return RoleInfo{ID: id, Name: id.String()}
}

// Roles maps a set of role ids to catalog entries, preserving order.
func (r *Registry) Roles(ids []models.ProjectRole) []RoleInfo {
	infos := make([]RoleInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, r.Role(id))
	}
	return infos
}

// Priority returns the catalog entry for a priority level.
func (r *Registry) Priority(id models.PriorityLevel) PriorityInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if info, ok := r.priorities[id]; ok {
		return info
	}
	return PriorityInfo{ID: id, Name: id.String()}
}

// ListRoles returns all grantable roles ordered by id.
func (r *Registry) ListRoles() []RoleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]RoleInfo, 0, len(r.roles))
	for id := models.RoleOwner; id <= models.RoleMember; id++ {
		if info, ok := r.roles[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos
}
