package realtime

import "taskboard/internal/domain/services"

// Event names on the wire. Clients treat every payload as a full-state
// refresh, not a delta, so reordering between two concurrent broadcasts is
// harmless.
const (
	EventConnected                  = "connected"
	EventProjectParticipantsChanged = "project-participants-list-changed"
	EventProjectsListChanged        = "projects-list-changed"
	EventProjectDetailChanged       = "project-detail-changed"
	EventProfileInfoChanged         = "profile-info-changed"
)

// ConnectedPayload is sent once when a transport session opens, carrying
// the id the client must quote in subscription commands.
type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

// ParticipantsPayload carries the full current roster of a project.
type ParticipantsPayload struct {
	*services.ParticipantList
}

// ProjectsListPayload carries the full current project list of one user.
type ProjectsListPayload struct {
	Projects []services.ProjectResponse `json:"projects"`
}

// ProjectDetailPayload carries the refreshed detail view of a project.
type ProjectDetailPayload struct {
	ProjectDetail *services.ProjectResponse `json:"project_detail"`
}

// ProfilePayload carries the refreshed profile record of one user.
type ProfilePayload struct {
	Profile *services.UserResponse `json:"profile"`
}
