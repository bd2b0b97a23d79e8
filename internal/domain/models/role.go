package models

// ProjectRole identifies the role a user holds on a project. A user may hold
// several roles on the same project; each is a separate membership row.
type ProjectRole int

const (
	RoleNone ProjectRole = iota
	RoleOwner
	RolePM
	RoleLeader
	RoleQA
	RoleDev
	RoleBA
	RoleMember
)

// Valid reports whether the role id is inside the enumerated range.
// RoleNone is not a grantable role.
func (r ProjectRole) Valid() bool {
	return r > RoleNone && r <= RoleMember
}

func (r ProjectRole) String() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RolePM:
		return "PM"
	case RoleLeader:
		return "Leader"
	case RoleQA:
		return "QA"
	case RoleDev:
		return "Dev"
	case RoleBA:
		return "BA"
	case RoleMember:
		return "Member"
	default:
		return "None"
	}
}

// PriorityLevel is the bounded task priority enum. Zero means "unset" and is
// stored as NULL rather than rejected.
type PriorityLevel int

const (
	PriorityNone PriorityLevel = iota
	PriorityEmergency
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityAnytime
)

// Valid reports whether the priority id is inside the enumerated range,
// including the zero "unset" value.
func (p PriorityLevel) Valid() bool {
	return p >= PriorityNone && p <= PriorityAnytime
}

func (p PriorityLevel) String() string {
	switch p {
	case PriorityEmergency:
		return "Emergency"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	case PriorityAnytime:
		return "Anytime"
	default:
		return "None"
	}
}
