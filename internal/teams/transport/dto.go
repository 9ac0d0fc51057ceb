package transport

// MemberResponse is one collaborator in a team.
type MemberResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// TeamResponse is a team as clients see it.
type TeamResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ManagerID   *string          `json:"managerId,omitempty"`
	ManagerName string           `json:"managerName"`
	IsActive    bool             `json:"isActive"`
	MemberCount int              `json:"memberCount"`
	Members     []MemberResponse `json:"members"`
}

// TeamListResponse wraps a list of teams.
type TeamListResponse struct {
	Items []TeamResponse `json:"items"`
	Total int            `json:"total"`
}

// CreateTeamRequest carries a new team with its initial membership.
type CreateTeamRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=120"`
	ManagerID *string  `json:"managerId" validate:"omitempty,uuid"`
	MemberIDs []string `json:"memberIds" validate:"omitempty,max=50,dive,uuid"`
}

// UpdateTeamRequest carries edits to a team; MemberIDs replaces the full
// membership.
type UpdateTeamRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=120"`
	ManagerID *string  `json:"managerId" validate:"omitempty,uuid"`
	MemberIDs []string `json:"memberIds" validate:"omitempty,max=50,dive,uuid"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
