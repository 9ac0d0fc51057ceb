package transport

// Dashboard payload types, discriminated by the "type" field. Each role gets
// its own shape; the handler returns exactly one of these.
const (
	TypeAdmin        = "admin"
	TypeManager      = "manager"
	TypeCollaborator = "collaborator"
	TypeClient       = "client"
)

// AdminDashboard carries the admin headline counters.
type AdminDashboard struct {
	Type            string `json:"type"`
	ActiveTeams     int64  `json:"activeTeams"`
	ServiceOrders   int64  `json:"serviceOrders"`
	ActiveCompanies int64  `json:"activeCompanies"`
	// Placeholder KPIs until billing integration lands.
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
	SatisfactionPct float64 `json:"satisfactionPct"`
}

// RequestStats is the per-status tally of service requests. Every canonical
// status appears even when its count is zero.
type RequestStats struct {
	Pending    int64 `json:"pending"`
	Scheduled  int64 `json:"scheduled"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

// ActiveRequestItem is one entry in the manager's active-work list.
type ActiveRequestItem struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	TeamName    string `json:"teamName"`
	ServiceType string `json:"serviceType"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

// TeamItem is one entry in the manager's team list.
type TeamItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ManagerName string `json:"managerName"`
	MemberCount int64  `json:"memberCount"`
}

// ManagerDashboard aggregates the manager's three pipelines. A degraded
// section carries its zero value; the response is still 200.
type ManagerDashboard struct {
	Type           string              `json:"type"`
	Stats          RequestStats        `json:"stats"`
	ActiveRequests []ActiveRequestItem `json:"activeRequests"`
	Teams          []TeamItem          `json:"teams"`
}

// CollaboratorDashboard carries a collaborator's own workload summary.
type CollaboratorDashboard struct {
	Type            string `json:"type"`
	PendingServices int64  `json:"pendingServices"`
}

// ClientDashboard carries a client user's company summary. A user without a
// company gets the zero payload, not an error.
type ClientDashboard struct {
	Type         string `json:"type"`
	OpenRequests int64  `json:"openRequests"`
	HasCompany   bool   `json:"hasCompany"`
}
