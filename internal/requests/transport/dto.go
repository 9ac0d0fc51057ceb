package transport

// RequestResponse is a service request as clients see it.
type RequestResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"companyId"`
	ClientName    string  `json:"clientName"`
	ClientArea    string  `json:"clientArea"`
	ServiceType   string  `json:"serviceType"`
	TeamName      string  `json:"teamName"`
	Status        string  `json:"status"`
	StatusLabel   string  `json:"statusLabel"`
	Description   *string `json:"description,omitempty"`
	ContactPhone  *string `json:"contactPhone,omitempty"`
	RequestedDate string  `json:"requestedDate,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// RequestListResponse wraps a paginated request listing.
type RequestListResponse struct {
	Items    []RequestResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ListRequestsRequest carries listing filters and pagination.
type ListRequestsRequest struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

// CreateRequestRequest opens a new service request.
type CreateRequestRequest struct {
	BranchID      *string `json:"branchId" validate:"omitempty,uuid"`
	CatalogID     *int64  `json:"catalogId" validate:"omitempty,gt=0"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	ContactPhone  *string `json:"contactPhone" validate:"omitempty,max=32"`
	RequestedDate string  `json:"requestedDate" validate:"omitempty,datetime=02/01/2006"`
}

// UpdateStatusRequest moves a request to a new status, optionally assigning
// a team.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	TeamID *string `json:"teamId" validate:"omitempty,uuid"`
}

// StatsResponse is the per-status tally of service requests.
type StatsResponse struct {
	Pending    int64 `json:"pending"`
	Scheduled  int64 `json:"scheduled"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}
