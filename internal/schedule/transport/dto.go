package transport

// ServiceResponse is a scheduled service as clients see it.
type ServiceResponse struct {
	ID            string  `json:"id"`
	RequestID     string  `json:"requestId,omitempty"`
	ClientName    string  `json:"clientName"`
	ClientArea    string  `json:"clientArea"`
	ServiceType   string  `json:"serviceType"`
	TeamName      string  `json:"teamName"`
	Status        string  `json:"status"`
	StatusLabel   string  `json:"statusLabel"`
	Notes         *string `json:"notes,omitempty"`
	ScheduledDate string  `json:"scheduledDate"`
	ScheduledTime string  `json:"scheduledTime"`
}

// ServiceListResponse wraps a list of scheduled services.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}

// ListServicesRequest carries the date range of a schedule listing. Dates
// use the dd/mm/yyyy wire format; To is inclusive.
type ListServicesRequest struct {
	From string `form:"from" validate:"required,datetime=02/01/2006"`
	To   string `form:"to" validate:"required,datetime=02/01/2006"`
}

// AgendaRequest carries the day span of a collaborator's agenda. Days
// defaults to 7.
type AgendaRequest struct {
	From string `form:"from" validate:"omitempty,datetime=02/01/2006"`
	Days int    `form:"days" validate:"omitempty,gte=1,lte=31"`
}

// CreateServiceRequest schedules a service visit.
type CreateServiceRequest struct {
	RequestID     *int64  `json:"requestId" validate:"omitempty,gt=0"`
	CompanyID     string  `json:"companyId" validate:"required,uuid"`
	BranchID      *string `json:"branchId" validate:"omitempty,uuid"`
	CatalogID     *int64  `json:"catalogId" validate:"omitempty,gt=0"`
	TeamID        *string `json:"teamId" validate:"omitempty,uuid"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
	ScheduledDate string  `json:"scheduledDate" validate:"required,datetime=02/01/2006"`
	ScheduledTime string  `json:"scheduledTime" validate:"required,datetime=15:04"`
}

// UpdateStatusRequest moves a scheduled service to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
