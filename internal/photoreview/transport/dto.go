package transport

// Submission is the photo review view-model: one scheduled service's photo
// set with display-ready fields. Built fresh per request, never persisted.
type Submission struct {
	ID                 string   `json:"id"`
	ServiceRequestID   string   `json:"serviceRequestId"`
	ClientName         string   `json:"clientName"`
	ClientArea         string   `json:"clientArea"`
	ClientLocation     string   `json:"clientLocation"`
	ServiceType        string   `json:"serviceType"`
	ServiceDescription string   `json:"serviceDescription"`
	CollaboratorName   string   `json:"collaboratorName"`
	CollaboratorID     string   `json:"collaboratorId"`
	ManagerName        string   `json:"managerName"`
	UploadDate         string   `json:"uploadDate"`
	UploadTime         string   `json:"uploadTime"`
	BeforePhotos       []string `json:"beforePhotos"`
	AfterPhotos        []string `json:"afterPhotos"`
	CollaboratorNotes  string   `json:"collaboratorNotes"`
	Status             string   `json:"status"`
	ManagerNotes       string   `json:"managerNotes"`
	SentDate           string   `json:"sentDate,omitempty"`
	Orphaned           bool     `json:"orphaned"`
}

// SubmissionListResponse wraps a list of submissions.
type SubmissionListResponse struct {
	Items []Submission `json:"items"`
	Total int          `json:"total"`
}

// ListSubmissionsRequest carries the filter parameters of the listing
// endpoint. Absent values mean "no filter"; "all" and "todos" are accepted
// sentinels that also disable a categorical filter.
type ListSubmissionsRequest struct {
	Status  string `form:"status" validate:"omitempty,oneof=pending sent all todos"`
	Search  string `form:"search"`
	Area    string `form:"area"`
	Manager string `form:"manager"`
}

// ListHistoryRequest carries the filter parameters of the photo history
// listing. History spans every review status, so there is no status filter.
type ListHistoryRequest struct {
	Search  string `form:"search"`
	Area    string `form:"area"`
	Manager string `form:"manager"`
}

// HistoryStatsResponse summarizes the photo archive.
type HistoryStatsResponse struct {
	TotalRecords  int64 `json:"totalRecords"`
	TotalPhotos   int64 `json:"totalPhotos"`
	UniqueClients int64 `json:"uniqueClients"`
}

// SendToClientRequest carries the manager's review notes.
type SendToClientRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// DeletePhotoRequest identifies the photo to remove by its URL.
type DeletePhotoRequest struct {
	PhotoURL string `json:"photoUrl" validate:"required,max=1000"`
}

// UploadPhotoResponse reports the stored photo.
type UploadPhotoResponse struct {
	PhotoID int64  `json:"photoId"`
	URL     string `json:"url"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
