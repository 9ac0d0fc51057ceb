package transport

// ClockInRequest is the payload for opening a time clock entry.
type ClockInRequest struct {
	Note *string `json:"note" binding:"omitempty" validate:"omitempty,max=500"`
}

// RangeQuery bounds a listing to a date range (dd/mm/yyyy, inclusive).
type RangeQuery struct {
	From string `form:"from" validate:"omitempty,len=10"`
	To   string `form:"to" validate:"omitempty,len=10"`
}

// EntryResponse is a single time clock entry as rendered to clients.
type EntryResponse struct {
	ID               int64   `json:"id"`
	CollaboratorName string  `json:"collaboratorName"`
	Date             string  `json:"date"`
	ClockIn          string  `json:"clockIn"`
	ClockOut         *string `json:"clockOut"`
	DurationMinutes  *int64  `json:"durationMinutes"`
	Note             *string `json:"note"`
	Open             bool    `json:"open"`
}

// EntryListResponse wraps a range of entries with the total worked time.
type EntryListResponse struct {
	Entries      []EntryResponse `json:"entries"`
	TotalMinutes int64           `json:"totalMinutes"`
}
