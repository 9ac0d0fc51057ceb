package transport

// ItemResponse is a catalog item as clients see it.
type ItemResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Description      *string `json:"description,omitempty"`
	BasePriceCents   int64   `json:"basePriceCents"`
	EstimatedMinutes int32   `json:"estimatedMinutes"`
	IsActive         bool    `json:"isActive"`
}

// ItemListResponse wraps a list of catalog items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// ListItemsRequest carries catalog listing filters.
type ListItemsRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// CreateItemRequest carries a new catalog item.
type CreateItemRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	Category         string  `json:"category" validate:"required,min=2,max=60"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	BasePriceCents   int64   `json:"basePriceCents" validate:"gte=0"`
	EstimatedMinutes int32   `json:"estimatedMinutes" validate:"gt=0,lte=1440"`
}

// UpdateItemRequest carries edits to a catalog item.
type UpdateItemRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	Category         string  `json:"category" validate:"required,min=2,max=60"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	BasePriceCents   int64   `json:"basePriceCents" validate:"gte=0"`
	EstimatedMinutes int32   `json:"estimatedMinutes" validate:"gt=0,lte=1440"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
