package registry

type CreateSpaceRequest struct {
	Location     string `json:"location" binding:"required"`
	PricePerHour int64  `json:"price_per_hour" binding:"required,gt=0"`
}

type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}
