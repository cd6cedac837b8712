package rental

// Hours and PaidAmount are validated by the service so that zero values hit
// the domain error taxonomy instead of the JSON binder.
type RentSpaceRequest struct {
	SpaceID    int64 `json:"space_id" binding:"required"`
	Hours      int64 `json:"hours"`
	PaidAmount int64 `json:"paid_amount"`
}
