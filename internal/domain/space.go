package domain

import "time"

// ParkingSpace is a listed, rentable physical parking slot. Rows are
// append-only: spaces are never deleted and IDs are never reused.
type ParkingSpace struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	OwnerID       int64      `json:"owner_id" gorm:"not null;index"`
	Location      string     `json:"location" gorm:"type:text;not null"`
	PricePerHour  int64      `json:"price_per_hour" gorm:"not null"`
	IsAvailable   bool       `json:"is_available" gorm:"not null;default:true"`
	CurrentRenter *int64     `json:"current_renter,omitempty" gorm:"column:current_renter_id"`
	RentedUntil   *time.Time `json:"rented_until,omitempty"`
	TotalEarnings int64      `json:"total_earnings" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (ParkingSpace) TableName() string { return "parking_spaces" }

// HasActiveRenter reports whether a renter still holds the space at the
// given instant. The renter pointer may outlive the paid window when the
// owner re-enables availability without a release; callers that mutate
// booking state must treat an expired window as vacant.
func (s *ParkingSpace) HasActiveRenter(now time.Time) bool {
	return s.CurrentRenter != nil && s.RentedUntil != nil && now.Before(*s.RentedUntil)
}
