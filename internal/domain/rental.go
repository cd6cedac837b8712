package domain

import "time"

// RentalAgreement binds one renter to one space for a bounded time window
// at a fixed total cost. Agreements are never deleted; released rows stay
// as permanent history with IsActive=false.
type RentalAgreement struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SpaceID   int64     `json:"space_id" gorm:"not null;index"`
	RenterID  int64     `json:"renter_id" gorm:"not null;index"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	TotalCost int64     `json:"total_cost" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RentalAgreement) TableName() string { return "rental_agreements" }
