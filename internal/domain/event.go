package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventType string

const (
	EventSpaceListed              EventType = "SpaceListed"
	EventSpaceRented              EventType = "SpaceRented"
	EventSpaceAvailabilityUpdated EventType = "SpaceAvailabilityUpdated"
	EventSpaceReleased            EventType = "SpaceReleased"

	// EventFundsWithdrawn is reserved for a pull-based settlement flow.
	// No core path emits it.
	EventFundsWithdrawn EventType = "FundsWithdrawn"
)

// LedgerEvent is an append-only audit record. Events are written in the
// same transaction as the mutation they describe, so a rejected operation
// leaves no event behind. Seq orders events by emission.
type LedgerEvent struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;uniqueIndex"`
	Seq       int64           `json:"seq" gorm:"primaryKey;autoIncrement"`
	Type      EventType       `json:"type" gorm:"type:varchar(40);not null;index"`
	SpaceID   *int64          `json:"space_id,omitempty" gorm:"index"`
	RentalID  *int64          `json:"rental_id,omitempty" gorm:"index"`
	ActorID   *int64          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
}

func (LedgerEvent) TableName() string { return "ledger_events" }

func (e *LedgerEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Typed payloads, one per event type.

type SpaceListedPayload struct {
	SpaceID      int64  `json:"space_id"`
	OwnerID      int64  `json:"owner_id"`
	Location     string `json:"location"`
	PricePerHour int64  `json:"price_per_hour"`
}

type SpaceRentedPayload struct {
	RentalID    int64     `json:"rental_id"`
	SpaceID     int64     `json:"space_id"`
	RenterID    int64     `json:"renter_id"`
	RentedUntil time.Time `json:"rented_until"`
	TotalCost   int64     `json:"total_cost"`
}

type SpaceAvailabilityUpdatedPayload struct {
	SpaceID     int64 `json:"space_id"`
	IsAvailable bool  `json:"is_available"`
}

type SpaceReleasedPayload struct {
	RentalID int64 `json:"rental_id"`
	SpaceID  int64 `json:"space_id"`
	RenterID int64 `json:"renter_id"`
}

type FundsWithdrawnPayload struct {
	OwnerID int64 `json:"owner_id"`
	Amount  int64 `json:"amount"`
}
