package events

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"parkshare/internal/domain"
)

// Append writes an audit row inside the caller's transaction. Rolling the
// transaction back discards the event, so rejected operations leave no
// trace in the feed.
func Append(tx *gorm.DB, typ domain.EventType, spaceID, rentalID, actorID *int64, payload any) (*domain.LedgerEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ev := &domain.LedgerEvent{
		Type:     typ,
		SpaceID:  spaceID,
		RentalID: rentalID,
		ActorID:  actorID,
		Payload:  raw,
	}
	if err := tx.Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ListFilter struct {
	Type    string
	SpaceID int64
	Limit   int
	Offset  int
}

// List returns events in emission order.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.LedgerEvent, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := s.db.WithContext(ctx).Model(&domain.LedgerEvent{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.SpaceID > 0 {
		q = q.Where("space_id = ?", f.SpaceID)
	}

	var evs []domain.LedgerEvent
	if err := q.Order("seq asc").Limit(limit).Offset(f.Offset).Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}
