package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parkshare/internal/domain"
	"parkshare/internal/modules/events"
	"parkshare/internal/repository"
)

// Service owns the set of listed parking spaces. All mutation goes through
// it; each mutating call runs as one transaction with the space row locked,
// so read-check-write sequences for a space never interleave.
type Service struct {
	db     *gorm.DB
	spaces *repository.SpaceRepository
	hub    *events.Hub
	now    func() time.Time
}

func NewService(db *gorm.DB, spaces *repository.SpaceRepository, hub *events.Hub) *Service {
	return &Service{
		db:     db,
		spaces: spaces,
		hub:    hub,
		now:    time.Now,
	}
}

// ListSpace creates a listing owned by the caller. Rejected input allocates
// no ID and writes nothing.
func (s *Service) ListSpace(ctx context.Context, ownerID int64, location string, pricePerHour int64) (*domain.ParkingSpace, error) {
	location = strings.TrimSpace(location)
	if location == "" || pricePerHour <= 0 {
		return nil, ErrValidation
	}

	space := &domain.ParkingSpace{
		OwnerID:      ownerID,
		Location:     location,
		PricePerHour: pricePerHour,
		IsAvailable:  true,
	}

	var ev *domain.LedgerEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return err
		}

		var err error
		ev, err = events.Append(tx, domain.EventSpaceListed, &space.ID, nil, &ownerID, domain.SpaceListedPayload{
			SpaceID:      space.ID,
			OwnerID:      ownerID,
			Location:     space.Location,
			PricePerHour: space.PricePerHour,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return space, nil
}

// UpdateAvailability is the owner's direct toggle. Re-enabling is refused
// while a renter's paid window is still running. The renter pointer is
// deliberately left in place; the booking path has its own guard against a
// residual renter.
func (s *Service) UpdateAvailability(ctx context.Context, spaceID, callerID int64, desired bool) (*domain.ParkingSpace, error) {
	var space domain.ParkingSpace
	var ev *domain.LedgerEvent

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&space, spaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if space.OwnerID != callerID {
			return ErrForbidden
		}

		if desired && space.HasActiveRenter(s.now()) {
			return ErrStillRented
		}

		space.IsAvailable = desired
		if err := tx.Model(&domain.ParkingSpace{}).Where("id = ?", space.ID).Update("is_available", desired).Error; err != nil {
			return err
		}

		var err error
		ev, err = events.Append(tx, domain.EventSpaceAvailabilityUpdated, &space.ID, nil, &callerID, domain.SpaceAvailabilityUpdatedPayload{
			SpaceID:     space.ID,
			IsAvailable: desired,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return &space, nil
}

func (s *Service) GetSpace(ctx context.Context, spaceID int64) (*domain.ParkingSpace, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return space, nil
}

func (s *Service) ListSpaces(ctx context.Context, onlyAvailable bool, limit, offset int) ([]domain.ParkingSpace, error) {
	return s.spaces.List(ctx, onlyAvailable, limit, offset)
}

func (s *Service) ListMySpaces(ctx context.Context, ownerID int64) ([]domain.ParkingSpace, error) {
	return s.spaces.ListByOwner(ctx, ownerID)
}

func (s *Service) publish(ev *domain.LedgerEvent) {
	if s.hub != nil && ev != nil {
		s.hub.Broadcast(ev)
	}
}
