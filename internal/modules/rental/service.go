package rental

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parkshare/internal/domain"
	"parkshare/internal/modules/events"
	"parkshare/internal/modules/wallet"
	"parkshare/internal/repository"
)

// maxRentalHours bounds a single booking to one year.
const maxRentalHours = 24 * 365

// Service owns the rental ledger. RentSpace and ReleaseSpace each run as a
// single transaction with the space row locked FOR UPDATE, so two
// concurrent bookings of the same space serialize and the loser fails
// deterministically.
type Service struct {
	db      *gorm.DB
	rentals *repository.RentalRepository
	hub     *events.Hub
	now     func() time.Time
}

func NewService(db *gorm.DB, rentals *repository.RentalRepository, hub *events.Hub) *Service {
	return &Service{
		db:      db,
		rentals: rentals,
		hub:     hub,
		now:     time.Now,
	}
}

// RentSpace books a space for the caller and escrows the payment. The paid
// amount must equal pricePerHour*hours exactly; over- and underpayment are
// both rejected. Any precondition failure rolls the transaction back, so a
// rejected booking moves no funds, writes no rows, and emits no event.
func (s *Service) RentSpace(ctx context.Context, spaceID, renterID, hours, paidAmount int64) (*domain.RentalAgreement, error) {
	now := s.now()

	var agreement *domain.RentalAgreement
	var ev *domain.LedgerEvent

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space domain.ParkingSpace
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&space, spaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpaceNotFound
			}
			return err
		}

		if !space.IsAvailable {
			return ErrNotAvailable
		}
		// The cap keeps the window duration inside int64 nanoseconds; the
		// division check catches a cost overflow for extreme prices. Both
		// would otherwise wrap silently and defeat the exact-payment check.
		if hours <= 0 || hours > maxRentalHours {
			return ErrValidation
		}
		cost := space.PricePerHour * hours
		if cost/hours != space.PricePerHour {
			return ErrValidation
		}
		if paidAmount != cost {
			return ErrIncorrectPayment
		}
		// Availability can be re-enabled by the owner while a renter
		// pointer is still set; refuse to book over an unexpired window.
		if space.HasActiveRenter(now) {
			return ErrBookingConflict
		}

		rentedUntil := now.Add(time.Duration(hours) * time.Hour)

		agreement = &domain.RentalAgreement{
			SpaceID:   space.ID,
			RenterID:  renterID,
			StartTime: now,
			EndTime:   rentedUntil,
			TotalCost: paidAmount,
			IsActive:  true,
		}
		if err := tx.Create(agreement).Error; err != nil {
			if isActiveRentalConflict(err) {
				return ErrBookingConflict
			}
			return err
		}

		if _, err := wallet.DebitTx(tx, renterID, paidAmount, wallet.TransactionTypeEscrow, &agreement.ID); err != nil {
			return err
		}

		updates := map[string]any{
			"is_available":      false,
			"current_renter_id": renterID,
			"rented_until":      rentedUntil,
		}
		if err := tx.Model(&domain.ParkingSpace{}).Where("id = ?", space.ID).Updates(updates).Error; err != nil {
			return err
		}

		var err error
		ev, err = events.Append(tx, domain.EventSpaceRented, &space.ID, &agreement.ID, &renterID, domain.SpaceRentedPayload{
			RentalID:    agreement.ID,
			SpaceID:     space.ID,
			RenterID:    renterID,
			RentedUntil: rentedUntil,
			TotalCost:   paidAmount,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return agreement, nil
}

// ReleaseSpace settles an active rental: the escrowed amount is credited to
// the space owner, the space is freed, and the agreement is closed, all in
// one transaction. The renter may release at any time; the owner only once
// the paid window has expired. A failed credit aborts the whole release.
func (s *Service) ReleaseSpace(ctx context.Context, rentalID, callerID int64) (*domain.RentalAgreement, error) {
	now := s.now()

	var agreement domain.RentalAgreement
	var released, availability *domain.LedgerEvent

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&agreement, rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotActive
			}
			return err
		}
		if !agreement.IsActive {
			return ErrNotActive
		}

		var space domain.ParkingSpace
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&space, agreement.SpaceID).Error; err != nil {
			return err
		}

		switch {
		case callerID == agreement.RenterID:
			// voluntary release, allowed at any time
		case callerID == space.OwnerID && !now.Before(agreement.EndTime):
			// owner reclaims control after expiry
		default:
			return ErrForbidden
		}

		agreement.IsActive = false
		if err := tx.Model(&domain.RentalAgreement{}).Where("id = ?", agreement.ID).Update("is_active", false).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"is_available":      true,
			"current_renter_id": nil,
			"rented_until":      nil,
			"total_earnings":    space.TotalEarnings + agreement.TotalCost,
		}
		if err := tx.Model(&domain.ParkingSpace{}).Where("id = ?", space.ID).Updates(updates).Error; err != nil {
			return err
		}

		var err error
		released, err = events.Append(tx, domain.EventSpaceReleased, &space.ID, &agreement.ID, &callerID, domain.SpaceReleasedPayload{
			RentalID: agreement.ID,
			SpaceID:  space.ID,
			RenterID: agreement.RenterID,
		})
		if err != nil {
			return err
		}

		availability, err = events.Append(tx, domain.EventSpaceAvailabilityUpdated, &space.ID, nil, &callerID, domain.SpaceAvailabilityUpdatedPayload{
			SpaceID:     space.ID,
			IsAvailable: true,
		})
		if err != nil {
			return err
		}

		// Settlement runs last: if the credit fails the transaction rolls
		// back and none of the updates above survive.
		_, err = wallet.CreditTx(tx, space.OwnerID, agreement.TotalCost, wallet.TransactionTypePayout, &agreement.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(released)
	s.publish(availability)
	return &agreement, nil
}

func (s *Service) GetRental(ctx context.Context, rentalID int64) (*domain.RentalAgreement, error) {
	agreement, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return agreement, nil
}

func (s *Service) ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.RentalAgreement, error) {
	return s.rentals.ListByRenter(ctx, renterID, limit, offset)
}

func (s *Service) ListBySpace(ctx context.Context, spaceID int64, limit, offset int) ([]domain.RentalAgreement, error) {
	return s.rentals.ListBySpace(ctx, spaceID, limit, offset)
}

func (s *Service) publish(ev *domain.LedgerEvent) {
	if s.hub != nil && ev != nil {
		s.hub.Broadcast(ev)
	}
}

// isActiveRentalConflict matches the partial unique index on active rentals
// per space. On postgres this is a 23505 from idx_one_active_rental_per_space;
// sqlite reports a plain-text unique failure, which gorm passes through
// untranslated. rental_agreements has no other unique index, so any unique
// violation on the insert is this conflict.
func isActiveRentalConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_one_active_rental_per_space"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
