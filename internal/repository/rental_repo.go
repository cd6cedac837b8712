package repository

import (
	"context"

	"gorm.io/gorm"

	"parkshare/internal/domain"
)

type RentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

func (r *RentalRepository) GetByID(ctx context.Context, id int64) (*domain.RentalAgreement, error) {
	var a domain.RentalAgreement
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *RentalRepository) ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.RentalAgreement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rentals []domain.RentalAgreement
	err := r.db.WithContext(ctx).
		Where("renter_id = ?", renterID).
		Order("id desc").
		Limit(limit).Offset(offset).
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *RentalRepository) ListBySpace(ctx context.Context, spaceID int64, limit, offset int) ([]domain.RentalAgreement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rentals []domain.RentalAgreement
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("id desc").
		Limit(limit).Offset(offset).
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

// ActiveBySpace returns the active agreement for a space, if any. There is
// at most one, enforced by idx_one_active_rental_per_space.
func (r *RentalRepository) ActiveBySpace(ctx context.Context, spaceID int64) (*domain.RentalAgreement, error) {
	var a domain.RentalAgreement
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND is_active = ?", spaceID, true).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
